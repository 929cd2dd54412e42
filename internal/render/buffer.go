package render

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/wayscriber/wayscriber/internal/wlproto"
)

// poolBuffer is one SHM-backed buffer and its mmap'd bytes, wrapping
// wlproto.Buffer the way friedelschoen-ctxmenu's WaylandWindow wraps a
// single such buffer in openFile/drawFrame, generalized here to a pool
// of N rotating buffers per §4.4 responsibility 2.
type poolBuffer struct {
	buf  *wlproto.Buffer
	mem  []byte
	busy bool
}

// BufferPool owns N SHM buffers sized width*height*4 bytes in ARGB32,
// backed by one tmpfile per buffer per the createTmpfile/Mmap idiom in
// the teacher's wayland.go. It is recreated (Close then NewBufferPool)
// whenever the surface reconfigures to a new size, per §4.4.
type BufferPool struct {
	mu      sync.Mutex
	buffers []*poolBuffer
	width   int
	height  int
	stride  int
}

// NewBufferPool allocates count buffers of width x height pixels.
func NewBufferPool(shm *wlproto.Shm, count, width, height int) (*BufferPool, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid buffer dimensions %dx%d", width, height)
	}
	stride := width * 4
	size := stride * height

	p := &BufferPool{width: width, height: height, stride: stride}
	for i := 0; i < count; i++ {
		pb, err := newPoolBuffer(shm, size, width, height, stride)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.buffers = append(p.buffers, pb)
	}
	return p, nil
}

func newPoolBuffer(shm *wlproto.Shm, size, width, height, stride int) (*poolBuffer, error) {
	file, err := createTmpfile(int64(size))
	if err != nil {
		return nil, fmt.Errorf("render: create shm tmpfile: %w", err)
	}
	defer file.Close()

	mem, err := syscall.Mmap(int(file.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("render: mmap shm buffer: %w", err)
	}

	shmPool := shm.CreatePool(int(file.Fd()), int32(size))
	pb := &poolBuffer{mem: mem}
	pb.buf = shmPool.CreateBuffer(0, int32(width), int32(height), int32(stride), wlproto.ShmFormatArgb8888, &wlproto.BufferHandlers{
		OnRelease: func() { pb.release() },
	})
	shmPool.Destroy()
	return pb, nil
}

func (pb *poolBuffer) release() {
	pb.busy = false
}

// Acquire returns the first free buffer, or ok=false if every buffer
// in the pool is still owned by the compositor — a render error per
// §4.4 responsibility 1 / failure handling.
func (p *BufferPool) Acquire() (*poolBuffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pb := range p.buffers {
		if !pb.busy {
			pb.busy = true
			return pb, true
		}
	}
	return nil, false
}

func (p *BufferPool) Width() int  { return p.width }
func (p *BufferPool) Height() int { return p.height }
func (p *BufferPool) Stride() int { return p.stride }

// Close destroys every buffer and unmaps its memory.
func (p *BufferPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pb := range p.buffers {
		syscall.Munmap(pb.mem)
		pb.buf.Destroy()
	}
	p.buffers = nil
}

// createTmpfile follows friedelschoen-ctxmenu's wayland.go exactly: an
// anonymous-by-unlink tmpfile under $XDG_RUNTIME_DIR, sized up front.
func createTmpfile(size int64) (*os.File, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, fmt.Errorf("render: XDG_RUNTIME_DIR is not set")
	}
	file, err := os.CreateTemp(dir, "wayscriber_shm_*")
	if err != nil {
		return nil, err
	}
	if err := file.Truncate(size); err != nil {
		return nil, err
	}
	if err := os.Remove(file.Name()); err != nil {
		return nil, err
	}
	return file, nil
}
