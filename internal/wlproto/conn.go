package wlproto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"golang.org/x/sys/unix"
)

const headerSize = 8

// Dispatcher handles one decoded event addressed to its object.
type Dispatcher interface {
	dispatch(opcode uint16, d *decoder) error
}

// Conn is a Wayland client connection: one Unix domain socket, an
// object ID allocator and a table of live objects awaiting events.
// Grounded on the wayland.Conn usage pattern in
// friedelschoen-ctxmenu's wayland.go (Register/Registrar/Close) but
// implemented against net.UnixConn directly rather than linked cgo.
type Conn struct {
	sock   *net.UnixConn
	logger zerolog.Logger

	mu      sync.Mutex
	nextID  uint32
	objects map[uint32]Dispatcher

	writeMu sync.Mutex
}

// dial opens the compositor's Unix socket. displayName follows the
// same resolution rule libwayland uses: $WAYLAND_DISPLAY (absolute or
// relative to $XDG_RUNTIME_DIR), falling back to "wayland-0".
func dial(displayName string) (*Conn, error) {
	if displayName == "" {
		displayName = os.Getenv("WAYLAND_DISPLAY")
	}
	if displayName == "" {
		displayName = "wayland-0"
	}
	path := displayName
	if !filepath.IsAbs(path) {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			return nil, fmt.Errorf("wlproto: XDG_RUNTIME_DIR not set")
		}
		path = filepath.Join(runtimeDir, displayName)
	}
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, fmt.Errorf("wlproto: resolve %s: %w", path, err)
	}
	sock, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("wlproto: dial %s: %w", path, err)
	}
	c := &Conn{
		sock:    sock,
		logger:  log.With().Str("component", "wlproto").Logger(),
		nextID:  2, // id 1 is wl_display
		objects: make(map[uint32]Dispatcher),
	}
	return c, nil
}

// Register binds id 1 (the wl_display singleton) to d.
func (c *Conn) Register(id uint32, d Dispatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[id] = d
}

// NewID allocates a fresh client-side object ID and registers d under
// it, returning the ID to embed in the outgoing request.
func (c *Conn) NewID(d Dispatcher) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.objects[id] = d
	return id
}

// Forget removes an object from the dispatch table once destroyed.
func (c *Conn) Forget(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, id)
}

// send writes one request's header and argument payload, passing any
// fds out-of-band via SCM_RIGHTS.
func (c *Conn) send(objectID uint32, opcode uint16, e *encoder) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var header bytes.Buffer
	size := uint16(headerSize + len(e.buf))
	binary.Write(&header, binary.LittleEndian, objectID)
	binary.Write(&header, binary.LittleEndian, uint32(opcode)|uint32(size)<<16)

	full := append(header.Bytes(), e.buf...)

	if len(e.fds) == 0 {
		_, err := c.sock.Write(full)
		return err
	}
	rights := unix.UnixRights(e.fds...)
	raw, err := c.sock.SyscallConn()
	if err != nil {
		return fmt.Errorf("wlproto: syscall conn: %w", err)
	}
	var sendErr error
	ctlErr := raw.Control(func(fd uintptr) {
		sendErr = unix.Sendmsg(int(fd), full, rights, nil, 0)
	})
	if ctlErr != nil {
		return ctlErr
	}
	return sendErr
}

// DispatchOne reads and dispatches exactly one incoming message,
// blocking until the socket has data.
func (c *Conn) DispatchOne() error {
	header := make([]byte, headerSize)
	oob := make([]byte, unix.CmsgSpace(16*4))

	raw, err := c.sock.SyscallConn()
	if err != nil {
		return err
	}

	var n, oobn int
	var readErr error
	ctlErr := raw.Read(func(fd uintptr) bool {
		n, oobn, _, _, readErr = unix.Recvmsg(int(fd), header, oob, 0)
		return readErr != unix.EAGAIN
	})
	if ctlErr != nil {
		return ctlErr
	}
	if readErr != nil {
		return fmt.Errorf("wlproto: recvmsg header: %w", readErr)
	}
	if n < headerSize {
		return fmt.Errorf("wlproto: short header read (%d bytes)", n)
	}

	objectID := binary.LittleEndian.Uint32(header[0:4])
	sizeAndOp := binary.LittleEndian.Uint32(header[4:8])
	opcode := uint16(sizeAndOp & 0xffff)
	size := uint16(sizeAndOp >> 16)

	fds := parseFds(oob[:oobn])

	payload := make([]byte, int(size)-headerSize)
	if len(payload) > 0 {
		if _, err := readFull(c.sock, payload); err != nil {
			return fmt.Errorf("wlproto: read payload: %w", err)
		}
	}

	c.mu.Lock()
	obj := c.objects[objectID]
	c.mu.Unlock()
	if obj == nil {
		c.logger.Warn().Uint32("object_id", objectID).Uint16("opcode", opcode).Msg("event for unknown object")
		return nil
	}
	return obj.dispatch(opcode, newDecoder(payload, fds))
}

// DispatchOneTimeout is DispatchOne bounded by a read deadline, letting
// the render loop alternate between blocking dispatch and a periodic
// redraw check per §4.4 responsibility 3. A timeout is reported as a
// nil error (no event arrived, nothing went wrong).
func (c *Conn) DispatchOneTimeout(timeout time.Duration) error {
	if err := c.sock.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	defer c.sock.SetReadDeadline(time.Time{})

	err := c.DispatchOne()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return nil
	}
	return err
}

// RunUntil dispatches events in a loop until done is closed, logging
// and continuing past individual dispatch errors so one malformed
// event never tears down the whole connection.
func (c *Conn) RunUntil(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if err := c.DispatchOne(); err != nil {
			c.logger.Error().Err(err).Msg("dispatch error")
		}
	}
}

func (c *Conn) Close() error {
	return c.sock.Close()
}

func readFull(conn *net.UnixConn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func parseFds(oob []byte) []int {
	if len(oob) == 0 {
		return nil
	}
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil
	}
	var fds []int
	for _, scm := range scms {
		got, err := unix.ParseUnixRights(&scm)
		if err == nil {
			fds = append(fds, got...)
		}
	}
	return fds
}
