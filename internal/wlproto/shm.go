package wlproto

const (
	opShmCreatePool = 0
)

const evShmFormat = 0

// ShmFormat is the wl_shm.format enum. Only three 32-bit formats are
// named (the overlay's buffers use ARGB8888); the rest of the enum
// (per dominikh-go-libwayland's wayland.go) is intentionally not
// reproduced since nothing in this module selects among them.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
	ShmFormatAbgr8888 ShmFormat = 0x34324241 // wire value for "ABGR8888" per libwayland (fourcc "AB24"); kept distinct from ARGB
)

// ShmHandlers receives the list of pixel formats the compositor
// supports via wl_shm_pool buffers.
type ShmHandlers struct {
	OnFormat func(format ShmFormat)
}

// Shm is wl_shm.
type Shm struct {
	conn     *Conn
	id       uint32
	handlers *ShmHandlers
}

// BindShm binds the wl_shm global.
func BindShm(reg *Registry, name uint32, version uint32, h *ShmHandlers) *Shm {
	s := &Shm{conn: reg.conn, handlers: h}
	s.id = reg.Bind(name, "wl_shm", version, s)
	return s
}

func (s *Shm) dispatch(opcode uint16, dec *decoder) error {
	if opcode != evShmFormat || s.handlers == nil || s.handlers.OnFormat == nil {
		return nil
	}
	v, err := dec.uint32()
	if err != nil {
		return err
	}
	s.handlers.OnFormat(ShmFormat(v))
	return nil
}

// CreatePool wraps fd (already sized to size bytes) in a wl_shm_pool,
// passed to the compositor via SCM_RIGHTS per the tmpfile protocol
// friedelschoen-ctxmenu's createTmpfile/openFile establishes.
func (s *Shm) CreatePool(fd int, size int32) *ShmPool {
	p := &ShmPool{conn: s.conn}
	p.id = s.conn.NewID(p)
	e := &encoder{}
	e.putNewID(p.id)
	e.putFd(fd)
	e.putInt32(size)
	s.conn.send(s.id, opShmCreatePool, e)
	return p
}

const (
	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1
	opShmPoolResize       = 2
)

// ShmPool is wl_shm_pool: a shared-memory region buffers are
// sub-allocated from.
type ShmPool struct {
	conn *Conn
	id   uint32
}

// CreateBuffer describes one ARGB8888/ABGR8888 rectangle within the
// pool starting at byte offset.
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat, h *BufferHandlers) *Buffer {
	b := &Buffer{conn: p.conn, handlers: h}
	b.id = p.conn.NewID(b)
	e := &encoder{}
	e.putNewID(b.id)
	e.putInt32(offset)
	e.putInt32(width)
	e.putInt32(height)
	e.putInt32(stride)
	e.putUint32(uint32(format))
	p.conn.send(p.id, opShmPoolCreateBuffer, e)
	return b
}

// Resize grows the pool after the backing file has been truncated
// larger. The render loop does not call it; it replaces its buffers
// with new pools on a size change.
func (p *ShmPool) Resize(size int32) {
	e := &encoder{}
	e.putInt32(size)
	p.conn.send(p.id, opShmPoolResize, e)
}

func (p *ShmPool) Destroy() {
	p.conn.send(p.id, opShmPoolDestroy, &encoder{})
	p.conn.Forget(p.id)
}

func (p *ShmPool) dispatch(uint16, *decoder) error { return nil }

const (
	opBufferDestroy = 0
	evBufferRelease = 0
)

// BufferHandlers receives the release event telling the client the
// compositor is done reading this buffer's memory.
type BufferHandlers struct {
	OnRelease func()
}

// Buffer is wl_buffer.
type Buffer struct {
	conn     *Conn
	id       uint32
	handlers *BufferHandlers
}

func (b *Buffer) ID() uint32 { return b.id }

func (b *Buffer) Destroy() {
	b.conn.send(b.id, opBufferDestroy, &encoder{})
	b.conn.Forget(b.id)
}

func (b *Buffer) dispatch(opcode uint16, dec *decoder) error {
	if opcode == evBufferRelease && b.handlers != nil && b.handlers.OnRelease != nil {
		b.handlers.OnRelease()
	}
	return nil
}
