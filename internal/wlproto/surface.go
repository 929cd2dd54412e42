package wlproto

const (
	opSurfaceDestroy       = 0
	opSurfaceAttach        = 1
	opSurfaceDamage        = 2
	opSurfaceFrame         = 3
	opSurfaceSetOpaqueRegion = 4
	opSurfaceSetInputRegion  = 5
	opSurfaceCommit          = 6
	opSurfaceSetBufferScale  = 8
	opSurfaceDamageBuffer    = 9
)

const (
	evSurfaceEnter = 0
	evSurfaceLeave = 1
)

// SurfaceHandlers receives output-enter/leave notifications, used to
// recover which physical output a layer surface ended up on (§4.2 /
// §4.3's per-output identity requirement).
type SurfaceHandlers struct {
	OnEnter func(outputID uint32)
	OnLeave func(outputID uint32)
}

// Surface is wl_surface.
type Surface struct {
	conn     *Conn
	id       uint32
	handlers *SurfaceHandlers
}

func (s *Surface) ID() uint32 { return s.id }

// Attach associates buf with the surface at offset (x, y). Per the
// protocol, offset must be (0,0) for surfaces using buffer_scale or
// damage_buffer — the render loop never uses a nonzero offset.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	e := &encoder{}
	var bufID uint32
	if buf != nil {
		bufID = buf.id
	}
	e.putObject(bufID)
	e.putInt32(x)
	e.putInt32(y)
	s.conn.send(s.id, opSurfaceAttach, e)
}

// Damage marks a surface-local rectangle dirty, using the legacy
// (pre-buffer-scale) request. The render loop currently always damages
// the whole surface per the documented Open Question resolution.
func (s *Surface) Damage(x, y, w, h int32) {
	e := &encoder{}
	e.putInt32(x)
	e.putInt32(y)
	e.putInt32(w)
	e.putInt32(h)
	s.conn.send(s.id, opSurfaceDamage, e)
}

// Frame requests a one-shot callback fired just before the next
// output refresh the surface's content would be shown on, the
// standard vsync-pacing primitive.
func (s *Surface) Frame(h *CallbackHandlers) *Callback {
	cb := &Callback{conn: s.conn, handlers: h}
	cb.id = s.conn.NewID(cb)
	e := &encoder{}
	e.putNewID(cb.id)
	s.conn.send(s.id, opSurfaceFrame, e)
	return cb
}

// SetBufferScale declares the buffer's pixel density relative to
// surface-local coordinates; the overlay always runs at scale 1 since
// it paints directly at output pixel resolution.
func (s *Surface) SetBufferScale(scale int32) {
	e := &encoder{}
	e.putInt32(scale)
	s.conn.send(s.id, opSurfaceSetBufferScale, e)
}

// Commit atomically applies all pending surface state.
func (s *Surface) Commit() {
	s.conn.send(s.id, opSurfaceCommit, &encoder{})
}

// Destroy releases the surface object.
func (s *Surface) Destroy() {
	s.conn.send(s.id, opSurfaceDestroy, &encoder{})
	s.conn.Forget(s.id)
}

func (s *Surface) dispatch(opcode uint16, dec *decoder) error {
	if s.handlers == nil {
		return nil
	}
	switch opcode {
	case evSurfaceEnter:
		id, err := dec.object()
		if err != nil {
			return err
		}
		if s.handlers.OnEnter != nil {
			s.handlers.OnEnter(id)
		}
	case evSurfaceLeave:
		id, err := dec.object()
		if err != nil {
			return err
		}
		if s.handlers.OnLeave != nil {
			s.handlers.OnLeave(id)
		}
	}
	return nil
}
