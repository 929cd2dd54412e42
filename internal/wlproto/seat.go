package wlproto

const (
	opSeatGetPointer  = 0
	opSeatGetKeyboard = 1
	opSeatRelease      = 3
)

const (
	evSeatCapabilities = 0
	evSeatName         = 1
)

// SeatCapability mirrors wl_seat.capability.
type SeatCapability uint32

const (
	SeatCapabilityPointer  SeatCapability = 1
	SeatCapabilityKeyboard SeatCapability = 2
	SeatCapabilityTouch    SeatCapability = 4
)

// SeatHandlers receives capability changes, the trigger for
// attaching/releasing pointer and keyboard objects (the pattern in
// friedelschoen-ctxmenu/wayland/window.go's HandleSeatCapabilities).
type SeatHandlers struct {
	OnCapabilities func(caps SeatCapability)
	OnName         func(name string)
}

// Seat is wl_seat.
type Seat struct {
	conn     *Conn
	id       uint32
	handlers *SeatHandlers
}

// BindSeat binds the wl_seat global.
func BindSeat(reg *Registry, name uint32, version uint32, h *SeatHandlers) *Seat {
	s := &Seat{conn: reg.conn, handlers: h}
	s.id = reg.Bind(name, "wl_seat", version, s)
	return s
}

// SetHandlers attaches h after construction; see Output.SetHandlers.
func (s *Seat) SetHandlers(h *SeatHandlers) { s.handlers = h }

func (s *Seat) GetPointer(h *PointerHandlers) *Pointer {
	p := &Pointer{conn: s.conn, handlers: h}
	p.id = s.conn.NewID(p)
	e := &encoder{}
	e.putNewID(p.id)
	s.conn.send(s.id, opSeatGetPointer, e)
	return p
}

func (s *Seat) GetKeyboard(h *KeyboardHandlers) *Keyboard {
	k := &Keyboard{conn: s.conn, handlers: h}
	k.id = s.conn.NewID(k)
	e := &encoder{}
	e.putNewID(k.id)
	s.conn.send(s.id, opSeatGetKeyboard, e)
	return k
}

func (s *Seat) Release() {
	s.conn.send(s.id, opSeatRelease, &encoder{})
	s.conn.Forget(s.id)
}

func (s *Seat) dispatch(opcode uint16, dec *decoder) error {
	if s.handlers == nil {
		return nil
	}
	switch opcode {
	case evSeatCapabilities:
		v, err := dec.uint32()
		if err != nil {
			return err
		}
		if s.handlers.OnCapabilities != nil {
			s.handlers.OnCapabilities(SeatCapability(v))
		}
	case evSeatName:
		name, err := dec.string()
		if err != nil {
			return err
		}
		if s.handlers.OnName != nil {
			s.handlers.OnName(name)
		}
	}
	return nil
}

// --- wl_pointer ---

const opPointerRelease = 3

const (
	evPointerEnter  = 0
	evPointerLeave  = 1
	evPointerMotion = 2
	evPointerButton = 3
	evPointerAxis   = 4
	evPointerFrame  = 5
)

// PointerButtonState mirrors wl_pointer.button_state.
type PointerButtonState uint32

const (
	PointerButtonReleased PointerButtonState = 0
	PointerButtonPressed  PointerButtonState = 1
)

// PointerHandlers covers the motion/button/axis/frame events the
// drawing state machine consumes; enter/leave only carry the surface
// reference, which the overlay does not need since it has exactly one
// surface per output.
type PointerHandlers struct {
	OnEnter  func(serial uint32, surfaceID uint32, x, y float64)
	OnLeave  func(serial uint32, surfaceID uint32)
	OnMotion func(timeMs uint32, x, y float64)
	OnButton func(serial uint32, timeMs uint32, button uint32, state PointerButtonState)
	OnAxis   func(timeMs uint32, axis uint32, value float64)
	OnFrame  func()
}

// Pointer is wl_pointer.
type Pointer struct {
	conn     *Conn
	id       uint32
	handlers *PointerHandlers
}

func (p *Pointer) Release() {
	p.conn.send(p.id, opPointerRelease, &encoder{})
	p.conn.Forget(p.id)
}

func (p *Pointer) dispatch(opcode uint16, dec *decoder) error {
	if p.handlers == nil {
		return nil
	}
	switch opcode {
	case evPointerEnter:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		surf, err := dec.object()
		if err != nil {
			return err
		}
		x, err := dec.fixed()
		if err != nil {
			return err
		}
		y, err := dec.fixed()
		if err != nil {
			return err
		}
		if p.handlers.OnEnter != nil {
			p.handlers.OnEnter(serial, surf, x, y)
		}
	case evPointerLeave:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		surf, err := dec.object()
		if err != nil {
			return err
		}
		if p.handlers.OnLeave != nil {
			p.handlers.OnLeave(serial, surf)
		}
	case evPointerMotion:
		t, err := dec.uint32()
		if err != nil {
			return err
		}
		x, err := dec.fixed()
		if err != nil {
			return err
		}
		y, err := dec.fixed()
		if err != nil {
			return err
		}
		if p.handlers.OnMotion != nil {
			p.handlers.OnMotion(t, x, y)
		}
	case evPointerButton:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		t, err := dec.uint32()
		if err != nil {
			return err
		}
		button, err := dec.uint32()
		if err != nil {
			return err
		}
		state, err := dec.uint32()
		if err != nil {
			return err
		}
		if p.handlers.OnButton != nil {
			p.handlers.OnButton(serial, t, button, PointerButtonState(state))
		}
	case evPointerAxis:
		t, err := dec.uint32()
		if err != nil {
			return err
		}
		axis, err := dec.uint32()
		if err != nil {
			return err
		}
		value, err := dec.fixed()
		if err != nil {
			return err
		}
		if p.handlers.OnAxis != nil {
			p.handlers.OnAxis(t, axis, value)
		}
	case evPointerFrame:
		if p.handlers.OnFrame != nil {
			p.handlers.OnFrame()
		}
	}
	return nil
}

// --- wl_keyboard ---

const opKeyboardRelease = 3

const (
	evKeyboardKeymap    = 0
	evKeyboardEnter     = 1
	evKeyboardLeave     = 2
	evKeyboardKey       = 3
	evKeyboardModifiers = 4
)

// KeyState mirrors wl_keyboard.key_state.
type KeyState uint32

const (
	KeyReleased KeyState = 0
	KeyPressed  KeyState = 1
)

// KeyboardHandlers covers keymap delivery (an fd to mmap and feed to
// an xkbcommon keymap compiler, out of scope for this package) and
// the key/modifiers events the drawing state machine dispatches on.
type KeyboardHandlers struct {
	OnKeymap    func(format uint32, fd int, size uint32)
	OnEnter     func(serial uint32, surfaceID uint32, keys []byte)
	OnLeave     func(serial uint32, surfaceID uint32)
	OnKey       func(serial uint32, timeMs uint32, key uint32, state KeyState)
	OnModifiers func(serial uint32, modsDepressed, modsLatched, modsLocked, group uint32)
}

// Keyboard is wl_keyboard.
type Keyboard struct {
	conn     *Conn
	id       uint32
	handlers *KeyboardHandlers
}

func (k *Keyboard) Release() {
	k.conn.send(k.id, opKeyboardRelease, &encoder{})
	k.conn.Forget(k.id)
}

func (k *Keyboard) dispatch(opcode uint16, dec *decoder) error {
	if k.handlers == nil {
		return nil
	}
	switch opcode {
	case evKeyboardKeymap:
		format, err := dec.uint32()
		if err != nil {
			return err
		}
		fd, err := dec.fd()
		if err != nil {
			return err
		}
		size, err := dec.uint32()
		if err != nil {
			return err
		}
		if k.handlers.OnKeymap != nil {
			k.handlers.OnKeymap(format, fd, size)
		}
	case evKeyboardEnter:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		surf, err := dec.object()
		if err != nil {
			return err
		}
		keys, err := dec.array()
		if err != nil {
			return err
		}
		if k.handlers.OnEnter != nil {
			k.handlers.OnEnter(serial, surf, keys)
		}
	case evKeyboardLeave:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		surf, err := dec.object()
		if err != nil {
			return err
		}
		if k.handlers.OnLeave != nil {
			k.handlers.OnLeave(serial, surf)
		}
	case evKeyboardKey:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		t, err := dec.uint32()
		if err != nil {
			return err
		}
		key, err := dec.uint32()
		if err != nil {
			return err
		}
		state, err := dec.uint32()
		if err != nil {
			return err
		}
		if k.handlers.OnKey != nil {
			k.handlers.OnKey(serial, t, key, KeyState(state))
		}
	case evKeyboardModifiers:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		depressed, err := dec.uint32()
		if err != nil {
			return err
		}
		latched, err := dec.uint32()
		if err != nil {
			return err
		}
		locked, err := dec.uint32()
		if err != nil {
			return err
		}
		group, err := dec.uint32()
		if err != nil {
			return err
		}
		if k.handlers.OnModifiers != nil {
			k.handlers.OnModifiers(serial, depressed, latched, locked, group)
		}
	}
	return nil
}
