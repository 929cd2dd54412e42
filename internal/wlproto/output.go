package wlproto

const (
	evOutputGeometry = 0
	evOutputMode     = 1
	evOutputDone     = 2
	evOutputScale    = 3
	evOutputName     = 4
	evOutputDescription = 5
)

// OutputHandlers receives the per-monitor geometry/mode/name events
// used to build the per-output identity §4.3 requires for session
// persistence and surface placement.
type OutputHandlers struct {
	OnGeometry func(x, y int32, physWidth, physHeight int32, make_, model string)
	OnMode     func(flags uint32, width, height int32, refresh int32)
	OnDone     func()
	OnScale    func(factor int32)
	OnName     func(name string)
	OnDescription func(description string)
}

// Output is wl_output.
type Output struct {
	conn     *Conn
	id       uint32
	handlers *OutputHandlers
}

func (o *Output) ID() uint32 { return o.id }

// SetHandlers attaches h after construction, for callers that bind
// outputs generically during registry enumeration (before the
// identity-tracking callbacks exist) and wire them up once the round
// trip finishes.
func (o *Output) SetHandlers(h *OutputHandlers) { o.handlers = h }

// BindOutput binds one wl_output global; the registry announces one
// per connected monitor.
func BindOutput(reg *Registry, name uint32, version uint32, h *OutputHandlers) *Output {
	o := &Output{conn: reg.conn, handlers: h}
	o.id = reg.Bind(name, "wl_output", version, o)
	return o
}

func (o *Output) dispatch(opcode uint16, dec *decoder) error {
	if o.handlers == nil {
		return nil
	}
	switch opcode {
	case evOutputGeometry:
		x, err := dec.int32()
		if err != nil {
			return err
		}
		y, err := dec.int32()
		if err != nil {
			return err
		}
		pw, err := dec.int32()
		if err != nil {
			return err
		}
		ph, err := dec.int32()
		if err != nil {
			return err
		}
		if _, err := dec.int32(); err != nil { // subpixel
			return err
		}
		make_, err := dec.string()
		if err != nil {
			return err
		}
		model, err := dec.string()
		if err != nil {
			return err
		}
		if _, err := dec.int32(); err != nil { // transform
			return err
		}
		if o.handlers.OnGeometry != nil {
			o.handlers.OnGeometry(x, y, pw, ph, make_, model)
		}
	case evOutputMode:
		flags, err := dec.uint32()
		if err != nil {
			return err
		}
		w, err := dec.int32()
		if err != nil {
			return err
		}
		h, err := dec.int32()
		if err != nil {
			return err
		}
		refresh, err := dec.int32()
		if err != nil {
			return err
		}
		if o.handlers.OnMode != nil {
			o.handlers.OnMode(flags, w, h, refresh)
		}
	case evOutputDone:
		if o.handlers.OnDone != nil {
			o.handlers.OnDone()
		}
	case evOutputScale:
		factor, err := dec.int32()
		if err != nil {
			return err
		}
		if o.handlers.OnScale != nil {
			o.handlers.OnScale(factor)
		}
	case evOutputName:
		name, err := dec.string()
		if err != nil {
			return err
		}
		if o.handlers.OnName != nil {
			o.handlers.OnName(name)
		}
	case evOutputDescription:
		desc, err := dec.string()
		if err != nil {
			return err
		}
		if o.handlers.OnDescription != nil {
			o.handlers.OnDescription(desc)
		}
	}
	return nil
}
