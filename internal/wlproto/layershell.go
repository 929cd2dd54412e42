package wlproto

const (
	opLayerShellGetLayerSurface = 0
	opLayerShellDestroy          = 1
)

// LayerShellLayer mirrors zwlr_layer_shell_v1.layer. §4.2 pins the
// overlay to the overlay layer so it draws above normal windows.
type LayerShellLayer uint32

const (
	LayerShellLayerBackground LayerShellLayer = 0
	LayerShellLayerBottom     LayerShellLayer = 1
	LayerShellLayerTop        LayerShellLayer = 2
	LayerShellLayerOverlay    LayerShellLayer = 3
)

// LayerShell is zwlr_layer_shell_v1, the factory for layer surfaces.
type LayerShell struct {
	conn *Conn
	id   uint32
}

// BindLayerShell binds the zwlr_layer_shell_v1 global.
func BindLayerShell(reg *Registry, name uint32, version uint32) *LayerShell {
	l := &LayerShell{conn: reg.conn}
	l.id = reg.Bind(name, "zwlr_layer_shell_v1", version, l)
	return l
}

func (l *LayerShell) dispatch(uint16, *decoder) error { return nil }

// GetLayerSurface promotes surface to a layer surface on output (nil
// lets the compositor choose), tagged with namespace for compositor
// debugging tools.
func (l *LayerShell) GetLayerSurface(surface *Surface, output *Output, layer LayerShellLayer, namespace string, h *LayerSurfaceHandlers) *LayerSurface {
	ls := &LayerSurface{conn: l.conn, handlers: h}
	ls.id = l.conn.NewID(ls)

	e := &encoder{}
	e.putNewID(ls.id)
	e.putObject(surface.id)
	var outputID uint32
	if output != nil {
		outputID = output.id
	}
	e.putObject(outputID)
	e.putUint32(uint32(layer))
	e.putString(namespace)
	l.conn.send(l.id, opLayerShellGetLayerSurface, e)
	return ls
}

func (l *LayerShell) Destroy() {
	l.conn.send(l.id, opLayerShellDestroy, &encoder{})
	l.conn.Forget(l.id)
}

// LayerSurfaceAnchor mirrors zwlr_layer_surface_v1.anchor, a bitmask.
// §4.2 requires all four edges anchored so the overlay spans the
// whole output regardless of its reported size.
type LayerSurfaceAnchor uint32

const (
	LayerSurfaceAnchorTop    LayerSurfaceAnchor = 1
	LayerSurfaceAnchorBottom LayerSurfaceAnchor = 2
	LayerSurfaceAnchorLeft   LayerSurfaceAnchor = 4
	LayerSurfaceAnchorRight  LayerSurfaceAnchor = 8
)

// LayerSurfaceKeyboardInteractivity mirrors the
// keyboard_interactivity enum. §4.2 requires Exclusive so the
// drawing-mode session intercepts every key before any other client.
type LayerSurfaceKeyboardInteractivity uint32

const (
	KeyboardInteractivityNone     LayerSurfaceKeyboardInteractivity = 0
	KeyboardInteractivityExclusive LayerSurfaceKeyboardInteractivity = 1
	KeyboardInteractivityOnDemand LayerSurfaceKeyboardInteractivity = 2
)

const (
	opLayerSurfaceSetSize                = 0
	opLayerSurfaceSetAnchor              = 1
	opLayerSurfaceSetExclusiveZone       = 2
	opLayerSurfaceSetMargin              = 3
	opLayerSurfaceSetKeyboardInteractivity = 4
	opLayerSurfaceGetPopup               = 5
	opLayerSurfaceAckConfigure           = 6
	opLayerSurfaceDestroy                = 7
	opLayerSurfaceSetLayer               = 8
)

const (
	evLayerSurfaceConfigure = 0
	evLayerSurfaceClosed    = 1
)

// LayerSurfaceHandlers receives the configure/closed handshake
// friedelschoen-ctxmenu's wayland.go and wayland/window.go both ack
// immediately with AckConfigure before attaching a buffer.
type LayerSurfaceHandlers struct {
	OnConfigure func(serial uint32, width, height uint32)
	OnClosed    func()
}

// LayerSurface is zwlr_layer_surface_v1.
type LayerSurface struct {
	conn     *Conn
	id       uint32
	handlers *LayerSurfaceHandlers
}

func (ls *LayerSurface) SetSize(width, height uint32) {
	e := &encoder{}
	e.putUint32(width)
	e.putUint32(height)
	ls.conn.send(ls.id, opLayerSurfaceSetSize, e)
}

func (ls *LayerSurface) SetAnchor(anchor LayerSurfaceAnchor) {
	e := &encoder{}
	e.putUint32(uint32(anchor))
	ls.conn.send(ls.id, opLayerSurfaceSetAnchor, e)
}

// SetExclusiveZone reserves (positive) or excludes from (-1) the
// region other surfaces lay out around. §4.2 requires -1: the overlay
// must not push other windows aside.
func (ls *LayerSurface) SetExclusiveZone(zone int32) {
	e := &encoder{}
	e.putInt32(zone)
	ls.conn.send(ls.id, opLayerSurfaceSetExclusiveZone, e)
}

func (ls *LayerSurface) SetMargin(top, right, bottom, left int32) {
	e := &encoder{}
	e.putInt32(top)
	e.putInt32(right)
	e.putInt32(bottom)
	e.putInt32(left)
	ls.conn.send(ls.id, opLayerSurfaceSetMargin, e)
}

func (ls *LayerSurface) SetKeyboardInteractivity(v LayerSurfaceKeyboardInteractivity) {
	e := &encoder{}
	e.putUint32(uint32(v))
	ls.conn.send(ls.id, opLayerSurfaceSetKeyboardInteractivity, e)
}

func (ls *LayerSurface) SetLayer(layer LayerShellLayer) {
	e := &encoder{}
	e.putUint32(uint32(layer))
	ls.conn.send(ls.id, opLayerSurfaceSetLayer, e)
}

// AckConfigure must be sent in response to every OnConfigure before
// the next Surface.Commit, per the protocol's required handshake.
func (ls *LayerSurface) AckConfigure(serial uint32) {
	e := &encoder{}
	e.putUint32(serial)
	ls.conn.send(ls.id, opLayerSurfaceAckConfigure, e)
}

func (ls *LayerSurface) Destroy() {
	ls.conn.send(ls.id, opLayerSurfaceDestroy, &encoder{})
	ls.conn.Forget(ls.id)
}

func (ls *LayerSurface) dispatch(opcode uint16, dec *decoder) error {
	switch opcode {
	case evLayerSurfaceConfigure:
		serial, err := dec.uint32()
		if err != nil {
			return err
		}
		width, err := dec.uint32()
		if err != nil {
			return err
		}
		height, err := dec.uint32()
		if err != nil {
			return err
		}
		if ls.handlers != nil && ls.handlers.OnConfigure != nil {
			ls.handlers.OnConfigure(serial, width, height)
		}
	case evLayerSurfaceClosed:
		if ls.handlers != nil && ls.handlers.OnClosed != nil {
			ls.handlers.OnClosed()
		}
	}
	return nil
}
