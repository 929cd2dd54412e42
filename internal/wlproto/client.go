package wlproto

import "fmt"

// Globals collects every protocol object the overlay needs once the
// initial registry enumeration round-trip completes. Grounded on
// friedelschoen-ctxmenu's WaylandGlobals (wayland.go): one struct
// holding compositor/shm/seat/layer_shell plus the discovered
// outputs, built via a Registrar-style OnGlobal callback and an
// explicit Sync-based round trip.
type Globals struct {
	Conn *Conn

	Display    *Display
	Registry   *Registry
	Compositor *Compositor
	Shm        *Shm
	Seat       *Seat
	LayerShell *LayerShell
	Outputs    []*Output

	onOutput func(*Output)
}

// Connect dials the compositor, binds every global this module
// consumes, and blocks until the initial registry round trip
// completes (so Globals is fully populated on return). onOutput, if
// non-nil, is called synchronously for each wl_output the moment it is
// bound, before any of its events are dispatched — the only point a
// caller can attach handlers in time to observe that output's initial
// geometry/name/done burst, which the round trip otherwise consumes
// before Connect returns control to the caller.
func Connect(displayName string, onOutput func(*Output)) (*Globals, error) {
	conn, err := dial(displayName)
	if err != nil {
		return nil, err
	}
	g := &Globals{Conn: conn, onOutput: onOutput}

	g.Display = NewDisplay(conn, &DisplayHandlers{
		OnError: func(objectID uint32, code uint32, message string) {
			panic(fmt.Sprintf("wlproto: fatal display error on object %d: [%d] %s", objectID, code, message))
		},
	})

	g.Registry = g.Display.GetRegistry(&RegistryHandlers{
		OnGlobal: g.handleGlobal,
	})

	g.roundTrip()

	if g.Compositor == nil || g.Shm == nil || g.LayerShell == nil {
		return nil, fmt.Errorf("wlproto: compositor does not advertise wl_compositor, wl_shm and zwlr_layer_shell_v1")
	}
	return g, nil
}

func (g *Globals) handleGlobal(name uint32, iface string, version uint32) {
	switch iface {
	case "wl_compositor":
		g.Compositor = BindCompositor(g.Registry, name, version)
	case "wl_shm":
		g.Shm = BindShm(g.Registry, name, version, nil)
	case "wl_seat":
		g.Seat = BindSeat(g.Registry, name, version, nil)
	case "zwlr_layer_shell_v1":
		g.LayerShell = BindLayerShell(g.Registry, name, version)
	case "wl_output":
		out := BindOutput(g.Registry, name, version, nil)
		g.Outputs = append(g.Outputs, out)
		if g.onOutput != nil {
			g.onOutput(out)
		}
	}
}

// roundTrip blocks until the compositor has processed every request
// sent so far, the idiom friedelschoen-ctxmenu's wayland.go calls
// "sync" / "displayRoundTrip".
func (g *Globals) roundTrip() {
	done := make(chan struct{})
	g.Display.Sync(&CallbackHandlers{
		OnDone: func(uint32) { close(done) },
	})
	for {
		select {
		case <-done:
			return
		default:
			if err := g.Conn.DispatchOne(); err != nil {
				return
			}
		}
	}
}

func (g *Globals) Close() error {
	return g.Conn.Close()
}
