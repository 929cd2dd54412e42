package render

import (
	"regexp"

	"github.com/wayscriber/wayscriber/internal/wlproto"
)

var identityScrub = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeOutputIdentity replaces every non-alphanumeric rune with '_',
// per §4.4's "derive a stable identity string... sanitized" rule.
func SanitizeOutputIdentity(s string) string {
	return identityScrub.ReplaceAllString(s, "_")
}

// SurfaceManager owns the single fullscreen layer surface and its
// configure handshake. Grounded on friedelschoen-ctxmenu's
// WaylandWindow/layerSurface OnConfigure/AckConfigure handler, adapted
// to track output identity (§4.4) rather than ignore it.
type SurfaceManager struct {
	globals *wlproto.Globals

	surface      *wlproto.Surface
	layerSurface *wlproto.LayerSurface

	Configured bool
	Width      int
	Height     int

	OutputIdentity string
	outputNames    map[uint32]string

	closed bool

	OnConfigureDone func()

	// OnOutputIdentityChanged, if set, is called whenever surface_enter
	// resolves an identity different from the one last recorded — a
	// first resolution, or an output added/changed mid-run. Per §4.4,
	// the caller is expected to request a session snapshot reload for
	// the new identity and mark the surface dirty.
	OnOutputIdentityChanged func(identity string)
}

// NewSurfaceManager creates the wl_surface and zwlr_layer_surface_v1,
// anchored to all four edges with exclusive_zone=-1 and exclusive
// keyboard interactivity, per §4.4 responsibility 1.
func NewSurfaceManager(g *wlproto.Globals, namespace string) *SurfaceManager {
	sm := &SurfaceManager{globals: g, outputNames: make(map[uint32]string)}

	sm.surface = g.Compositor.CreateSurface(&wlproto.SurfaceHandlers{
		OnEnter: sm.handleEnter,
	})

	sm.layerSurface = g.LayerShell.GetLayerSurface(sm.surface, nil, wlproto.LayerShellLayerOverlay, namespace, &wlproto.LayerSurfaceHandlers{
		OnConfigure: sm.handleConfigure,
		OnClosed:    func() { sm.closed = true },
	})

	sm.layerSurface.SetAnchor(
		wlproto.LayerSurfaceAnchorTop | wlproto.LayerSurfaceAnchorBottom |
			wlproto.LayerSurfaceAnchorLeft | wlproto.LayerSurfaceAnchorRight,
	)
	sm.layerSurface.SetExclusiveZone(-1)
	sm.layerSurface.SetKeyboardInteractivity(wlproto.KeyboardInteractivityExclusive)
	sm.surface.Commit()

	return sm
}

func (sm *SurfaceManager) handleConfigure(serial uint32, width, height uint32) {
	sm.layerSurface.AckConfigure(serial)
	if width > 0 && height > 0 {
		sm.Width = int(width)
		sm.Height = int(height)
	}
	sm.Configured = true
	if sm.OnConfigureDone != nil {
		sm.OnConfigureDone()
	}
}

func (sm *SurfaceManager) handleEnter(outputID uint32) {
	name, ok := sm.outputNames[outputID]
	if !ok {
		name = "unknown"
	}
	identity := SanitizeOutputIdentity(name)
	changed := identity != sm.OutputIdentity
	sm.OutputIdentity = identity
	if changed && sm.OnOutputIdentityChanged != nil {
		sm.OnOutputIdentityChanged(identity)
	}
}

// TrackOutputName records the wl_output.name string for outputID so a
// later surface_enter on that output can resolve an identity. Call
// once per discovered Output with its OnName handler.
func (sm *SurfaceManager) TrackOutputName(outputID uint32, name string) {
	sm.outputNames[outputID] = name
}

// Closed reports whether the compositor sent the closed event.
func (sm *SurfaceManager) Closed() bool { return sm.closed }

// Hide resizes the layer surface to 0x0 and commits, per §4.6 step 1:
// the overlay must be unmapped before a capture acquires the screen so
// it never appears in its own screenshot.
func (sm *SurfaceManager) Hide() {
	sm.layerSurface.SetSize(0, 0)
	sm.surface.Commit()
}

// Show restores the layer surface to its last configured size and
// commits, per §4.6 step 4.
func (sm *SurfaceManager) Show() {
	sm.layerSurface.SetSize(uint32(sm.Width), uint32(sm.Height))
	sm.surface.Commit()
}

// Surface returns the underlying wl_surface for attach/damage/commit.
func (sm *SurfaceManager) Surface() *wlproto.Surface { return sm.surface }

// Destroy tears down the layer surface and surface objects.
func (sm *SurfaceManager) Destroy() {
	sm.layerSurface.Destroy()
	sm.surface.Destroy()
}
