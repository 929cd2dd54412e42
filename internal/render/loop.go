package render

import (
	"fmt"
	"image"
	"time"

	"github.com/daaku/swizzle"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/dirty"
	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/wlproto"
)

// maxConsecutiveFailures is §4.4's failure-handling limit: up to 10
// consecutive render failures are retried, the 11th is fatal.
const maxConsecutiveFailures = 10

// Cursor reports the current pointer position to the render pass
// (owned by whatever dispatches pointer-motion events into Machine).
type Cursor struct {
	X, Y float64
}

// Loop is component D: the single-threaded event loop alternating
// between blocking event dispatch and conditional redraw, grounded on
// friedelschoen-ctxmenu's WaylandWindow render/commit sequence and
// §4.4's pacing rule.
type Loop struct {
	globals *wlproto.Globals
	surface *SurfaceManager
	pool    *BufferPool
	painter *Painter
	machine *drawstate.Machine
	dirty   *dirty.Tracker
	coord   *capture.Coordinator

	vsyncEnabled bool
	bufferCount  int

	cursor Cursor

	needsRedraw          bool
	frameCallbackPending bool
	consecutiveFailures  int

	defaultFileSave *capture.FileSaveConfig

	// OnOutcome, if set, is called with every capture outcome drained
	// from the coordinator (e.g. to dispatch a desktop notification).
	OnOutcome func(capture.Outcome)

	// SessionReload, if set, is called on the event-loop thread whenever
	// the surface's output identity resolves to something new (first
	// resolution, or an output added/changed mid-run), so the caller can
	// load the matching per-output snapshot and apply it to the canvas.
	SessionReload func(identity string)

	logger zerolog.Logger
}

// NewLoop wires together a connected Globals, a configured
// SurfaceManager, a drawing Machine and dirty Tracker, and a capture
// Coordinator (may be nil if capture is disabled).
func NewLoop(g *wlproto.Globals, sm *SurfaceManager, painter *Painter, machine *drawstate.Machine, tracker *dirty.Tracker, coord *capture.Coordinator, bufferCount int, vsyncEnabled bool) *Loop {
	l := &Loop{
		globals:      g,
		surface:      sm,
		painter:      painter,
		machine:      machine,
		dirty:        tracker,
		coord:        coord,
		vsyncEnabled: vsyncEnabled,
		bufferCount:  bufferCount,
		needsRedraw:  true,
		logger:       log.With().Str("component", "render").Logger(),
	}
	sm.OnConfigureDone = l.handleConfigured
	sm.OnOutputIdentityChanged = l.handleOutputIdentityChanged
	return l
}

// SetDefaultFileSave supplies the file-save destination (directory,
// filename template, format) a capture.CaptureIntent never carries on
// its own, since drawstate only knows the action's clipboard/file/both
// variant, not where files are written.
func (l *Loop) SetDefaultFileSave(cfg capture.FileSaveConfig) {
	l.defaultFileSave = &cfg
}

// SetCursor updates the pointer position the provisional-shape and
// caret rendering use.
func (l *Loop) SetCursor(x, y float64) {
	l.cursor = Cursor{X: x, Y: y}
}

// MarkDirty requests a redraw on the next loop iteration, the external
// trigger pointer/keyboard handlers call after mutating Machine.
func (l *Loop) MarkDirty() {
	l.needsRedraw = true
}

func (l *Loop) handleOutputIdentityChanged(identity string) {
	if l.SessionReload != nil {
		l.SessionReload(identity)
	}
	l.needsRedraw = true
}

func (l *Loop) handleConfigured() {
	if l.pool != nil && l.pool.Width() == l.surface.Width && l.pool.Height() == l.surface.Height {
		return
	}
	if l.pool != nil {
		l.pool.Close()
		l.pool = nil
	}
	l.needsRedraw = true
}

// Run drives the loop until the machine signals exit, the layer
// surface is closed, or dispatch fails.
func (l *Loop) Run() error {
	for {
		if l.machine.ShouldExit() || l.surface.Closed() {
			return nil
		}

		l.drainCapture()

		if l.shouldRedraw() {
			if err := l.renderOnce(); err != nil {
				l.consecutiveFailures++
				l.logger.Error().Err(err).Int("consecutive_failures", l.consecutiveFailures).Msg("render failed")
				if l.consecutiveFailures > maxConsecutiveFailures {
					return fmt.Errorf("render: %d consecutive failures, giving up: %w", l.consecutiveFailures, err)
				}
				l.needsRedraw = false
			} else {
				l.consecutiveFailures = 0
			}
		}

		if err := l.dispatchWithTimeout(16 * time.Millisecond); err != nil {
			return fmt.Errorf("render: dispatch: %w", err)
		}
	}
}

func (l *Loop) shouldRedraw() bool {
	return l.surface.Configured && l.needsRedraw && (!l.frameCallbackPending || !l.vsyncEnabled)
}

func (l *Loop) dispatchWithTimeout(timeout time.Duration) error {
	return l.globals.Conn.DispatchOneTimeout(timeout)
}

// drainCapture polls the capture coordinator once per iteration,
// marking the surface dirty so a status-bar "capture saved" indicator
// (if any) repaints; the coordinator itself owns notification content.
//
// Hiding and restoring the layer surface happens here, on the
// event-loop thread, rather than inside the coordinator's worker
// goroutine: SurfaceManager.Hide/Show mutate sm.Width/sm.Height and
// issue SetSize+Commit on the same wl connection renderOnce's
// Attach/Damage/Commit sequence and handleConfigure use, so both must
// stay off the capture worker to avoid a cross-goroutine data race.
func (l *Loop) drainCapture() {
	if intent := l.machine.TakePendingCapture(); intent != nil && l.coord != nil {
		fileSave := intent.FileSave
		if fileSave == nil && intent.Destination.WantsFile() {
			fileSave = l.defaultFileSave
		}
		l.surface.Hide()
		l.coord.Submit(capture.Request{
			Type:        intent.Type,
			Destination: intent.Destination,
			FileSave:    fileSave,
		})
	}
	if l.coord != nil {
		if outcome, ok := l.coord.TryTakeOutcome(); ok {
			l.surface.Show()
			l.needsRedraw = true
			if l.OnOutcome != nil {
				l.OnOutcome(outcome)
			}
		}
	}
}

// renderOnce executes §4.4's render pass exactly once.
func (l *Loop) renderOnce() error {
	if l.pool == nil {
		width, height := l.surface.Width, l.surface.Height
		if width <= 0 || height <= 0 {
			return fmt.Errorf("render: surface has no configured size yet")
		}
		pool, err := NewBufferPool(l.globals.Shm, l.bufferCount, width, height)
		if err != nil {
			return err
		}
		l.pool = pool
	}

	pb, ok := l.pool.Acquire()
	if !ok {
		return fmt.Errorf("render: no free buffer in pool")
	}

	rgba := &image.RGBA{
		Pix:    pb.mem,
		Stride: l.pool.Stride(),
		Rect:   image.Rect(0, 0, l.pool.Width(), l.pool.Height()),
	}
	ctx := gg.NewContextForRGBA(rgba)

	l.painter.Paint(ctx, l.machine.Canvas(), l.machine, l.cursor.X, l.cursor.Y)

	swizzle.BGRA(pb.mem)

	surface := l.surface.Surface()
	surface.Attach(pb.buf, 0, 0)

	// Regions are tracked (bookkeeping, visible to future incremental
	// rendering) but always collapsed to full-surface damage for now,
	// per the documented Open Question resolution.
	l.dirty.TakeRegions(l.pool.Width(), l.pool.Height())
	surface.Damage(0, 0, int32(l.pool.Width()), int32(l.pool.Height()))

	if l.vsyncEnabled {
		surface.Frame(&wlproto.CallbackHandlers{
			OnDone: func(uint32) { l.frameCallbackPending = false },
		})
		l.frameCallbackPending = true
	}
	surface.Commit()

	l.needsRedraw = false
	return nil
}
