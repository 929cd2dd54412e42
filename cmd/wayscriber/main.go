// Command wayscriber is a Wayland wlr-layer-shell screen-annotation
// overlay. It draws into a single fullscreen layer surface, persists
// per-board/per-output state across restarts, and dispatches screen
// captures through compositor-specific fast-path tools or the
// xdg-desktop-portal.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/config"
	"github.com/wayscriber/wayscriber/internal/dirty"
	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/fontcache"
	"github.com/wayscriber/wayscriber/internal/render"
	"github.com/wayscriber/wayscriber/internal/session"
	"github.com/wayscriber/wayscriber/internal/shapes"
	"github.com/wayscriber/wayscriber/internal/wlproto"
)

// layerNamespace is the zwlr_layer_surface_v1 namespace string §6
// fixes for this overlay.
const layerNamespace = "wayscriber"

func main() {
	configPath := flag.String("config", "", "path to wayscriber.toml")
	clearFlag := flag.Bool("clear", false, "remove the persisted session for this display and exit")
	flag.Parse()

	setupLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	displayID := os.Getenv("WAYLAND_DISPLAY")
	if displayID == "" {
		log.Fatal().Msg("WAYLAND_DISPLAY is not set; wayscriber can only run under a Wayland session")
	}

	sessOpts := cfg.SessionOptions(displayID)
	store := session.New(sessOpts)

	if *clearFlag {
		if err := store.Clear(); err != nil {
			log.Fatal().Err(err).Msg("failed to clear session")
		}
		log.Info().Str("display", displayID).Msg("session cleared")
		return
	}

	outputNames := map[uint32]string{}
	globals, err := wlproto.Connect(displayID, func(out *wlproto.Output) {
		id := out.ID()
		out.SetHandlers(&wlproto.OutputHandlers{
			OnName: func(name string) { outputNames[id] = name },
		})
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the compositor")
	}
	defer globals.Close()

	surfaceMgr := render.NewSurfaceManager(globals, layerNamespace)
	for id, name := range outputNames {
		surfaceMgr.TrackOutputName(id, name)
	}

	canvas := shapes.NewCanvasSet(cfg.Session.MaxShapesPerFrame)
	tracker := dirty.New()
	fonts := fontcache.New()
	keys := cfg.Keymap()

	measureShapeText := func(s shapes.Shape) (w, h float64) {
		if s.Kind() != shapes.KindText {
			return 0, 0
		}
		return fonts.Measure(s.Font, s.Size, s.Text)
	}
	machine := drawstate.New(canvas, tracker, keys, cfg.Drawing.AutoAdjustPen, measureShapeText)

	if sessOpts.PerOutput {
		// The per-output identity only becomes known from the first
		// wl_surface.enter event, which arrives asynchronously after the
		// configure round trip; do a short bounded wait so the very first
		// launch on a per-output setup still restores the right file.
		waitForOutputIdentity(globals, surfaceMgr, 200*time.Millisecond)
		sessOpts.OutputIdentity = surfaceMgr.OutputIdentity
		store = session.New(sessOpts)
	}

	if snap, err := store.Load(); err == nil {
		session.Apply(snap, canvas, machine, sessOpts)
	} else if !errors.Is(err, session.ErrNoSnapshot) {
		log.Warn().Err(err).Msg("failed to load session")
	}

	deps := capture.ProbeDependencies()
	log.Info().
		Bool("hyprctl", deps.Hyprctl).Bool("slurp", deps.Slurp).
		Bool("grim", deps.Grim).Bool("wl_copy", deps.WlCopy).
		Msg("probed capture dependencies")

	portal := &capture.PortalSource{Interactive: true}
	source := &capture.FastPathSource{Deps: deps, Next: portal}
	clipboardWriter := &capture.WlCopyClipboard{Available: deps.WlCopy}

	coord := capture.NewCoordinator(source, clipboardWriter)
	defer coord.Close()

	painter := &render.Painter{
		Fonts:           fonts,
		StatusBarCorner: render.CornerBottomRight,
		HelpText:        helpText(),
	}

	loop := render.NewLoop(globals, surfaceMgr, painter, machine, tracker, coord, cfg.Render.BufferCount, cfg.Render.VsyncEnabled)
	loop.SetDefaultFileSave(capture.FileSaveConfig{
		Dir:      resolveFileDir(cfg.Capture.FileDir),
		Template: cfg.Capture.FileTemplate,
		Format:   cfg.Capture.FileFormat,
	})
	loop.OnOutcome = func(outcome capture.Outcome) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := capture.Notify(ctx, outcome); err != nil {
			log.Warn().Err(err).Msg("failed to dispatch capture notification")
		}
	}

	if sessOpts.PerOutput {
		// Fires whenever surface_enter resolves a new output identity
		// (including an output swapped in after startup), reloading the
		// matching per-output snapshot on the event-loop thread per §4.4.
		loop.SessionReload = func(identity string) {
			sessOpts.OutputIdentity = identity
			store = session.New(sessOpts)
			if snap, err := store.Load(); err == nil {
				session.Apply(snap, canvas, machine, sessOpts)
			} else if !errors.Is(err, session.ErrNoSnapshot) {
				log.Warn().Err(err).Msg("failed to reload session for output")
			}
		}
	}

	modifiers := newModifierTracker()
	wireSeat(globals, loop, machine, modifiers)

	runErr := loop.Run()

	snap := session.Capture(canvas, machine.ToolState(), sessOpts)
	if err := store.Save(snap, time.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to save session on shutdown")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("render loop terminated")
	}
}

func setupLogging() {
	levelStr := os.Getenv("WAYSCRIBER_LOG")
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if info, err := os.Stderr.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func resolveFileDir(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}

// waitForOutputIdentity gives the compositor a short window to deliver
// the wl_surface.enter + wl_output.name round trip so the very first
// per-output session load uses the correct identity rather than
// falling back to the unqualified stem.
func waitForOutputIdentity(g *wlproto.Globals, sm *render.SurfaceManager, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for sm.OutputIdentity == "" && time.Now().Before(deadline) {
		if err := g.Conn.DispatchOneTimeout(10 * time.Millisecond); err != nil {
			return
		}
	}
}

func helpText() []string {
	return []string{
		"escape: exit    t: text    c: clear    ctrl+z: undo",
		"=/-: thickness    shift+=/-: font size",
		"w: whiteboard    b: blackboard",
		"p/shift+p/ctrl+p: capture full (clipboard/file/both)",
		"f1: help    f2: status bar",
	}
}
