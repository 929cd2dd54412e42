package drawstate

import (
	"strings"

	"github.com/fogleman/gg"

	"github.com/wayscriber/wayscriber/internal/capture"
	"github.com/wayscriber/wayscriber/internal/dirty"
	"github.com/wayscriber/wayscriber/internal/keymap"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

// MouseButton identifies the pointer button an event refers to.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ScrollAxis distinguishes vertical from horizontal scroll. Only
// vertical scroll is acted on; thickness and font size share that one
// wheel, so the caller reports the raw delta and HandleScroll applies
// the Shift-aware interpretation itself.
type ScrollAxis int

const (
	ScrollVertical ScrollAxis = iota
	ScrollHorizontal
)

// CaptureIntent is the abstract request the state machine raises; the
// render loop is the only consumer.
type CaptureIntent struct {
	Type        capture.Type
	Destination capture.Destination
	FileSave    *capture.FileSaveConfig
}

// Machine is the drawing state machine: component C. It owns the
// current DrawingState, the canvas set it mutates, tool parameters, and
// a pending out-of-band capture intent the render loop drains.
type Machine struct {
	state     DrawingState
	modifiers ModifierSet
	override  *Tool

	canvas *shapes.CanvasSet
	dirty  *dirty.Tracker
	keys   *keymap.Table

	tools ToolState

	autoAdjustPen bool
	helpVisible   bool

	pendingCapture *CaptureIntent
	shouldExit     bool

	measureText func(shapes.Shape) (w, h float64)
}

// New constructs a machine. measureText is used for text bounding boxes
// and may be nil (falls back to zero-size text boxes, only relevant to
// dirty tracking, not rendering).
func New(canvas *shapes.CanvasSet, tracker *dirty.Tracker, keys *keymap.Table, autoAdjustPen bool, measureText func(shapes.Shape) (w, h float64)) *Machine {
	return &Machine{
		state:         Idle(),
		canvas:        canvas,
		dirty:         tracker,
		keys:          keys,
		tools:         DefaultToolState(),
		autoAdjustPen: autoAdjustPen,
		measureText:   measureText,
	}
}

// State returns the current drawing state (read-only).
func (m *Machine) State() DrawingState { return m.state }

// Canvas returns the canvas set the machine mutates, for the render
// loop's paint pass.
func (m *Machine) Canvas() *shapes.CanvasSet { return m.canvas }

// ToolState returns the current tool parameters (read-only).
func (m *Machine) ToolState() ToolState { return m.tools }

// SetToolState installs ts wholesale, used by session restore.
func (m *Machine) SetToolState(ts ToolState) {
	ts.Clamp()
	m.tools = ts
}

// ShouldExit reports whether the Exit action has fired.
func (m *Machine) ShouldExit() bool { return m.shouldExit }

// HelpVisible reports whether the help overlay should be drawn.
func (m *Machine) HelpVisible() bool { return m.helpVisible }

// StatusBarVisible reports whether the status bar should be drawn.
func (m *Machine) StatusBarVisible() bool { return m.tools.StatusBarVisible }

// SetModifiers updates the currently held modifier keys; called whenever
// the compositor reports a modifier change.
func (m *Machine) SetModifiers(mods ModifierSet) { m.modifiers = mods }

// TakePendingCapture returns and clears the pending capture intent, or
// nil if none is pending. This is the drain point the render loop calls
// once per iteration.
func (m *Machine) TakePendingCapture() *CaptureIntent {
	c := m.pendingCapture
	m.pendingCapture = nil
	return c
}

func canonicalKey(k string) string { return strings.ToLower(k) }

// HandleKeyPress resolves key against the action table (honoring the
// text-input interception rule) and applies the resulting action.
// Unbound keys are a no-op, never a panic or mutation.
func (m *Machine) HandleKeyPress(key string) {
	if m.state.Phase == PhaseTextInput {
		m.handleTextInputKey(key)
		return
	}
	if action, ok := m.keys.Lookup(key, m.modifiers.Ctrl, m.modifiers.Shift, m.modifiers.Alt); ok {
		m.dispatch(action)
	}
}

func (m *Machine) handleTextInputKey(key string) {
	lower := canonicalKey(key)
	special := keymap.SpecialTextKeys[lower]
	ctrlOrAlt := m.modifiers.Ctrl || m.modifiers.Alt

	if special || ctrlOrAlt {
		if action, ok := m.keys.Lookup(key, m.modifiers.Ctrl, m.modifiers.Shift, m.modifiers.Alt); ok {
			m.dispatch(action)
			return
		}
	}
	if ctrlOrAlt {
		return
	}
	switch lower {
	case "escape":
		m.cancelText()
	case "return":
		if m.modifiers.Shift {
			m.appendTextRune('\n')
		} else {
			m.finalizeText()
		}
	case "backspace":
		m.popTextRune()
	case "space":
		m.appendTextRune(' ')
	case "f10", "f11", "f12":
		// unbound function keys are a no-op in text mode
	default:
		if len([]rune(key)) == 1 {
			m.appendTextRune([]rune(key)[0])
		}
	}
}

func (m *Machine) appendTextRune(r rune) {
	if len([]rune(m.state.Buffer)) >= textBufferCap {
		return
	}
	m.state.Buffer += string(r)
}

func (m *Machine) popTextRune() {
	rs := []rune(m.state.Buffer)
	if len(rs) == 0 {
		return
	}
	m.state.Buffer = string(rs[:len(rs)-1])
}

func (m *Machine) finalizeText() {
	if m.state.Buffer != "" {
		s := shapes.NewText(m.state.TextX, m.state.TextY, m.state.Buffer, m.tools.Color, m.tools.FontSize, m.tools.FontDescriptor, m.tools.BackgroundEnabled)
		m.canvas.ActiveMut().Append(s)
		if m.dirty != nil {
			m.dirty.MarkShape(s, m.measureText)
		}
	}
	m.state = Idle()
}

func (m *Machine) cancelText() {
	m.state = Idle()
}

// dispatch applies a resolved action. Capture actions stage a pending
// intent and clear modifiers instead of mutating drawing state
// directly, per §4.3's capture key handling rule.
func (m *Machine) dispatch(action keymap.Action) {
	if keymap.CaptureActions[action] {
		m.stageCaptureIntent(action)
		m.modifiers.Clear()
		return
	}
	switch action {
	case keymap.ActionExit:
		if m.state.Phase == PhaseTextInput {
			m.cancelText()
		} else {
			m.shouldExit = true
		}
	case keymap.ActionEnterTextMode:
		m.enterTextMode()
	case keymap.ActionClearCanvas:
		m.canvas.ActiveMut().Clear()
		m.markFull()
	case keymap.ActionUndo:
		if m.canvas.ActiveMut().Undo() {
			m.markFull()
		}
	case keymap.ActionIncreaseThickness:
		m.tools.Thickness = clampF(m.tools.Thickness+1, 1, 20)
	case keymap.ActionDecreaseThickness:
		m.tools.Thickness = clampF(m.tools.Thickness-1, 1, 20)
	case keymap.ActionIncreaseFontSize:
		m.tools.FontSize = clampF(m.tools.FontSize+2, 8, 72)
	case keymap.ActionDecreaseFontSize:
		m.tools.FontSize = clampF(m.tools.FontSize-2, 8, 72)
	case keymap.ActionToggleWhiteboard:
		m.switchBoardMode(shapes.Whiteboard)
	case keymap.ActionToggleBlackboard:
		m.switchBoardMode(shapes.Blackboard)
	case keymap.ActionToggleTransparent:
		m.switchBoardMode(shapes.Transparent)
	case keymap.ActionToggleHelp:
		m.helpVisible = !m.helpVisible
		m.markFull()
	case keymap.ActionToggleStatusBar:
		m.tools.StatusBarVisible = !m.tools.StatusBarVisible
		m.markFull()
	case keymap.ActionOpenConfigurator:
		// launching the configurator GUI is out of scope; the render loop
		// may observe this via a future hook. No state mutation here.
	}
}

func (m *Machine) enterTextMode() {
	m.state = DrawingState{Phase: PhaseTextInput, TextX: m.state.StartX, TextY: m.state.StartY}
}

func (m *Machine) markFull() {
	if m.dirty != nil {
		m.dirty.MarkFull()
	}
}

// switchBoardMode implements §4.3's toggle semantics and automatic pen
// contrast adjustment.
func (m *Machine) switchBoardMode(target shapes.BoardMode) {
	current := m.canvas.ActiveMode()
	next := target
	if current == target && target != shapes.Transparent {
		next = shapes.Transparent
	}

	if m.autoAdjustPen {
		switch {
		case next == shapes.Transparent:
			if m.tools.SavedColor != nil {
				m.tools.Color = *m.tools.SavedColor
				m.tools.SavedColor = nil
			}
		default:
			saved := m.tools.Color
			if current == shapes.Transparent {
				m.tools.SavedColor = &saved
			}
			if next == shapes.Whiteboard {
				m.tools.Color = shapes.Black
			} else {
				m.tools.Color = shapes.White
			}
		}
	}

	// Partially drawn shapes are dropped on a board switch.
	m.state = Idle()
	m.canvas.Switch(next)
	m.markFull()
}

func (m *Machine) stageCaptureIntent(action keymap.Action) {
	var typ capture.Type
	var dest capture.Destination
	switch action {
	case keymap.ActionCaptureFullClipboard:
		typ, dest = capture.TypeFullScreen, capture.DestinationClipboardOnly
	case keymap.ActionCaptureFullFile:
		typ, dest = capture.TypeFullScreen, capture.DestinationFileOnly
	case keymap.ActionCaptureFullBoth:
		typ, dest = capture.TypeFullScreen, capture.DestinationClipboardAndFile
	case keymap.ActionCaptureActiveWindowClipboard:
		typ, dest = capture.TypeActiveWindow, capture.DestinationClipboardOnly
	case keymap.ActionCaptureActiveWindowFile:
		typ, dest = capture.TypeActiveWindow, capture.DestinationFileOnly
	case keymap.ActionCaptureActiveWindowBoth:
		typ, dest = capture.TypeActiveWindow, capture.DestinationClipboardAndFile
	case keymap.ActionCaptureSelectionClipboard:
		typ, dest = capture.TypeSelection, capture.DestinationClipboardOnly
	case keymap.ActionCaptureSelectionFile:
		typ, dest = capture.TypeSelection, capture.DestinationFileOnly
	case keymap.ActionCaptureSelectionBoth:
		typ, dest = capture.TypeSelection, capture.DestinationClipboardAndFile
	default:
		return
	}
	m.pendingCapture = &CaptureIntent{Type: typ, Destination: dest}
}

// MousePress handles a pointer button press.
func (m *Machine) MousePress(button MouseButton, x, y float64) {
	if button == MouseRight {
		if m.state.Phase != PhaseIdle {
			m.state = Idle()
			m.markFull()
		}
		return
	}
	if button != MouseLeft {
		return
	}
	switch m.state.Phase {
	case PhaseIdle:
		tool := ResolveTool(m.modifiers, m.override)
		m.state = DrawingState{
			Phase:       PhaseDrawing,
			Tool:        tool,
			StartX:      x,
			StartY:      y,
			Accumulated: []shapes.Point{{X: int(x), Y: int(y)}},
		}
	case PhaseTextInput:
		m.state.TextX = x
		m.state.TextY = y
	}
}

// MouseMotion handles pointer movement.
func (m *Machine) MouseMotion(x, y float64) {
	if m.state.Phase != PhaseDrawing {
		return
	}
	if m.state.Tool == ToolPen {
		m.state.Accumulated = append(m.state.Accumulated, shapes.Point{X: int(x), Y: int(y)})
	}
}

// MouseRelease handles a pointer button release, finalizing a shape if
// one was being drawn.
func (m *Machine) MouseRelease(button MouseButton, x, y float64) {
	if button != MouseLeft || m.state.Phase != PhaseDrawing {
		return
	}
	s, ok := m.finalizeShape(x, y)
	m.state = Idle()
	if ok {
		m.canvas.ActiveMut().Append(s)
		if m.dirty != nil {
			m.dirty.MarkShape(s, m.measureText)
		}
	}
}

func (m *Machine) finalizeShape(x, y float64) (shapes.Shape, bool) {
	ds := m.state
	switch ds.Tool {
	case ToolPen:
		if len(ds.Accumulated) == 0 {
			return shapes.Shape{}, false
		}
		return shapes.NewFreehand(ds.Accumulated, m.tools.Color, m.tools.Thickness), true
	case ToolLine:
		return shapes.NewLine(ds.StartX, ds.StartY, x, y, m.tools.Color, m.tools.Thickness), true
	case ToolRect:
		return shapes.NewRect(ds.StartX, ds.StartY, x, y, m.tools.Color, m.tools.Thickness), true
	case ToolEllipse:
		s := shapes.NewEllipse(ds.StartX, ds.StartY, x, y, m.tools.Color, m.tools.Thickness)
		return s, s.IsRenderable()
	case ToolArrow:
		return shapes.NewArrow(x, y, ds.StartX, ds.StartY, m.tools.Color, m.tools.Thickness, m.tools.ArrowHeadLength, m.tools.ArrowHeadAngle), true
	default:
		return shapes.Shape{}, false
	}
}

// HandleScroll quantizes a raw wheel delta to {-1,0,+1} and applies it:
// unmodified adjusts thickness, Shift adjusts font size.
func (m *Machine) HandleScroll(axis ScrollAxis, delta float64) {
	if axis != ScrollVertical {
		return
	}
	step := quantize(delta)
	if step == 0 {
		return
	}
	if m.modifiers.Shift {
		m.tools.FontSize = clampF(m.tools.FontSize+float64(step)*2, 8, 72)
	} else {
		m.tools.Thickness = clampF(m.tools.Thickness+float64(step), 1, 20)
	}
}

func quantize(delta float64) int {
	switch {
	case delta > 0.1:
		return 1
	case delta < -0.1:
		return -1
	default:
		return 0
	}
}

// RenderProvisional paints the in-progress shape (or text caret) given
// the current cursor position directly into ctx, without cloning the
// accumulated point buffer. It reports whether anything was rendered.
func (m *Machine) RenderProvisional(ctx *gg.Context, cursorX, cursorY float64) bool {
	switch m.state.Phase {
	case PhaseDrawing:
		return m.renderProvisionalShape(ctx, cursorX, cursorY)
	case PhaseTextInput:
		m.renderCaret(ctx)
		return true
	default:
		return false
	}
}

func (m *Machine) renderProvisionalShape(ctx *gg.Context, cursorX, cursorY float64) bool {
	ds := m.state
	c := m.tools.Color
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.SetLineWidth(m.tools.Thickness)
	switch ds.Tool {
	case ToolPen:
		if len(ds.Accumulated) == 0 {
			return false
		}
		ctx.NewSubPath()
		for i, p := range ds.Accumulated {
			if i == 0 {
				ctx.MoveTo(float64(p.X), float64(p.Y))
			} else {
				ctx.LineTo(float64(p.X), float64(p.Y))
			}
		}
		ctx.LineTo(cursorX, cursorY)
		ctx.Stroke()
	case ToolLine:
		ctx.DrawLine(ds.StartX, ds.StartY, cursorX, cursorY)
		ctx.Stroke()
	case ToolRect:
		s := shapes.NewRect(ds.StartX, ds.StartY, cursorX, cursorY, c, m.tools.Thickness)
		ctx.DrawRectangle(s.X, s.Y, s.W, s.H)
		ctx.Stroke()
	case ToolEllipse:
		s := shapes.NewEllipse(ds.StartX, ds.StartY, cursorX, cursorY, c, m.tools.Thickness)
		if !s.IsRenderable() {
			return false
		}
		ctx.DrawEllipse(s.Cx, s.Cy, s.Rx, s.Ry)
		ctx.Stroke()
	case ToolArrow:
		s := shapes.NewArrow(cursorX, cursorY, ds.StartX, ds.StartY, c, m.tools.Thickness, m.tools.ArrowHeadLength, m.tools.ArrowHeadAngle)
		ctx.DrawLine(s.X2, s.Y2, s.X1, s.Y1)
		ctx.Stroke()
		a, b := s.ArrowHeadPoints()
		ctx.MoveTo(s.X1, s.Y1)
		ctx.LineTo(float64(a.X), float64(a.Y))
		ctx.MoveTo(s.X1, s.Y1)
		ctx.LineTo(float64(b.X), float64(b.Y))
		ctx.Stroke()
	default:
		return false
	}
	return true
}

// renderCaret draws buffer||'_' at the caret position. The caller is
// responsible for having set ctx's font face to the current tool state's
// font before invoking RenderProvisional.
func (m *Machine) renderCaret(ctx *gg.Context) {
	c := m.tools.Color
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.DrawString(m.state.Buffer+"_", m.state.TextX, m.state.TextY)
}
