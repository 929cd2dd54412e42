package render

import (
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/fontcache"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

// StatusBarCorner selects which corner the status bar is anchored to.
type StatusBarCorner string

const (
	CornerTopLeft     StatusBarCorner = "top_left"
	CornerTopRight    StatusBarCorner = "top_right"
	CornerBottomLeft  StatusBarCorner = "bottom_left"
	CornerBottomRight StatusBarCorner = "bottom_right"
)

// Painter executes the render pass described in §4.4 steps 3-9 against
// a *gg.Context wrapping one SHM buffer's memory, grounded on
// other_examples' fbstatus.go paint-then-composite pattern (a
// gg.Context built directly over an in-memory RGBA buffer, cleared,
// drawn into, then copied out).
type Painter struct {
	Fonts *fontcache.Cache

	StatusBarCorner StatusBarCorner
	HelpText        []string
}

func boardColor(mode shapes.BoardMode) (shapes.Color, bool) {
	switch mode {
	case shapes.Whiteboard:
		return shapes.White, true
	case shapes.Blackboard:
		return shapes.Black, true
	default:
		return shapes.Color{}, false
	}
}

// Paint renders one frame into ctx (width x height, already sized to
// match the buffer). The pixels are left in ctx's RGBA order; the caller
// converts them to ARGB8888 wire order.
func (p *Painter) Paint(ctx *gg.Context, canvas *shapes.CanvasSet, machine *drawstate.Machine, cursorX, cursorY float64) {
	ctx.SetOperator(draw.Src)
	ctx.SetRGBA(0, 0, 0, 0)
	ctx.Clear()
	ctx.SetOperator(draw.Over)

	if bg, ok := boardColor(canvas.ActiveMode()); ok {
		ctx.SetRGBA(bg.R, bg.G, bg.B, bg.A)
		ctx.DrawRectangle(0, 0, float64(ctx.Width()), float64(ctx.Height()))
		ctx.Fill()
	}

	frame := canvas.Active()
	for _, s := range frame.Shapes {
		if s.IsRenderable() {
			p.drawShape(ctx, s)
		}
	}

	if machine != nil {
		if p.Fonts != nil {
			if face, err := p.Fonts.Face(machine.ToolState().FontDescriptor, machine.ToolState().FontSize); err == nil {
				ctx.SetFontFace(face)
			}
		}
		machine.RenderProvisional(ctx, cursorX, cursorY)

		if machine.StatusBarVisible() {
			p.drawStatusBar(ctx, machine)
		}
		if machine.HelpVisible() {
			p.drawHelp(ctx)
		}
	}
}

func (p *Painter) drawShape(ctx *gg.Context, s shapes.Shape) {
	c := s.Color
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.SetLineWidth(s.Thickness)

	switch s.Kind() {
	case shapes.KindFreehand:
		if len(s.Points) == 0 {
			return
		}
		ctx.NewSubPath()
		for i, pt := range s.Points {
			if i == 0 {
				ctx.MoveTo(float64(pt.X), float64(pt.Y))
			} else {
				ctx.LineTo(float64(pt.X), float64(pt.Y))
			}
		}
		ctx.Stroke()
	case shapes.KindLine:
		ctx.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		ctx.Stroke()
	case shapes.KindRect:
		ctx.DrawRectangle(s.X, s.Y, s.W, s.H)
		ctx.Stroke()
	case shapes.KindEllipse:
		ctx.DrawEllipse(s.Cx, s.Cy, s.Rx, s.Ry)
		ctx.Stroke()
	case shapes.KindArrow:
		ctx.DrawLine(s.X2, s.Y2, s.X1, s.Y1)
		ctx.Stroke()
		a, b := s.ArrowHeadPoints()
		ctx.MoveTo(s.X1, s.Y1)
		ctx.LineTo(float64(a.X), float64(a.Y))
		ctx.MoveTo(s.X1, s.Y1)
		ctx.LineTo(float64(b.X), float64(b.Y))
		ctx.Stroke()
	case shapes.KindText:
		if p.Fonts != nil {
			if face, err := p.Fonts.Face(s.Font, s.Size); err == nil {
				ctx.SetFontFace(face)
			}
		}
		if s.BackgroundEnabled {
			w, h := 0.0, s.Size
			if p.Fonts != nil {
				w, h = p.Fonts.Measure(s.Font, s.Size, s.Text)
			}
			ctx.SetRGBA(0, 0, 0, 0.5)
			ctx.DrawRectangle(s.X, s.Y-h, w, h)
			ctx.Fill()
			ctx.SetRGBA(c.R, c.G, c.B, c.A)
		}
		ctx.DrawString(s.Text, s.X, s.Y)
	}
}

func (p *Painter) drawStatusBar(ctx *gg.Context, machine *drawstate.Machine) {
	ts := machine.ToolState()
	text := statusBarText(machine.State().Tool, ts)
	x, y := p.statusBarPosition(ctx, text)
	ctx.SetRGBA(0, 0, 0, 0.6)
	tw, th := ctx.MeasureString(text)
	ctx.DrawRectangle(x-4, y-th-4, tw+8, th+8)
	ctx.Fill()
	ctx.SetRGBA(1, 1, 1, 1)
	ctx.DrawString(text, x, y)
}

func statusBarText(tool drawstate.Tool, ts drawstate.ToolState) string {
	return toolName(tool) + " thickness=" + floatStr(ts.Thickness) + " font=" + floatStr(ts.FontSize)
}

func toolName(t drawstate.Tool) string {
	switch t {
	case drawstate.ToolLine:
		return "line"
	case drawstate.ToolRect:
		return "rect"
	case drawstate.ToolEllipse:
		return "ellipse"
	case drawstate.ToolArrow:
		return "arrow"
	default:
		return "pen"
	}
}

func floatStr(v float64) string {
	i := int(v)
	if float64(i) == v {
		return itoa(i)
	}
	return itoa(i) + ".5"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (p *Painter) statusBarPosition(ctx *gg.Context, text string) (x, y float64) {
	tw, th := ctx.MeasureString(text)
	const margin = 12
	switch p.StatusBarCorner {
	case CornerTopLeft:
		return margin, margin + th
	case CornerTopRight:
		return float64(ctx.Width()) - tw - margin, margin + th
	case CornerBottomLeft:
		return margin, float64(ctx.Height()) - margin
	default:
		return float64(ctx.Width()) - tw - margin, float64(ctx.Height()) - margin
	}
}

func (p *Painter) drawHelp(ctx *gg.Context) {
	if len(p.HelpText) == 0 {
		return
	}
	const lineHeight = 20
	const margin = 16
	width := 0.0
	for _, line := range p.HelpText {
		w, _ := ctx.MeasureString(line)
		if w > width {
			width = w
		}
	}
	height := float64(len(p.HelpText)) * lineHeight
	ctx.SetRGBA(0, 0, 0, 0.75)
	ctx.DrawRectangle(margin, margin, width+2*margin, height+margin)
	ctx.Fill()
	ctx.SetRGBA(1, 1, 1, 1)
	for i, line := range p.HelpText {
		ctx.DrawString(line, margin*1.5, margin+float64(i+1)*lineHeight)
	}
}
