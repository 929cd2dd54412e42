package render

import (
	"image"
	"testing"

	"github.com/fogleman/gg"

	"github.com/wayscriber/wayscriber/internal/dirty"
	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/fontcache"
	"github.com/wayscriber/wayscriber/internal/keymap"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

func newTestPainter() *Painter {
	return &Painter{Fonts: fontcache.New(), StatusBarCorner: CornerBottomRight}
}

func TestPaintTransparentBoardLeavesBackgroundEmpty(t *testing.T) {
	canvas := shapes.NewCanvasSet(0)
	machine := drawstate.New(canvas, dirty.New(), keymap.Default(), true, nil)

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	ctx := gg.NewContextForRGBA(img)

	newTestPainter().Paint(ctx, canvas, machine, 0, 0)

	if img.Pix[3] != 0 {
		t.Fatalf("expected transparent corner pixel alpha=0, got %d", img.Pix[3])
	}
}

func TestPaintWhiteboardFillsBackground(t *testing.T) {
	canvas := shapes.NewCanvasSet(0)
	canvas.Switch(shapes.Whiteboard)
	machine := drawstate.New(canvas, dirty.New(), keymap.Default(), true, nil)

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	ctx := gg.NewContextForRGBA(img)

	newTestPainter().Paint(ctx, canvas, machine, 0, 0)

	off := img.PixOffset(0, 0)
	if img.Pix[off] != 255 || img.Pix[off+3] != 255 {
		t.Fatalf("expected opaque white top-left pixel, got %v", img.Pix[off:off+4])
	}
}

func TestPaintDrawsFinalizedShape(t *testing.T) {
	canvas := shapes.NewCanvasSet(0)
	canvas.ActiveMut().Append(shapes.NewLine(2, 16, 30, 16, shapes.Color{R: 1, A: 1}, 4))
	machine := drawstate.New(canvas, dirty.New(), keymap.Default(), true, nil)

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	ctx := gg.NewContextForRGBA(img)

	newTestPainter().Paint(ctx, canvas, machine, 0, 0)

	off := img.PixOffset(16, 16)
	if img.Pix[off+3] == 0 {
		t.Fatal("expected the drawn line to leave an opaque pixel along its path")
	}
}
