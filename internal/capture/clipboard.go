package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/atotto/clipboard"
)

// ClipboardWriter copies PNG bytes to the system clipboard.
type ClipboardWriter interface {
	WriteImage(ctx context.Context, png []byte) error
}

// WlCopyClipboard shells out to wl-copy with the correct MIME type, per
// §4.6.d, falling back to github.com/atotto/clipboard's text clipboard
// when wl-copy is not on PATH. atotto/clipboard has no image support:
// the fallback writes the PNG bytes as text and reports success whenever
// that write succeeds.
type WlCopyClipboard struct {
	Available bool
}

func (w *WlCopyClipboard) WriteImage(ctx context.Context, png []byte) error {
	if w.Available {
		cmd := exec.CommandContext(ctx, "wl-copy", "--type", "image/png")
		cmd.Stdin = bytes.NewReader(png)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("capture: wl-copy: %w", err)
		}
		return nil
	}
	if err := clipboard.WriteAll(string(png)); err != nil {
		return fmt.Errorf("capture: clipboard fallback: %w", err)
	}
	return nil
}
