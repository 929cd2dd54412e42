package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mockSource struct {
	payload []byte
	err     error
}

func (m *mockSource) Capture(ctx context.Context, req Request) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type mockClipboard struct {
	wrote []byte
}

func (m *mockClipboard) WriteImage(ctx context.Context, png []byte) error {
	m.wrote = png
	return nil
}

func waitOutcome(t *testing.T, c *Coordinator) Outcome {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if out, ok := c.TryTakeOutcome(); ok {
			return out
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for capture outcome")
	return Outcome{}
}

func TestCoordinatorFullScreenClipboardAndFile(t *testing.T) {
	dir := t.TempDir()
	src := &mockSource{payload: []byte{0x01, 0x02, 0x03}}
	clip := &mockClipboard{}
	c := NewCoordinator(src, clip)
	defer c.Close()

	c.Submit(Request{
		Type:        TypeFullScreen,
		Destination: DestinationClipboardAndFile,
		FileSave:    &FileSaveConfig{Dir: dir, Template: "shot", Format: "png"},
	})

	out := waitOutcome(t, c)
	if !out.Success {
		t.Fatalf("expected success, got failed=%q cancelled=%q", out.Failed, out.Cancelled)
	}
	wantPath := filepath.Join(dir, "shot.png")
	if out.SavedPath != wantPath {
		t.Fatalf("saved_path = %q, want %q", out.SavedPath, wantPath)
	}
	if !out.CopiedToClipboard {
		t.Fatal("expected copied_to_clipboard = true")
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "\x01\x02\x03" {
		t.Fatalf("file contents = %v, want [1 2 3]", data)
	}
	info, err := os.Stat(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if len(clip.wrote) != 3 {
		t.Fatalf("clipboard payload length = %d, want 3", len(clip.wrote))
	}
}

func TestCoordinatorCancelled(t *testing.T) {
	src := &mockSource{err: ErrCancelled}
	c := NewCoordinator(src, nil)
	defer c.Close()

	c.Submit(Request{Type: TypeFullScreen, Destination: DestinationFileOnly})
	out := waitOutcome(t, c)
	if out.Cancelled == "" {
		t.Fatal("expected cancelled outcome")
	}
}

func TestRenderFilenameAppendsExtension(t *testing.T) {
	at := time.Date(2026, 3, 5, 14, 30, 2, 0, time.UTC)
	got := RenderFilename("wayscriber-%Y%m%d-%H%M%S", "png", at)
	want := "wayscriber-20260305-143002.png"
	if got != want {
		t.Fatalf("RenderFilename = %q, want %q", got, want)
	}
}

func TestFriendlyErrorMapsKnownCases(t *testing.T) {
	cases := map[string]string{
		"permission denied":            "Screenshot permission was denied.",
		"portal is busy right now":     "The screenshot portal is busy. Try again in a moment.",
		"request was cancelled by user": "Screenshot was cancelled.",
	}
	for raw, want := range cases {
		if got := FriendlyError(raw); got != want {
			t.Fatalf("FriendlyError(%q) = %q, want %q", raw, got, want)
		}
	}
}
