package session

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/wayscriber/wayscriber/internal/shapes"
)

func testOptions(dir string) Options {
	return Options{
		BaseDir:            dir,
		PersistTransparent: true,
		ToolStateRestore:   false,
		MaxShapesPerFrame:  0,
		MaxFileSizeBytes:   1 << 20,
		Compression:        CompressionOff,
		DisplayID:          "wayland-0",
		PerOutput:          true,
		OutputIdentity:     "DP_1",
		BackupRetention:    1,
	}
}

// Scenario 6: session save/restore across output identities.
func TestSaveAndLoadAcrossOutputIdentity(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	store := New(opts)

	frame := shapes.NewFrame(0)
	frame.Append(shapes.NewLine(1, 2, 3, 4, shapes.Black, 2))
	snap := Snapshot{ActiveMode: shapes.Transparent, Transparent: frame}

	if err := store.Save(snap, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	wantPath := filepath.Join(dir, "session-wayland_0-DP_1.json")
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected file at %s: %v", wantPath, err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Transparent.Len() != 1 {
		t.Fatalf("expected 1 shape, got %d", loaded.Transparent.Len())
	}
	got := loaded.Transparent.Shapes[0]
	want := frame.Shapes[0]
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}
}

func TestSaveTwiceIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	store := New(opts)

	frame := shapes.NewFrame(0)
	frame.Append(shapes.NewLine(1, 2, 3, 4, shapes.Black, 2))
	snap := Snapshot{ActiveMode: shapes.Transparent, Transparent: frame}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Save(snap, now); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	first, err := store.Load()
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if err := store.Save(snap, now); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	second, err := store.Load()
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if !reflect.DeepEqual(first.Transparent.Shapes[0], second.Transparent.Shapes[0]) {
		t.Fatalf("expected equivalent snapshot on reload")
	}
}

func TestEmptySnapshotRemovesExistingFile(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	store := New(opts)

	frame := shapes.NewFrame(0)
	frame.Append(shapes.NewLine(0, 0, 1, 1, shapes.Black, 1))
	if err := store.Save(Snapshot{ActiveMode: shapes.Transparent, Transparent: frame}, time.Now()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Save(Snapshot{ActiveMode: shapes.Transparent, Transparent: shapes.NewFrame(0)}, time.Now()); err != nil {
		t.Fatalf("empty save failed: %v", err)
	}
	if _, err := os.Stat(store.jsonPath()); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, stat err=%v", err)
	}
}

func TestMaxFileSizeBoundary(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.MaxFileSizeBytes = 10
	store := New(opts)

	frame := shapes.NewFrame(0)
	frame.Append(shapes.NewLine(0, 0, 1, 1, shapes.Black, 1))
	err := store.Save(Snapshot{ActiveMode: shapes.Transparent, Transparent: frame}, time.Now())
	if err == nil {
		t.Fatal("expected save to refuse when payload exceeds max_file_size_bytes")
	}
}

func TestClearRemovesPerOutputFiles(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.OutputIdentity = ""
	store := New(opts)

	frame := shapes.NewFrame(0)
	frame.Append(shapes.NewLine(0, 0, 1, 1, shapes.Black, 1))
	withIdentity := testOptions(dir)
	New(withIdentity).Save(Snapshot{ActiveMode: shapes.Transparent, Transparent: frame}, time.Now())

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected all session files removed, found %v", entries)
	}
}
