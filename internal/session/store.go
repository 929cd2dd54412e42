package session

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/wayscriber/wayscriber/internal/shapes"
)

// ErrNoSnapshot is returned by Load when nothing should be restored —
// persistence disabled, no file present, file too large, or an empty
// parsed result.
var ErrNoSnapshot = errors.New("session: no snapshot to load")

var gzipMagic = [2]byte{0x1F, 0x8B}

// Store implements the save/load/apply/clear protocols of §4.5 against
// files on disk, using an advisory flock for the exclusive/shared lock
// the protocol requires.
type Store struct {
	opts Options
}

// New constructs a store for the given options.
func New(opts Options) *Store { return &Store{opts: opts} }

func sanitizeIdentity(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// stem returns "session-<display>[-<output>]" per §4.5 file naming.
func (s *Store) stem() string {
	stem := "session-" + sanitizeIdentity(s.opts.DisplayID)
	if s.opts.PerOutput && s.opts.OutputIdentity != "" {
		stem += "-" + sanitizeIdentity(s.opts.OutputIdentity)
	}
	return stem
}

func (s *Store) path(suffix string) string {
	return filepath.Join(s.opts.BaseDir, s.stem()+suffix)
}

func (s *Store) jsonPath() string  { return s.path(".json") }
func (s *Store) bakPath() string   { return s.path(".json.bak") }
func (s *Store) lockPath() string  { return s.path(".lock") }

func (s *Store) tmpPath() (string, error) {
	base := s.path(".json.tmp")
	for i := 0; i < 1000; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", base, i)
		}
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("session: could not find a free tmp path under %s", base)
}

// Save implements the eleven-step save protocol.
func (s *Store) Save(snap Snapshot, now time.Time) error {
	if err := os.MkdirAll(s.opts.BaseDir, 0o700); err != nil {
		return fmt.Errorf("session: mkdir base dir: %w", err)
	}

	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("session: acquire exclusive lock: %w", err)
	}
	defer lock.Unlock()

	filtered := filterForPersist(snap, s.opts)
	if filtered.IsEmpty() {
		if _, err := os.Stat(s.jsonPath()); err == nil {
			if err := os.Remove(s.jsonPath()); err != nil {
				return fmt.Errorf("session: remove empty session file: %w", err)
			}
		}
		return nil
	}

	payload, err := marshalSnapshot(filtered, now)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	if int64(len(payload)) > s.opts.MaxFileSizeBytes && s.opts.MaxFileSizeBytes > 0 {
		log.Warn().Int("bytes", len(payload)).Int64("limit", s.opts.MaxFileSizeBytes).Msg("session save aborted: snapshot exceeds max_file_size_bytes")
		return fmt.Errorf("session: serialized size %d exceeds max_file_size_bytes %d", len(payload), s.opts.MaxFileSizeBytes)
	}

	compress := false
	switch s.opts.Compression {
	case CompressionOn:
		compress = true
	case CompressionAuto:
		compress = int64(len(payload)) >= s.opts.AutoCompressThresholdBytes
	}
	if compress {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(payload); err != nil {
			return fmt.Errorf("session: gzip: %w", err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("session: gzip close: %w", err)
		}
		payload = buf.Bytes()
	}

	tmp, err := s.tmpPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("session: create tmp file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("session: write tmp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("session: sync tmp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("session: close tmp file: %w", err)
	}

	if _, err := os.Stat(s.jsonPath()); err == nil {
		if s.opts.BackupRetention > 0 {
			os.Remove(s.bakPath())
			if err := os.Rename(s.jsonPath(), s.bakPath()); err != nil {
				os.Remove(tmp)
				return fmt.Errorf("session: rotate backup: %w", err)
			}
		} else if err := os.Remove(s.jsonPath()); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("session: remove previous session file: %w", err)
		}
	}

	if err := os.Rename(tmp, s.jsonPath()); err != nil {
		return fmt.Errorf("session: rename tmp into place: %w", err)
	}
	return nil
}

func filterForPersist(snap Snapshot, opts Options) Snapshot {
	out := snap
	if !opts.PersistTransparent {
		out.Transparent = nil
	}
	if !opts.PersistWhiteboard {
		out.Whiteboard = nil
	}
	if !opts.PersistBlackboard {
		out.Blackboard = nil
	}
	if !opts.ToolStateRestore {
		out.ToolState = nil
	}
	return out
}

// Load implements the nine-step load protocol, returning ErrNoSnapshot
// whenever nothing should be restored (not an error condition — callers
// should fall back to fresh state).
func (s *Store) Load() (Snapshot, error) {
	if !s.opts.AnyPersist() && !s.opts.ToolStateRestore {
		return Snapshot{}, ErrNoSnapshot
	}

	info, err := os.Stat(s.jsonPath())
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: stat: %w", err)
	}
	if s.opts.MaxFileSizeBytes > 0 && info.Size() > s.opts.MaxFileSizeBytes {
		log.Warn().Int64("bytes", info.Size()).Int64("limit", s.opts.MaxFileSizeBytes).Msg("session load refused: file exceeds max_file_size_bytes")
		return Snapshot{}, ErrNoSnapshot
	}

	lock := flock.New(s.lockPath())
	if err := lock.RLock(); err != nil {
		return Snapshot{}, fmt.Errorf("session: acquire shared lock: %w", err)
	}
	defer lock.Unlock()

	raw, err := os.ReadFile(s.jsonPath())
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: read: %w", err)
	}

	if len(raw) >= 2 && raw[0] == gzipMagic[0] && raw[1] == gzipMagic[1] {
		gr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			log.Warn().Err(err).Msg("session load: malformed gzip payload")
			return Snapshot{}, ErrNoSnapshot
		}
		raw, err = io.ReadAll(gr)
		if err != nil {
			log.Warn().Err(err).Msg("session load: truncated gzip payload")
			return Snapshot{}, ErrNoSnapshot
		}
	}

	snap, err := unmarshalSnapshot(raw, s.opts.MaxShapesPerFrame)
	if err != nil {
		log.Warn().Err(err).Msg("session load: malformed JSON payload")
		return Snapshot{}, ErrNoSnapshot
	}

	for _, f := range []*shapes.Frame{snap.Transparent, snap.Whiteboard, snap.Blackboard} {
		if f != nil && f.Truncate(s.opts.MaxShapesPerFrame) {
			log.Warn().Str("file", s.jsonPath()).Msg("session load: frame truncated to max_shapes_per_frame")
		}
	}

	if snap.IsEmpty() {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

// Clear removes the session file, backup and lock. When perOutput is on
// and no identity is specified, it additionally scans the base directory
// for any matching prefix and removes those too.
func (s *Store) Clear() error {
	for _, p := range []string{s.jsonPath(), s.bakPath(), s.lockPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session: clear %s: %w", p, err)
		}
	}
	if s.opts.PerOutput && s.opts.OutputIdentity == "" {
		prefix := "session-" + sanitizeIdentity(s.opts.DisplayID)
		entries, err := os.ReadDir(s.opts.BaseDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("session: scan base dir: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, prefix) && (strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.bak") || strings.HasSuffix(name, ".lock")) {
				if err := os.Remove(filepath.Join(s.opts.BaseDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("session: clear %s: %w", name, err)
				}
			}
		}
	}
	return nil
}
