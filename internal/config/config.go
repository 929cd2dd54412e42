// Package config loads the TOML configuration the ambient stack
// requires. The full schema/migration tool is out of scope (spec.md §1
// names it as an external collaborator); this package is the narrow
// loader the in-scope core depends on for session.Options, keybindings
// and render/capture defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wayscriber/wayscriber/internal/keymap"
	"github.com/wayscriber/wayscriber/internal/session"
)

// Config is the root TOML document.
type Config struct {
	Session SessionConfig `toml:"session"`
	Render  RenderConfig  `toml:"render"`
	Drawing DrawingConfig `toml:"drawing"`
	Capture CaptureConfig `toml:"capture"`
}

// SessionConfig mirrors session.Options in TOML-friendly form.
type SessionConfig struct {
	BaseDirMode     string `toml:"base_dir_mode"` // auto|config|custom
	BaseDirCustom   string `toml:"base_dir_custom"`
	PersistTransparent bool `toml:"persist_transparent"`
	PersistWhiteboard  bool `toml:"persist_whiteboard"`
	PersistBlackboard  bool `toml:"persist_blackboard"`
	ToolStateRestore   bool `toml:"tool_state_restore"`
	MaxShapesPerFrame  int  `toml:"max_shapes_per_frame"`
	MaxFileSizeBytes   int64 `toml:"max_file_size_bytes"`
	Compression        string `toml:"compression"`
	AutoCompressThresholdBytes int64 `toml:"auto_compress_threshold_bytes"`
	PerOutput          bool   `toml:"per_output"`
	BackupRetention    int    `toml:"backup_retention"`
}

// RenderConfig controls the buffer pool and vsync pacing.
type RenderConfig struct {
	BufferCount int  `toml:"buffer_count"`
	VsyncEnabled bool `toml:"vsync_enabled"`
}

// DrawingConfig controls drawstate behavior not otherwise derived.
type DrawingConfig struct {
	AutoAdjustPen bool `toml:"auto_adjust_pen"`
}

// CaptureConfig supplies defaults for file-save captures.
type CaptureConfig struct {
	FileDir      string `toml:"file_dir"`
	FileTemplate string `toml:"file_template"`
	FileFormat   string `toml:"file_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			BaseDirMode:        "auto",
			PersistTransparent: true,
			PersistWhiteboard:  true,
			PersistBlackboard:  true,
			ToolStateRestore:   true,
			MaxShapesPerFrame:  5000,
			MaxFileSizeBytes:   10 << 20,
			Compression:        "auto",
			AutoCompressThresholdBytes: 256 << 10,
			PerOutput:       false,
			BackupRetention: 1,
		},
		Render: RenderConfig{BufferCount: 3, VsyncEnabled: true},
		Drawing: DrawingConfig{AutoAdjustPen: true},
		Capture: CaptureConfig{FileTemplate: "wayscriber-%Y%m%d-%H%M%S", FileFormat: "png"},
	}
}

// Load reads and parses path, returning Default when path is empty or
// the file does not exist, so a missing config file is not fatal. Any
// other read or decode error is returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// SessionOptions derives session.Options from the config, the default
// display identifier (from WAYLAND_DISPLAY) and the resolved base
// directory.
func (c *Config) SessionOptions(displayID string) session.Options {
	baseDir := c.Session.BaseDirCustom
	switch c.Session.BaseDirMode {
	case "auto", "":
		if dir, err := os.UserCacheDir(); err == nil {
			baseDir = filepath.Join(dir, "wayscriber")
		}
	case "config":
		if dir, err := os.UserConfigDir(); err == nil {
			baseDir = filepath.Join(dir, "wayscriber")
		}
	}

	return session.Options{
		BaseDir:            baseDir,
		PersistTransparent: c.Session.PersistTransparent,
		PersistWhiteboard:  c.Session.PersistWhiteboard,
		PersistBlackboard:  c.Session.PersistBlackboard,
		ToolStateRestore:   c.Session.ToolStateRestore,
		MaxShapesPerFrame:  c.Session.MaxShapesPerFrame,
		MaxFileSizeBytes:   c.Session.MaxFileSizeBytes,
		Compression:        session.CompressionMode(c.Session.Compression),
		AutoCompressThresholdBytes: c.Session.AutoCompressThresholdBytes,
		DisplayID:       displayID,
		PerOutput:       c.Session.PerOutput,
		BackupRetention: c.Session.BackupRetention,
	}
}

// Keymap returns the built-in keybinding table; no keybinding overrides
// are read from the config file.
func (c *Config) Keymap() *keymap.Table {
	// The full keybinding-override schema (per-action key strings loaded
	// from TOML) belongs to the out-of-scope configurator; the in-scope
	// core always starts from the built-in table, which keymap.Default
	// duplicate-checks each time it builds it.
	return keymap.Default()
}
