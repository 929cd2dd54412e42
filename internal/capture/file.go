package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RenderFilename expands strftime-style directives in template against
// at, then appends "." + format if the template has no extension
// already, per §4.6.c. Only the directives the original filename
// scheme actually uses are supported.
func RenderFilename(template string, format string, at time.Time) string {
	replacer := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", at.Year()),
		"%m", fmt.Sprintf("%02d", at.Month()),
		"%d", fmt.Sprintf("%02d", at.Day()),
		"%H", fmt.Sprintf("%02d", at.Hour()),
		"%M", fmt.Sprintf("%02d", at.Minute()),
		"%S", fmt.Sprintf("%02d", at.Second()),
	)
	name := replacer.Replace(template)
	if filepath.Ext(name) == "" {
		name += "." + format
	}
	return name
}

// WriteCaptureFile creates dir (mode 0700) if needed and writes data to
// dir/filename with mode 0600, per §4.6.c's file-permission requirement.
func WriteCaptureFile(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("capture: mkdir %s: %w", dir, err)
	}
	full := filepath.Join(dir, filename)
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return "", fmt.Errorf("capture: write %s: %w", full, err)
	}
	return full, nil
}
