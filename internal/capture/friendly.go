package capture

import "strings"

// FriendlyError converts a low-level error string into user-facing
// phrasing for the notification sent after a failed or cancelled
// capture, per §4.6's "friendly mapping" requirement.
func FriendlyError(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "permission"):
		return "Screenshot permission was denied."
	case strings.Contains(lower, "busy"):
		return "The screenshot portal is busy. Try again in a moment."
	case strings.Contains(lower, "cancel"):
		return "Screenshot was cancelled."
	case strings.Contains(lower, "no such file"), strings.Contains(lower, "executable file not found"):
		return "A required screenshot tool is not installed."
	default:
		return "Screenshot failed: " + raw
	}
}
