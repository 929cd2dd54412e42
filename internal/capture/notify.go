package capture

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
)

// Notify sends a freedesktop desktop notification summarizing outcome,
// per §4.6 step 4 ("Saved as <filename>" and/or "Copied to clipboard").
// It is best-effort: a missing notification daemon is logged, not fatal.
func Notify(ctx context.Context, outcome Outcome) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("capture: notify: connect session bus: %w", err)
	}
	defer conn.Close()

	body := notificationBody(outcome)
	if body == "" {
		return nil
	}

	obj := conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.CallWithContext(ctx, notifyDest+".Notify", 0,
		"wayscriber", uint32(0), "", "Screenshot", body,
		[]string{}, map[string]dbus.Variant{}, int32(5000))
	if call.Err != nil {
		return fmt.Errorf("capture: notify: %w", call.Err)
	}
	return nil
}

func notificationBody(outcome Outcome) string {
	switch {
	case outcome.Cancelled != "":
		return ""
	case outcome.Failed != "":
		return FriendlyError(outcome.Failed)
	}
	var body string
	if outcome.SavedPath != "" {
		body = "Saved as " + outcome.SavedPath
	}
	if outcome.CopiedToClipboard {
		if body != "" {
			body += "\n"
		}
		body += "Copied to clipboard"
	}
	return body
}
