package capture

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

// ErrCancelled is returned when the portal reports the user cancelled
// the request (response code 1).
var ErrCancelled = errors.New("capture: cancelled")

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalObjectPath = "/org/freedesktop/portal/desktop"
	portalIface      = "org.freedesktop.portal.Screenshot"
	requestIface     = "org.freedesktop.portal.Request"
)

// PortalSource requests a screenshot via the xdg-desktop-portal
// Screenshot interface, grounded on the D-Bus handle-token /
// AddMatchSignal / Response-signal idiom in
// helixml-helix/api/pkg/desktop/session_portal.go, adapted from that
// file's ScreenCast/RemoteDesktop session setup to the simpler one-shot
// Screenshot call.
type PortalSource struct {
	Interactive bool
}

func (p *PortalSource) Capture(ctx context.Context, req Request) ([]byte, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("capture: connect session bus: %w", err)
	}
	defer conn.Close()

	token := fmt.Sprintf("wayscriber%d", rand.Int63())
	sender := strings.ReplaceAll(strings.TrimPrefix(conn.Names()[0], ":"), ".", "_")
	requestPath := dbus.ObjectPath(fmt.Sprintf("/org/freedesktop/portal/desktop/request/%s/%s", sender, token))

	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	matchRule := fmt.Sprintf("type='signal',interface='%s',member='Response',path='%s'", requestIface, requestPath)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err; err != nil {
		return nil, fmt.Errorf("capture: add match signal: %w", err)
	}

	obj := conn.Object(portalBusName, portalObjectPath)
	options := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"modal":        dbus.MakeVariant(false),
		"interactive":  dbus.MakeVariant(p.Interactive),
	}
	var outPath dbus.ObjectPath
	if err := obj.CallWithContext(ctx, portalIface+".Screenshot", 0, "", options).Store(&outPath); err != nil {
		return nil, fmt.Errorf("capture: portal Screenshot call: %w", err)
	}

	uri, err := waitForResponse(ctx, signals)
	if err != nil {
		return nil, err
	}
	return readPortalFile(uri)
}

func waitForResponse(ctx context.Context, signals chan *dbus.Signal) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("capture: portal response: %w", ctx.Err())
		case sig := <-signals:
			if sig == nil || !strings.HasSuffix(sig.Name, "Response") {
				continue
			}
			if len(sig.Body) < 2 {
				continue
			}
			code, ok := sig.Body[0].(uint32)
			if !ok {
				continue
			}
			results, _ := sig.Body[1].(map[string]dbus.Variant)
			switch code {
			case 0:
				uriVariant, ok := results["uri"]
				if !ok {
					return "", fmt.Errorf("capture: portal success with no uri")
				}
				uri, _ := uriVariant.Value().(string)
				return uri, nil
			case 1:
				return "", ErrCancelled
			default:
				return "", fmt.Errorf("capture: portal error response code %d", code)
			}
		}
	}
}

// readPortalFile polls the file URI for up to ~3 seconds (60 attempts x
// 50ms) to tolerate async portal writes, per §4.6.b, then reads and
// deletes it.
func readPortalFile(uri string) ([]byte, error) {
	path := strings.TrimPrefix(uri, "file://")
	var lastErr error
	for i := 0; i < 60; i++ {
		data, err := os.ReadFile(path)
		if err == nil {
			os.Remove(path)
			return data, nil
		}
		lastErr = err
		time.Sleep(50 * time.Millisecond)
	}
	return nil, fmt.Errorf("capture: reading portal file %s: %w", path, lastErr)
}
