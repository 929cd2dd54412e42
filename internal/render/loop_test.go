package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldRedrawPacingMatrix(t *testing.T) {
	cases := []struct {
		name                 string
		configured           bool
		needsRedraw          bool
		frameCallbackPending bool
		vsyncEnabled         bool
		want                 bool
	}{
		{"not configured yet", false, true, false, true, false},
		{"nothing to redraw", true, false, false, true, false},
		{"vsync idle, no pending callback", true, true, false, true, true},
		{"vsync on, callback still pending", true, true, true, true, false},
		{"vsync disabled ignores pending callback", true, true, true, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := &Loop{
				surface:              &SurfaceManager{Configured: c.configured},
				needsRedraw:          c.needsRedraw,
				frameCallbackPending: c.frameCallbackPending,
				vsyncEnabled:         c.vsyncEnabled,
			}
			require.Equal(t, c.want, l.shouldRedraw())
		})
	}
}

func TestSanitizeOutputIdentity(t *testing.T) {
	require.Equal(t, "eDP_1", SanitizeOutputIdentity("eDP-1"))
	require.Equal(t, "DP_2_HDMI_A_1", SanitizeOutputIdentity("DP-2 HDMI-A-1"))
	require.Equal(t, "plain", SanitizeOutputIdentity("plain"))
}
