package main

import (
	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/render"
	"github.com/wayscriber/wayscriber/internal/wlproto"
)

// modifierTracker derives drawstate.ModifierSet from raw evdev key
// press/release, since resolving wl_keyboard's modifiers event
// properly requires an xkbcommon-compiled keymap (see keycodes.go).
// Left and right variants of a modifier share one press counter, so
// releasing one side while the other is still held keeps the modifier
// active.
type modifierTracker struct {
	ctrl, shift, alt int
}

func newModifierTracker() *modifierTracker { return &modifierTracker{} }

func (t *modifierTracker) handle(code uint32, pressed bool) {
	delta := -1
	if pressed {
		delta = 1
	}
	switch code {
	case keyLeftCtrl, keyRightCtrl:
		t.ctrl += delta
	case keyLeftShift, keyRightShift:
		t.shift += delta
	case keyLeftAlt, keyRightAlt:
		t.alt += delta
	}
	if t.ctrl < 0 {
		t.ctrl = 0
	}
	if t.shift < 0 {
		t.shift = 0
	}
	if t.alt < 0 {
		t.alt = 0
	}
}

func (t *modifierTracker) set() drawstate.ModifierSet {
	return drawstate.ModifierSet{
		Ctrl:  t.ctrl > 0,
		Shift: t.shift > 0,
		Alt:   t.alt > 0,
	}
}

// wireSeat attaches capability-driven pointer/keyboard handlers to the
// seat, the pattern in friedelschoen-ctxmenu/wayland/window.go's
// HandleSeatCapabilities / attachPointer / attachKeyboard, adapted to
// dispatch into drawstate.Machine instead of the menu's own input
// state.
func wireSeat(g *wlproto.Globals, loop *render.Loop, machine *drawstate.Machine, mods *modifierTracker) {
	var pointer *wlproto.Pointer
	var keyboard *wlproto.Keyboard

	g.Seat.SetHandlers(&wlproto.SeatHandlers{
		OnCapabilities: func(caps wlproto.SeatCapability) {
			if caps&wlproto.SeatCapabilityPointer != 0 && pointer == nil {
				pointer = g.Seat.GetPointer(pointerHandlers(loop, machine))
			} else if caps&wlproto.SeatCapabilityPointer == 0 && pointer != nil {
				pointer.Release()
				pointer = nil
			}

			if caps&wlproto.SeatCapabilityKeyboard != 0 && keyboard == nil {
				keyboard = g.Seat.GetKeyboard(keyboardHandlers(loop, machine, mods))
			} else if caps&wlproto.SeatCapabilityKeyboard == 0 && keyboard != nil {
				keyboard.Release()
				keyboard = nil
			}
		},
	})
}

func pointerHandlers(loop *render.Loop, machine *drawstate.Machine) *wlproto.PointerHandlers {
	var cx, cy float64

	return &wlproto.PointerHandlers{
		OnMotion: func(_ uint32, x, y float64) {
			cx, cy = x, y
			machine.MouseMotion(x, y)
			loop.SetCursor(x, y)
			loop.MarkDirty()
		},
		OnButton: func(_ uint32, _ uint32, button uint32, state wlproto.PointerButtonState) {
			b, ok := mouseButton(button)
			if !ok {
				return
			}
			switch state {
			case wlproto.PointerButtonPressed:
				machine.MousePress(b, cx, cy)
			case wlproto.PointerButtonReleased:
				machine.MouseRelease(b, cx, cy)
			}
			loop.MarkDirty()
		},
		OnAxis: func(_ uint32, axis uint32, value float64) {
			a := drawstate.ScrollVertical
			if axis == 1 {
				a = drawstate.ScrollHorizontal
			}
			machine.HandleScroll(a, value)
			loop.MarkDirty()
		},
	}
}

// mouseButton maps the Linux input-event-codes button constants
// (BTN_LEFT=0x110, BTN_RIGHT=0x111, BTN_MIDDLE=0x112) the compositor
// reports verbatim to drawstate.MouseButton.
func mouseButton(code uint32) (drawstate.MouseButton, bool) {
	switch code {
	case 0x110:
		return drawstate.MouseLeft, true
	case 0x111:
		return drawstate.MouseRight, true
	case 0x112:
		return drawstate.MouseMiddle, true
	default:
		return 0, false
	}
}

func keyboardHandlers(loop *render.Loop, machine *drawstate.Machine, mods *modifierTracker) *wlproto.KeyboardHandlers {
	return &wlproto.KeyboardHandlers{
		OnKey: func(_ uint32, _ uint32, key uint32, state wlproto.KeyState) {
			pressed := state == wlproto.KeyPressed
			mods.handle(key, pressed)
			machine.SetModifiers(mods.set())

			if !pressed {
				return
			}
			name := keyName(key, mods.set().Shift)
			if name == "" {
				return
			}
			machine.HandleKeyPress(name)
			loop.MarkDirty()
		},
	}
}
