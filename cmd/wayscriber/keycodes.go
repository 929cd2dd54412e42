package main

import "strings"

// evdevKeyNames maps Linux evdev keycodes (linux/input-event-codes.h) to
// the canonical key strings internal/keymap.Default expects. wl_keyboard
// delivers raw evdev keycodes, not resolved keysyms; compiling a full
// xkbcommon keymap to do that resolution properly needs cgo and a system
// xkbcommon install, so this module falls back to a static US-QWERTY
// table instead, the same fallback strategy the retrieval pack's own
// cgo-gated xkb bindings document for the !cgo build.
var evdevKeyNames = map[uint32]string{
	1:  "escape",
	2:  "1",
	3:  "2",
	4:  "3",
	5:  "4",
	6:  "5",
	7:  "6",
	8:  "7",
	9:  "8",
	10: "9",
	11: "0",
	12: "minus",
	13: "equal",
	14: "backspace",
	15: "tab",
	16: "q",
	17: "w",
	18: "e",
	19: "r",
	20: "t",
	21: "y",
	22: "u",
	23: "i",
	24: "o",
	25: "p",
	28: "return",
	30: "a",
	31: "s",
	32: "d",
	33: "f",
	34: "g",
	35: "h",
	36: "j",
	37: "k",
	38: "l",
	44: "z",
	45: "x",
	46: "c",
	47: "v",
	48: "b",
	49: "n",
	50: "m",
	57: "space",
	59: "f1",
	60: "f2",
	61: "f3",
	62: "f4",
	63: "f5",
	64: "f6",
	65: "f7",
	66: "f8",
	67: "f9",
	68: "f10",
	87: "f11",
	88: "f12",
}

const (
	keyLeftCtrl   uint32 = 29
	keyRightCtrl  uint32 = 97
	keyLeftShift  uint32 = 42
	keyRightShift uint32 = 54
	keyLeftAlt    uint32 = 56
	keyRightAlt   uint32 = 100
	keyTab        uint32 = 15
)

// keyName resolves an evdev keycode to the key string the keybinding
// table matches against. Shift only changes the case of a letter key
// (matching the single-rune text-insertion fallback in
// drawstate.Machine.handleTextInputKey); every other key keeps its
// canonical name regardless of modifiers, since binding lookups take
// Shift as a separate boolean rather than encoding it into the key
// string (e.g. {Key: "equal", Shift: true} is a distinct binding from
// {Key: "equal"}, not a binding on the key string "+").
func keyName(code uint32, shift bool) string {
	name, ok := evdevKeyNames[code]
	if !ok {
		return ""
	}
	if shift && len(name) == 1 {
		return strings.ToUpper(name)
	}
	return name
}
