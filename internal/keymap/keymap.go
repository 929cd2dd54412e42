// Package keymap resolves key events against a keybinding -> action
// table loaded at startup, rejecting duplicate bindings at construction
// time.
package keymap

import (
	"fmt"
	"strings"
)

// Action is the closed set of things a keybinding can trigger.
type Action string

const (
	ActionExit                 Action = "exit"
	ActionEnterTextMode        Action = "enter_text_mode"
	ActionClearCanvas          Action = "clear_canvas"
	ActionUndo                 Action = "undo"
	ActionIncreaseThickness    Action = "increase_thickness"
	ActionDecreaseThickness    Action = "decrease_thickness"
	ActionIncreaseFontSize     Action = "increase_font_size"
	ActionDecreaseFontSize     Action = "decrease_font_size"
	ActionToggleWhiteboard     Action = "toggle_whiteboard"
	ActionToggleBlackboard     Action = "toggle_blackboard"
	ActionToggleTransparent    Action = "toggle_transparent"
	ActionToggleHelp           Action = "toggle_help"
	ActionToggleStatusBar      Action = "toggle_status_bar"
	ActionOpenConfigurator     Action = "open_configurator"

	ActionColor1 Action = "color_1"
	ActionColor2 Action = "color_2"
	ActionColor3 Action = "color_3"
	ActionColor4 Action = "color_4"
	ActionColor5 Action = "color_5"
	ActionColor6 Action = "color_6"
	ActionColor7 Action = "color_7"
	ActionColor8 Action = "color_8"

	ActionCaptureFullClipboard           Action = "capture_full_clipboard"
	ActionCaptureFullFile                Action = "capture_full_file"
	ActionCaptureFullBoth                Action = "capture_full_both"
	ActionCaptureActiveWindowClipboard   Action = "capture_active_window_clipboard"
	ActionCaptureActiveWindowFile        Action = "capture_active_window_file"
	ActionCaptureActiveWindowBoth        Action = "capture_active_window_both"
	ActionCaptureSelectionClipboard      Action = "capture_selection_clipboard"
	ActionCaptureSelectionFile           Action = "capture_selection_file"
	ActionCaptureSelectionBoth           Action = "capture_selection_both"
)

// CaptureActions lists every capture variant so callers can test
// membership without enumerating the full Action set.
var CaptureActions = map[Action]bool{
	ActionCaptureFullClipboard:         true,
	ActionCaptureFullFile:              true,
	ActionCaptureFullBoth:              true,
	ActionCaptureActiveWindowClipboard: true,
	ActionCaptureActiveWindowFile:      true,
	ActionCaptureActiveWindowBoth:      true,
	ActionCaptureSelectionClipboard:    true,
	ActionCaptureSelectionFile:         true,
	ActionCaptureSelectionBoth:         true,
}

// Binding is a single keybinding: canonical key string plus the three
// modifier booleans that must match exactly (Key matching is
// case-insensitive; modifiers are not "at least" but exact).
type Binding struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
}

func canonicalKey(k string) string {
	return strings.ToLower(k)
}

func (b Binding) normalized() Binding {
	b.Key = canonicalKey(b.Key)
	return b
}

// DuplicateBindingError reports every conflicting (binding, actions)
// pair found while building a Table, not just the first — recovered
// from original_source/src/config/keybindings.rs, which collects every
// duplicate before erroring.
type DuplicateBindingError struct {
	Duplicates []DuplicatePair
}

// DuplicatePair names one binding bound to more than one action.
type DuplicatePair struct {
	Binding Binding
	First   Action
	Second  Action
}

func (e *DuplicateBindingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "keymap: %d duplicate binding(s):", len(e.Duplicates))
	for _, d := range e.Duplicates {
		fmt.Fprintf(&b, "\n  %+v bound to both %s and %s", d.Binding, d.First, d.Second)
	}
	return b.String()
}

// Table maps bindings to actions.
type Table struct {
	entries map[Binding]Action
}

// Build constructs a Table from binding/action pairs, returning a
// *DuplicateBindingError aggregating every conflict found if any
// binding is listed more than once.
func Build(pairs map[Binding]Action) (*Table, error) {
	entries := make(map[Binding]Action, len(pairs))
	seen := make(map[Binding]Action, len(pairs))
	var dupes []DuplicatePair
	for raw, action := range pairs {
		b := raw.normalized()
		if existing, ok := seen[b]; ok {
			dupes = append(dupes, DuplicatePair{Binding: b, First: existing, Second: action})
			continue
		}
		seen[b] = action
		entries[b] = action
	}
	if len(dupes) > 0 {
		return nil, &DuplicateBindingError{Duplicates: dupes}
	}
	return &Table{entries: entries}, nil
}

// Lookup resolves a key event to an action. Unknown keys return ("", false)
// and must never mutate state, per the "unknown keys map to a no-op" rule.
func (t *Table) Lookup(key string, ctrl, shift, alt bool) (Action, bool) {
	b := Binding{Key: canonicalKey(key), Ctrl: ctrl, Shift: shift, Alt: alt}
	a, ok := t.entries[b]
	return a, ok
}

// Default returns the built-in keybinding table. Callers that load a
// config-provided table fall back to this one if the config table fails
// to build (duplicate or invalid syntax), per §7 error kind 9.
func Default() *Table {
	t, err := Build(map[Binding]Action{
		{Key: "escape"}:                     ActionExit,
		{Key: "t"}:                          ActionEnterTextMode,
		{Key: "c"}:                          ActionClearCanvas,
		{Key: "z", Ctrl: true}:              ActionUndo,
		{Key: "equal"}:                      ActionIncreaseThickness,
		{Key: "minus"}:                      ActionDecreaseThickness,
		{Key: "equal", Shift: true}:         ActionIncreaseFontSize,
		{Key: "minus", Shift: true}:         ActionDecreaseFontSize,
		{Key: "w"}:                          ActionToggleWhiteboard,
		{Key: "b"}:                          ActionToggleBlackboard,
		{Key: "f1"}:                         ActionToggleHelp,
		{Key: "f2"}:                         ActionToggleStatusBar,
		{Key: "f10"}:                        ActionOpenConfigurator,
		{Key: "1"}: ActionColor1, {Key: "2"}: ActionColor2,
		{Key: "3"}: ActionColor3, {Key: "4"}: ActionColor4,
		{Key: "5"}: ActionColor5, {Key: "6"}: ActionColor6,
		{Key: "7"}: ActionColor7, {Key: "8"}: ActionColor8,
		{Key: "p"}:                          ActionCaptureFullClipboard,
		{Key: "p", Shift: true}:             ActionCaptureFullFile,
		{Key: "p", Ctrl: true}:              ActionCaptureFullBoth,
		{Key: "a"}:                          ActionCaptureActiveWindowClipboard,
		{Key: "a", Shift: true}:             ActionCaptureActiveWindowFile,
		{Key: "a", Ctrl: true}:              ActionCaptureActiveWindowBoth,
		{Key: "s"}:                          ActionCaptureSelectionClipboard,
		{Key: "s", Shift: true}:             ActionCaptureSelectionFile,
		{Key: "s", Ctrl: true}:              ActionCaptureSelectionBoth,
	})
	if err != nil {
		// The built-in table is authored, not user-supplied; a duplicate
		// here is a programmer error, not a runtime condition to recover
		// from.
		panic(err)
	}
	return t
}

// SpecialTextKeys are the keys still consulted against the action table
// while in TextInput, per §4.3's text-input interception rule.
var SpecialTextKeys = map[string]bool{
	"escape": true, "f10": true, "f11": true, "f12": true,
	"return": true, "backspace": true, "space": true,
}
