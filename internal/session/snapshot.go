package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

// Snapshot is the per-output persistable state: canvas set plus tool
// parameters.
type Snapshot struct {
	ActiveMode  shapes.BoardMode
	Transparent *shapes.Frame
	Whiteboard  *shapes.Frame
	Blackboard  *shapes.Frame
	ToolState   *drawstate.ToolState
}

// IsEmpty reports whether the snapshot carries nothing worth persisting:
// no frames (nil or zero-length) and no tool state.
func (s Snapshot) IsEmpty() bool {
	empty := func(f *shapes.Frame) bool { return f == nil || f.Len() == 0 }
	return empty(s.Transparent) && empty(s.Whiteboard) && empty(s.Blackboard) && s.ToolState == nil
}

const fileVersion = 1

type wireFile struct {
	Version      int              `json:"version"`
	LastModified string           `json:"last_modified"`
	ActiveMode   string           `json:"active_mode"`
	Transparent  *wireFrame       `json:"transparent"`
	Whiteboard   *wireFrame       `json:"whiteboard"`
	Blackboard   *wireFrame       `json:"blackboard"`
	ToolState    *wireToolState   `json:"tool_state"`
}

type wireFrame struct {
	Shapes []shapes.Shape `json:"shapes"`
}

type wireToolState struct {
	Color             shapes.Color          `json:"color"`
	Thickness         float64               `json:"thickness"`
	FontSize          float64               `json:"font_size"`
	Font              shapes.FontDescriptor `json:"font"`
	BackgroundEnabled bool                  `json:"background_enabled"`
	ArrowHeadLength   float64               `json:"arrow_head_length"`
	ArrowHeadAngle    float64               `json:"arrow_head_angle"`
	SavedColor        *shapes.Color         `json:"saved_color"`
	StatusBarVisible  bool                  `json:"status_bar_visible"`
}

func toWireFrame(f *shapes.Frame) *wireFrame {
	if f == nil {
		return nil
	}
	return &wireFrame{Shapes: f.Shapes}
}

func fromWireFrame(w *wireFrame, maxShapes int) *shapes.Frame {
	if w == nil {
		return nil
	}
	f := shapes.NewFrame(maxShapes)
	f.Shapes = append(f.Shapes, w.Shapes...)
	return f
}

func toWireToolState(ts *drawstate.ToolState) *wireToolState {
	if ts == nil {
		return nil
	}
	return &wireToolState{
		Color: ts.Color, Thickness: ts.Thickness, FontSize: ts.FontSize,
		Font: ts.FontDescriptor, BackgroundEnabled: ts.BackgroundEnabled,
		ArrowHeadLength: ts.ArrowHeadLength, ArrowHeadAngle: ts.ArrowHeadAngle,
		SavedColor: ts.SavedColor, StatusBarVisible: ts.StatusBarVisible,
	}
}

func fromWireToolState(w *wireToolState) *drawstate.ToolState {
	if w == nil {
		return nil
	}
	ts := &drawstate.ToolState{
		Color: w.Color, Thickness: w.Thickness, FontSize: w.FontSize,
		FontDescriptor: w.Font, BackgroundEnabled: w.BackgroundEnabled,
		ArrowHeadLength: w.ArrowHeadLength, ArrowHeadAngle: w.ArrowHeadAngle,
		SavedColor: w.SavedColor, StatusBarVisible: w.StatusBarVisible,
	}
	ts.Clamp()
	return ts
}

func marshalSnapshot(s Snapshot, now time.Time) ([]byte, error) {
	wf := wireFile{
		Version:      fileVersion,
		LastModified: now.UTC().Format(time.RFC3339),
		ActiveMode:   string(s.ActiveMode),
		Transparent:  toWireFrame(s.Transparent),
		Whiteboard:   toWireFrame(s.Whiteboard),
		Blackboard:   toWireFrame(s.Blackboard),
		ToolState:    toWireToolState(s.ToolState),
	}
	return json.MarshalIndent(wf, "", "  ")
}

func unmarshalSnapshot(data []byte, maxShapes int) (Snapshot, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return Snapshot{}, fmt.Errorf("session: parse: %w", err)
	}
	return Snapshot{
		ActiveMode:  shapes.ParseBoardMode(wf.ActiveMode),
		Transparent: fromWireFrame(wf.Transparent, maxShapes),
		Whiteboard:  fromWireFrame(wf.Whiteboard, maxShapes),
		Blackboard:  fromWireFrame(wf.Blackboard, maxShapes),
		ToolState:   fromWireToolState(wf.ToolState),
	}, nil
}
