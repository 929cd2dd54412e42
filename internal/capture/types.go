// Package capture implements the asynchronous screenshot pipeline: a
// single background worker draining a request queue, acquiring bytes
// through portal or fast-path sources, routing them to a file and/or the
// clipboard, and reporting exactly one pending outcome at a time to the
// render loop via a non-blocking try-take. Hiding and showing the
// overlay around a capture is done by the render loop, not this package.
package capture

// Type is the kind of region a capture request targets.
type Type string

const (
	TypeFullScreen   Type = "full_screen"
	TypeActiveWindow Type = "active_window"
	TypeSelection    Type = "selection"
)

// SelectionGeometry is reserved per §9: the selection variant is always
// implemented interactively regardless of any stored rectangle; these
// fields are carried on Request but never consulted by any Source, and
// they are not part of the session file format.
type SelectionGeometry struct {
	X, Y, W, H int
}

// Destination controls where captured bytes are routed.
type Destination string

const (
	DestinationClipboardOnly    Destination = "clipboard_only"
	DestinationFileOnly         Destination = "file_only"
	DestinationClipboardAndFile Destination = "clipboard_and_file"
)

func (d Destination) WantsClipboard() bool {
	return d == DestinationClipboardOnly || d == DestinationClipboardAndFile
}

func (d Destination) WantsFile() bool {
	return d == DestinationFileOnly || d == DestinationClipboardAndFile
}

// FileSaveConfig describes where and how to save captured bytes to disk.
type FileSaveConfig struct {
	Dir      string
	Template string // strftime-style filename template, extension excluded
	Format   string // e.g. "png"
}

// Request is what the render loop submits to the coordinator's queue.
type Request struct {
	Type        Type
	Selection   SelectionGeometry
	Destination Destination
	FileSave    *FileSaveConfig
}

// Outcome is the terminal result of one capture request.
type Outcome struct {
	Success          bool
	Bytes            []byte
	SavedPath        string
	CopiedToClipboard bool
	Failed           string
	Cancelled        string
}

// Status mirrors the coordinator's externally observable state.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusAwaitingPermission Status = "awaiting_permission"
	StatusInProgress        Status = "in_progress"
	StatusSuccess           Status = "success"
	StatusFailed            Status = "failed"
	StatusCancelled         Status = "cancelled"
)
