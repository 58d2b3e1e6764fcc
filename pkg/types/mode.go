package types

import "quicktransfer/internal/browser"

// Mode represents the current input mode of the TUI
type Mode int

const (
	// Normal is the default mode for grid navigation and selection
	Normal Mode = iota
	// Picker is the mode for typing local paths to upload
	Picker
	// Confirm is a pending yes/no question
	Confirm
	// Alert is a message waiting to be dismissed
	Alert
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Picker:
		return "UPLOAD"
	case Confirm:
		return "CONFIRM"
	case Alert:
		return "ALERT"
	}
	return "UNKNOWN"
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	State() browser.State
	Cursor() int
	Mode() Mode
	ShowHelp() bool
	Size() (width, height int)
	BaseURL() string
}
