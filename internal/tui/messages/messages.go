package messages

import "quicktransfer/internal/browser"

// OpDoneMsg reports that an asynchronous controller event finished.
type OpDoneMsg struct {
	Kind browser.EventKind
	Err  error
}

// OpenedMsg reports that a file was handed to an outside application.
type OpenedMsg struct {
	Err error
}

// ConfirmMsg asks the user a yes/no question. The answer is sent on Reply.
type ConfirmMsg struct {
	Text  string
	Reply chan<- bool
}

// PlayerExitedMsg reports that the player of a media overlay returned.
// Finished means the overlay should close.
type PlayerExitedMsg struct {
	ID       int
	Finished bool
	Err      error
}
