package tui

import (
	"sync"

	"quicktransfer/internal/log"
	"quicktransfer/internal/tui/messages"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge connects the controller's Notifier, Confirmer and Picker to the
// bubbletea program. Controller calls arrive on command goroutines, so
// alerts are queued and shown when the model next updates, and Confirm
// blocks until the user answers the dialog.
type Bridge struct {
	mu          sync.Mutex
	alerts      []string
	status      string
	resetPicker bool
	send        func(tea.Msg)

	done      chan struct{}
	closeOnce sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{done: make(chan struct{})}
}

// SetSender sets the function used to deliver messages to the program,
// normally (*tea.Program).Send.
func (b *Bridge) SetSender(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Alert implements browser.Notifier.
func (b *Bridge) Alert(msg string) {
	log.Debugf("alert: %s", msg)
	b.mu.Lock()
	b.alerts = append(b.alerts, msg)
	b.mu.Unlock()
}

// Status records a non-blocking message for the status bar.
func (b *Bridge) Status(msg string) {
	b.mu.Lock()
	b.status = msg
	b.mu.Unlock()
}

// Confirm implements browser.Confirmer. Without a sender, or once the
// bridge is closed, the answer is no.
func (b *Bridge) Confirm(msg string) bool {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return false
	}

	reply := make(chan bool, 1)
	send(messages.ConfirmMsg{Text: msg, Reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-b.done:
		return false
	}
}

// Reset implements browser.Picker.
func (b *Bridge) Reset() {
	b.mu.Lock()
	b.resetPicker = true
	b.mu.Unlock()
}

// Close unblocks pending confirmations.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// drain returns and clears everything queued since the last call.
func (b *Bridge) drain() (alerts []string, status string, resetPicker bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	alerts, status, resetPicker = b.alerts, b.status, b.resetPicker
	b.alerts, b.status, b.resetPicker = nil, "", false
	return alerts, status, resetPicker
}
