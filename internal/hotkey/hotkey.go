// Package hotkey defines the global-hotkey collaborator boundary.
// Platform event taps live outside this codebase; the core only needs
// something that invokes a callback when the configured chord fires.
package hotkey

import "sync"

// Notifier delivers global hotkey presses to a registered callback.
type Notifier interface {
	// Register sets the callback invoked on each hotkey press. A nil
	// callback disables delivery.
	Register(callback func())

	// Close stops delivery and releases platform resources.
	Close() error
}

// CallbackNotifier is an in-process Notifier driven by explicit Trigger
// calls. It backs tests and environments without a platform event tap.
type CallbackNotifier struct {
	mu       sync.Mutex
	callback func()
	closed   bool
}

var _ Notifier = (*CallbackNotifier)(nil)

// NewCallbackNotifier creates a notifier with no callback registered.
func NewCallbackNotifier() *CallbackNotifier {
	return &CallbackNotifier{}
}

// Register sets the callback invoked by Trigger.
func (n *CallbackNotifier) Register(callback func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.callback = callback
}

// Trigger simulates a hotkey press. Presses after Close or with no
// registered callback are dropped.
func (n *CallbackNotifier) Trigger() {
	n.mu.Lock()
	cb := n.callback
	closed := n.closed
	n.mu.Unlock()

	if closed || cb == nil {
		return
	}
	cb()
}

// Close stops delivery.
func (n *CallbackNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.callback = nil
	return nil
}
