package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackNotifier_DeliversPresses(t *testing.T) {
	n := NewCallbackNotifier()

	var presses int
	n.Register(func() { presses++ })

	n.Trigger()
	n.Trigger()
	assert.Equal(t, 2, presses)
}

func TestCallbackNotifier_NoCallbackDropsPress(t *testing.T) {
	n := NewCallbackNotifier()
	n.Trigger()

	var presses int
	n.Register(func() { presses++ })
	n.Register(nil)
	n.Trigger()
	assert.Zero(t, presses)
}

func TestCallbackNotifier_ClosedDropsPress(t *testing.T) {
	n := NewCallbackNotifier()

	var presses int
	n.Register(func() { presses++ })
	assert.NoError(t, n.Close())

	n.Trigger()
	assert.Zero(t, presses)

	// Registration after close stays inert
	n.Register(func() { presses++ })
	n.Trigger()
	assert.Zero(t, presses)
}
