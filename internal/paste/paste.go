// Package paste serializes clipboard-mutating insertions. The clipboard
// itself is platform glue behind the Clipboard interface; this package
// owns the ordering guarantee: every insertion runs its full
// snapshot, set, trigger, delay, restore sequence as one unit, and
// overlapping requests execute strictly one at a time in submission
// order. Without that, two near-simultaneous insertions can restore each
// other's intermediate clipboard contents.
package paste

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RestoreDelay is how long the target application gets to consume the
// clipboard before the previous contents come back.
const RestoreDelay = 100 * time.Millisecond

// Snapshot is an opaque capture of clipboard contents. It is produced
// and consumed by the same Clipboard implementation; this package never
// inspects it.
type Snapshot any

// Clipboard is the platform clipboard collaborator. The one contract
// this package relies on: Restore after SetText plus TriggerPaste
// returns the clipboard to its pre-call contents.
type Clipboard interface {
	Snapshot() Snapshot
	SetText(text string)
	TriggerPaste()
	Restore(snapshot Snapshot)
}

type request struct {
	text string
	done chan struct{}
}

// Inserter pastes snippet text into the frontmost application while
// preserving the user's clipboard. One Inserter exists per process;
// create it at startup, Start it, Stop it at exit.
type Inserter struct {
	clipboard Clipboard
	delay     time.Duration

	// sleep is injected in tests to avoid real waiting.
	sleep func(d time.Duration)

	requests chan request

	// Lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
}

// NewInserter creates an inserter over the given clipboard.
func NewInserter(clipboard Clipboard) *Inserter {
	return &Inserter{
		clipboard: clipboard,
		delay:     RestoreDelay,
		sleep:     time.Sleep,
		requests:  make(chan request, 16),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Calling Start on a running
// inserter is a no-op.
func (in *Inserter) Start() {
	in.mu.Lock()
	if in.running {
		in.mu.Unlock()
		return
	}
	in.running = true
	in.mu.Unlock()

	go in.run()
}

func (in *Inserter) run() {
	defer close(in.doneCh)
	for {
		select {
		case <-in.stopCh:
			return
		case req := <-in.requests:
			in.paste(req.text)
			close(req.done)
		}
	}
}

// paste performs one full insertion sequence. Runs only on the consumer
// goroutine, so sequences never interleave.
func (in *Inserter) paste(text string) {
	previous := in.clipboard.Snapshot()
	in.clipboard.SetText(text)
	in.clipboard.TriggerPaste()
	in.sleep(in.delay)
	in.clipboard.Restore(previous)
}

// InsertText enqueues text for pasting and waits for its sequence to
// complete. A cancelled context abandons the wait, not the sequence:
// once enqueued, the insertion still runs to completion so the clipboard
// is never left holding snippet text.
func (in *Inserter) InsertText(ctx context.Context, text string) error {
	in.mu.Lock()
	running := in.running
	in.mu.Unlock()
	if !running {
		return fmt.Errorf("inserter is not running")
	}

	req := request{text: text, done: make(chan struct{})}
	select {
	case in.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-in.stopCh:
		return fmt.Errorf("inserter is stopped")
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals the consumer to stop and waits for it to finish. Queued
// requests are abandoned.
func (in *Inserter) Stop() {
	in.mu.Lock()
	if !in.running {
		in.mu.Unlock()
		return
	}
	in.running = false
	in.mu.Unlock()

	close(in.stopCh)
	<-in.doneCh
}
