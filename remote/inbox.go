package remote

import (
	"sync"

	"github.com/phanxgames/sway"
)

// Inbox carries results from an Executor to the goroutine that owns the
// Bridge. Posting is safe from any goroutine; callbacks run only in Drain.
//
// Inbox implements sway.ResultSource.
type Inbox struct {
	mu      sync.Mutex
	pending []func()

	onValue     func(sway.ValueResult)
	onAnimation func(sway.AnimationResult)
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// SubscribeResults implements sway.ResultSource. A later call replaces the
// earlier subscriber.
func (in *Inbox) SubscribeResults(onValue func(sway.ValueResult), onAnimation func(sway.AnimationResult)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.onValue = onValue
	in.onAnimation = onAnimation
}

// Post queues fn to run on the next Drain.
func (in *Inbox) Post(fn func()) {
	in.mu.Lock()
	in.pending = append(in.pending, fn)
	in.mu.Unlock()
}

// PostValue queues a value result for the subscriber.
func (in *Inbox) PostValue(r sway.ValueResult) {
	in.Post(func() {
		if cb := in.valueHandler(); cb != nil {
			cb(r)
		}
	})
}

// PostAnimation queues an animation result for the subscriber.
func (in *Inbox) PostAnimation(r sway.AnimationResult) {
	in.Post(func() {
		if cb := in.animationHandler(); cb != nil {
			cb(r)
		}
	})
}

func (in *Inbox) valueHandler() func(sway.ValueResult) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.onValue
}

func (in *Inbox) animationHandler() func(sway.AnimationResult) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.onAnimation
}

// Drain runs every queued callback in posting order and returns how many
// ran. Callbacks posted while draining wait for the next Drain.
func (in *Inbox) Drain() int {
	in.mu.Lock()
	batch := in.pending
	in.pending = nil
	in.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pending)
}
