package sway

import (
	"fmt"
	"log/slog"
)

// Scheduler defers a function to a later turn of the owner's loop. The
// returned cancel func prevents a not-yet-run function from running.
type Scheduler interface {
	Defer(fn func()) (cancel func())
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithBatching selects the flattened encoding: queued operations are handed
// to the executor as one []Instruction per flush. Ignored when the executor
// does not implement BatchExecutor.
func WithBatching() BridgeOption {
	return func(b *Bridge) { b.batching = true }
}

// WithScheduler debounces flushes through s. Without a scheduler every
// requested flush runs immediately.
func WithScheduler(s Scheduler) BridgeOption {
	return func(b *Bridge) { b.sched = s }
}

// WithLogger sets the bridge logger. The default is slog.Default().
func WithLogger(l *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics records queue activity into m.
func WithMetrics(m *Metrics) BridgeOption {
	return func(b *Bridge) { b.metrics = m }
}

// WithResultSource subscribes the bridge to remote results published by src.
func WithResultSource(src ResultSource) BridgeOption {
	return func(b *Bridge) { b.results = src }
}

// Bridge serializes graph and animation commands toward a remote executor,
// batches them, and routes asynchronous results back by correlation id.
//
// A Bridge is owned by a single goroutine and takes no locks. Executors and
// result sources that live elsewhere must hand results back on that
// goroutine (see the remote package's Inbox).
type Bridge struct {
	exec    Executor
	batch   BatchExecutor // non-nil in flattened mode
	sched   Scheduler
	results ResultSource
	logger  *slog.Logger
	metrics *Metrics

	batching bool
	queueing bool
	flushing bool
	waiters  map[int]struct{}

	queue        []func()      // closure-queue mode
	instructions []Instruction // flattened mode
	cancelFlush  func()

	nextTag         int
	nextAnimationID int

	pendingValues     map[int][]func(float64)
	pendingAnimations map[int]func(AnimationResult)

	styleProps          allowList
	transformProps      allowList
	interpolationParams allowList

	warnedUnavailable bool
}

// NewBridge creates a bridge in front of exec. A nil exec yields a bridge
// whose operations all fail with ErrRemoteExecutorUnavailable, which is what
// a purely local Graph uses.
func NewBridge(exec Executor, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		exec:                exec,
		logger:              slog.Default(),
		waiters:             make(map[int]struct{}),
		nextTag:             1,
		nextAnimationID:     1,
		pendingValues:       make(map[int][]func(float64)),
		pendingAnimations:   make(map[int]func(AnimationResult)),
		styleProps:          newAllowList(defaultStyleProps),
		transformProps:      newAllowList(defaultTransformProps),
		interpolationParams: newAllowList(defaultInterpolationParams),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.batching && exec != nil {
		if be, ok := exec.(BatchExecutor); ok {
			b.batch = be
		} else {
			b.logger.Debug("sway: executor does not accept batches, using closure queue")
		}
	}
	if b.results != nil {
		b.results.SubscribeResults(b.HandleValueResult, b.HandleAnimationResult)
	}
	return b
}

// Available reports whether the bridge has an executor.
func (b *Bridge) Available() bool {
	return b.exec != nil
}

// Batched reports whether the bridge uses the flattened encoding.
func (b *Bridge) Batched() bool {
	return b.batch != nil
}

// Pending returns the number of queued operations.
func (b *Bridge) Pending() int {
	if b.batch != nil {
		return len(b.instructions)
	}
	return len(b.queue)
}

// Queueing reports whether at least one waiter holds the queue.
func (b *Bridge) Queueing() bool {
	return b.queueing
}

// newTag returns the next node tag. Tags start at 1 so 0 means "unmirrored".
func (b *Bridge) newTag() int {
	t := b.nextTag
	b.nextTag++
	return t
}

// newAnimationID returns the next animation id, starting at 1.
func (b *Bridge) newAnimationID() int {
	id := b.nextAnimationID
	b.nextAnimationID++
	return id
}

// BeginWaitingFor holds the queue until EndWaitingFor is called for every
// id passed here. A pending debounced flush is cancelled.
func (b *Bridge) BeginWaitingFor(id int) {
	b.waiters[id] = struct{}{}
	b.queueing = true
	b.cancelScheduled()
}

// EndWaitingFor releases the hold for id. Once no waiters remain the queue
// is flushed, debounced when a scheduler is set.
func (b *Bridge) EndWaitingFor(id int) {
	delete(b.waiters, id)
	if len(b.waiters) == 0 {
		b.queueing = false
		b.scheduleFlush()
	}
}

// Flush executes every queued operation as one batch. Operations enqueued
// while the batch runs are left for the next flush.
func (b *Bridge) Flush() {
	if b.flushing || b.Pending() == 0 {
		return
	}
	b.cancelScheduled()

	var n int
	b.run(func() {
		if b.batch != nil {
			batch := b.instructions
			b.instructions = nil
			n = len(batch)
			b.batch.ExecuteBatch(batch)
			return
		}
		queue := b.queue
		b.queue = nil
		n = len(queue)
		for _, call := range queue {
			call()
		}
	})
	b.metrics.flushed(n)
	b.logger.Debug("sway: flushed operations", "ops", n, "batched", b.batch != nil)
}

// run executes fn with the flushing flag raised, then schedules a follow-up
// flush for anything fn caused to be queued.
func (b *Bridge) run(fn func()) {
	b.flushing = true
	fn()
	b.flushing = false
	if b.Pending() > 0 && !b.queueing {
		b.scheduleFlush()
	}
}

func (b *Bridge) scheduleFlush() {
	if b.sched == nil {
		b.Flush()
		return
	}
	b.cancelScheduled()
	b.cancelFlush = b.sched.Defer(func() {
		b.cancelFlush = nil
		b.Flush()
	})
}

func (b *Bridge) cancelScheduled() {
	if b.cancelFlush != nil {
		b.cancelFlush()
		b.cancelFlush = nil
	}
}

// enqueue runs or queues one operation. ins is used in flattened mode, call
// in closure-queue mode.
func (b *Bridge) enqueue(ins Instruction, call func()) error {
	if b.exec == nil {
		return b.unavailable(ins.Op.String())
	}
	b.metrics.operation(ins.Op)

	hold := b.queueing || b.flushing || b.Pending() > 0
	if b.batch != nil {
		if hold {
			b.instructions = append(b.instructions, ins)
			return nil
		}
		b.run(func() { b.batch.ExecuteBatch([]Instruction{ins}) })
		return nil
	}
	if hold {
		b.queue = append(b.queue, call)
		return nil
	}
	b.run(call)
	return nil
}

// unavailable logs the missing executor once and returns the error for what.
func (b *Bridge) unavailable(what string) error {
	if !b.warnedUnavailable {
		b.warnedUnavailable = true
		b.logger.Warn("sway: remote executor unavailable; remote operations will fail", "op", what)
	}
	return fmt.Errorf("sway: %s: %w", what, ErrRemoteExecutorUnavailable)
}

// HandleValueResult resolves the getValue callbacks registered for r.Tag.
// Results nobody waits for are dropped.
func (b *Bridge) HandleValueResult(r ValueResult) {
	cbs, ok := b.pendingValues[r.Tag]
	if !ok {
		b.orphaned("value", r.Tag)
		return
	}
	delete(b.pendingValues, r.Tag)
	for _, cb := range cbs {
		cb(r.Value)
	}
}

// HandleAnimationResult resolves the completion callback registered for
// r.AnimationID. Results nobody waits for are dropped.
func (b *Bridge) HandleAnimationResult(r AnimationResult) {
	cb, ok := b.pendingAnimations[r.AnimationID]
	if !ok {
		b.orphaned("animation", r.AnimationID)
		return
	}
	delete(b.pendingAnimations, r.AnimationID)
	cb(r)
}

func (b *Bridge) orphaned(kind string, id int) {
	b.metrics.orphan(kind)
	b.logger.Debug("sway: dropped remote result with no pending callback", "kind", kind, "id", id)
}
