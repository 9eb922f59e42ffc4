package sway

import (
	"bytes"
	"log/slog"
)

// fakeExecutor records every operation it receives, one Instruction per
// call, in both encodings. It never answers on its own; tests resolve
// callbacks through done and values.
type fakeExecutor struct {
	calls   []Instruction
	batches [][]Instruction

	done   map[int]func(AnimationResult)
	values map[int][]func(float64)

	// onCall, if set, runs after each recorded operation.
	onCall func(Instruction)
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		done:   make(map[int]func(AnimationResult)),
		values: make(map[int][]func(float64)),
	}
}

func (f *fakeExecutor) record(ins Instruction) {
	f.calls = append(f.calls, ins)
	if f.onCall != nil {
		f.onCall(ins)
	}
}

func (f *fakeExecutor) ExecuteBatch(batch []Instruction) {
	f.batches = append(f.batches, batch)
	for _, ins := range batch {
		f.record(ins)
	}
}

func (f *fakeExecutor) CreateNode(tag int, config map[string]any) {
	f.record(Instruction{Op: OpCreateNode, Tag: tag, Config: config})
}

func (f *fakeExecutor) ConnectNodes(parent, child int) {
	f.record(Instruction{Op: OpConnectNodes, Tag: parent, Other: child})
}

func (f *fakeExecutor) DisconnectNodes(parent, child int) {
	f.record(Instruction{Op: OpDisconnectNodes, Tag: parent, Other: child})
}

func (f *fakeExecutor) StartAnimating(animationID, tag int, config map[string]any, done func(AnimationResult)) {
	f.done[animationID] = done
	f.record(Instruction{Op: OpStartAnimating, AnimationID: animationID, Tag: tag, Config: config})
}

func (f *fakeExecutor) StopAnimation(animationID int) {
	f.record(Instruction{Op: OpStopAnimation, AnimationID: animationID})
}

func (f *fakeExecutor) SetValue(tag int, v float64) {
	f.record(Instruction{Op: OpSetValue, Tag: tag, Value: v})
}

func (f *fakeExecutor) SetOffset(tag int, v float64) {
	f.record(Instruction{Op: OpSetOffset, Tag: tag, Value: v})
}

func (f *fakeExecutor) FlattenOffset(tag int) {
	f.record(Instruction{Op: OpFlattenOffset, Tag: tag})
}

func (f *fakeExecutor) ExtractOffset(tag int) {
	f.record(Instruction{Op: OpExtractOffset, Tag: tag})
}

func (f *fakeExecutor) ConnectToTarget(tag, target int) {
	f.record(Instruction{Op: OpConnectToTarget, Tag: tag, Other: target})
}

func (f *fakeExecutor) DisconnectFromTarget(tag, target int) {
	f.record(Instruction{Op: OpDisconnectFromTarget, Tag: tag, Other: target})
}

func (f *fakeExecutor) RestoreDefaults(tag int) {
	f.record(Instruction{Op: OpRestoreDefaults, Tag: tag})
}

func (f *fakeExecutor) DropNode(tag int) {
	f.record(Instruction{Op: OpDropNode, Tag: tag})
}

func (f *fakeExecutor) AddEventMapping(target int, event string, path []string, tag int) {
	f.record(Instruction{Op: OpAddEventMapping, Other: target, Event: event, Path: path, Tag: tag})
}

func (f *fakeExecutor) RemoveEventMapping(target int, event string, tag int) {
	f.record(Instruction{Op: OpRemoveEventMapping, Other: target, Event: event, Tag: tag})
}

func (f *fakeExecutor) GetValue(tag int, cb func(float64)) {
	f.values[tag] = append(f.values[tag], cb)
	f.record(Instruction{Op: OpGetValue, Tag: tag})
}

// ops returns the recorded op codes in order.
func (f *fakeExecutor) ops() []OpCode {
	out := make([]OpCode, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Op
	}
	return out
}

// count returns how many recorded operations used op.
func (f *fakeExecutor) count(op OpCode) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// closureOnly hides ExecuteBatch so the bridge cannot use batches.
type closureOnly struct {
	Executor
}

// manualScheduler runs deferred functions when the test says so.
type manualScheduler struct {
	pending []*scheduled
}

type scheduled struct {
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Defer(fn func()) func() {
	d := &scheduled{fn: fn}
	s.pending = append(s.pending, d)
	return func() { d.cancelled = true }
}

// live returns the number of deferred functions not yet cancelled.
func (s *manualScheduler) live() int {
	n := 0
	for _, d := range s.pending {
		if !d.cancelled {
			n++
		}
	}
	return n
}

func (s *manualScheduler) run() {
	list := s.pending
	s.pending = nil
	for _, d := range list {
		if !d.cancelled {
			d.fn()
		}
	}
}

// spyHandle is a Handle that records its lifecycle into a shared log.
type spyHandle struct {
	name string
	log  *[]string

	starts, stops, resets int
	onComplete            func(Result)

	// auto, if set, completes every Start synchronously with it.
	auto   *Result
	remote bool

	remoteLoops []int
}

func newSpy(name string, log *[]string) *spyHandle {
	return &spyHandle{name: name, log: log}
}

func autoSpy(name string, log *[]string, finished bool) *spyHandle {
	s := newSpy(name, log)
	s.auto = &Result{Finished: finished}
	return s
}

func (s *spyHandle) Start(onComplete func(Result)) {
	s.starts++
	*s.log = append(*s.log, "start "+s.name)
	s.onComplete = onComplete
	if s.auto != nil {
		s.finish(*s.auto)
	}
}

func (s *spyHandle) finish(r Result) {
	cb := s.onComplete
	s.onComplete = nil
	complete(cb, r)
}

func (s *spyHandle) running() bool {
	return s.onComplete != nil
}

func (s *spyHandle) Stop() {
	s.stops++
	*s.log = append(*s.log, "stop "+s.name)
	if s.onComplete != nil {
		s.finish(Result{Finished: false})
	}
}

func (s *spyHandle) Reset() {
	s.resets++
	*s.log = append(*s.log, "reset "+s.name)
}

func (s *spyHandle) UsesRemoteDriver() bool {
	return s.remote
}

func (s *spyHandle) StartRemoteLoop(iterations int, onComplete func(Result)) error {
	if !s.remote {
		complete(onComplete, Result{})
		return ErrUnsupportedComposition
	}
	s.remoteLoops = append(s.remoteLoops, iterations)
	s.onComplete = onComplete
	return nil
}

// resultRecorder collects completion payloads.
type resultRecorder struct {
	results []Result
}

func (r *resultRecorder) done(res Result) {
	r.results = append(r.results, res)
}

// bufferLogger returns a debug-level text logger writing into buf.
func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// remoteGraph returns a graph whose bridge talks to a fresh fakeExecutor.
func remoteGraph(opts ...BridgeOption) (*Graph, *fakeExecutor) {
	exec := newFakeExecutor()
	return NewGraph(NewBridge(exec, opts...), nil), exec
}
