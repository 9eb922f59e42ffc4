package sway

import "time"

// --- Sequence ---

type sequence struct {
	list    []Handle
	current int
}

// Sequence runs handles one after another. A child that does not finish
// ends the whole sequence with Finished false. Stop stops only the running
// child; a later Start resumes from it. An empty sequence finishes
// synchronously.
func Sequence(list ...Handle) Handle {
	return &sequence{list: list}
}

func (s *sequence) Start(onComplete func(Result)) {
	if s.current >= len(s.list) {
		complete(onComplete, Result{Finished: true})
		return
	}
	var next func(Result)
	next = func(r Result) {
		if !r.Finished {
			complete(onComplete, r)
			return
		}
		s.current++
		if s.current >= len(s.list) {
			complete(onComplete, r)
			return
		}
		startChild(s.list[s.current], next)
	}
	startChild(s.list[s.current], next)
}

func (s *sequence) Stop() {
	if s.current < len(s.list) && s.list[s.current] != nil {
		s.list[s.current].Stop()
	}
}

func (s *sequence) Reset() {
	for i, h := range s.list {
		if i <= s.current && h != nil {
			h.Reset()
		}
	}
	s.current = 0
}

func (s *sequence) UsesRemoteDriver() bool {
	return false
}

func (s *sequence) StartRemoteLoop(_ int, onComplete func(Result)) error {
	complete(onComplete, Result{})
	return ErrUnsupportedComposition
}

// startChild starts h, treating a nil entry as already finished.
func startChild(h Handle, onComplete func(Result)) {
	if h == nil {
		complete(onComplete, Result{Finished: true})
		return
	}
	h.Start(onComplete)
}

// --- Parallel ---

// ParallelOption configures Parallel.
type ParallelOption func(*parallel)

// StopTogether controls whether a child that does not finish stops its
// still-running siblings. The default is true.
func StopTogether(v bool) ParallelOption {
	return func(p *parallel) { p.stopTogether = v }
}

type parallel struct {
	list         []Handle
	stopTogether bool

	onComplete func(Result)
	running    bool
	started    []bool
	ended      []bool // stopped or settled
	settled    []bool // completion received
	done       int
	failed     bool
}

// Parallel starts every handle at once and completes when all of them have
// ended. nil entries count as finished. Starting a group that already
// completed, without Reset, completes again immediately without touching
// the children.
func Parallel(list []Handle, opts ...ParallelOption) Handle {
	p := &parallel{
		list:         list,
		stopTogether: true,
		started:      make([]bool, len(list)),
		ended:        make([]bool, len(list)),
		settled:      make([]bool, len(list)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parallel) Start(onComplete func(Result)) {
	if p.done == len(p.list) {
		complete(onComplete, Result{Finished: true})
		return
	}
	p.onComplete = onComplete
	p.running = true
	for i, h := range p.list {
		if p.ended[i] {
			continue
		}
		idx := i
		p.started[idx] = true
		startChild(h, func(r Result) { p.settle(idx, r.Finished) })
	}
}

func (p *parallel) settle(i int, finished bool) {
	if p.settled[i] {
		return
	}
	p.settled[i] = true
	p.ended[i] = true
	p.done++
	if !finished {
		p.failed = true
	}
	if p.done == len(p.list) {
		cb := p.onComplete
		p.onComplete = nil
		p.running = false
		complete(cb, Result{Finished: !p.failed})
		return
	}
	if !finished && p.stopTogether {
		p.Stop()
	}
}

func (p *parallel) Stop() {
	if !p.running {
		return
	}
	for i, h := range p.list {
		if p.ended[i] {
			continue
		}
		p.ended[i] = true
		if h == nil || !p.started[i] {
			p.settle(i, false)
			continue
		}
		h.Stop()
	}
}

func (p *parallel) Reset() {
	for i, h := range p.list {
		if h != nil {
			h.Reset()
		}
		p.started[i] = false
		p.ended[i] = false
		p.settled[i] = false
	}
	p.onComplete = nil
	p.running = false
	p.done = 0
	p.failed = false
}

func (p *parallel) UsesRemoteDriver() bool {
	return false
}

func (p *parallel) StartRemoteLoop(_ int, onComplete func(Result)) error {
	complete(onComplete, Result{})
	return ErrUnsupportedComposition
}

// --- Stagger ---

// Stagger starts handle i after i*d. Each element is a Sequence of a Delay
// and the handle, run in Parallel without StopTogether so a failing early
// element does not tear down later ones.
func (g *Graph) Stagger(d time.Duration, list []Handle) Handle {
	wrapped := make([]Handle, len(list))
	for i, h := range list {
		if h == nil {
			continue
		}
		wrapped[i] = Sequence(g.Delay(d*time.Duration(i)), h)
	}
	return Parallel(wrapped, StopTogether(false))
}

// --- Loop ---

// LoopOption configures Loop.
type LoopOption func(*loop)

// Iterations sets how many times the loop runs its child. -1, the default,
// loops until stopped.
func Iterations(n int) LoopOption {
	return func(l *loop) { l.iterations = n }
}

// ResetBeforeIteration controls whether the child is reset before each
// iteration. The default is true.
func ResetBeforeIteration(v bool) LoopOption {
	return func(l *loop) { l.resetBeforeIteration = v }
}

type loop struct {
	anim                 Handle
	iterations           int
	resetBeforeIteration bool

	stopped bool
	count   int
}

// Loop repeats h. When h runs on the remote driver the whole loop is handed
// to the remote executor; otherwise iterations are driven here. A child that
// does not finish ends the loop.
func Loop(h Handle, opts ...LoopOption) Handle {
	l := &loop{anim: h, iterations: -1, resetBeforeIteration: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *loop) Start(onComplete func(Result)) {
	if l.anim == nil || l.iterations == 0 {
		complete(onComplete, Result{Finished: true})
		return
	}
	if l.anim.UsesRemoteDriver() {
		// Failures are reported through onComplete.
		_ = l.anim.StartRemoteLoop(l.iterations, onComplete)
		return
	}
	var restart func(Result)
	restart = func(r Result) {
		if l.stopped || l.count == l.iterations || !r.Finished {
			complete(onComplete, r)
			return
		}
		l.count++
		if l.resetBeforeIteration {
			l.anim.Reset()
		}
		l.anim.Start(restart)
	}
	restart(Result{Finished: true})
}

func (l *loop) Stop() {
	l.stopped = true
	if l.anim != nil {
		l.anim.Stop()
	}
}

func (l *loop) Reset() {
	l.count = 0
	l.stopped = false
	if l.anim != nil {
		l.anim.Reset()
	}
}

func (l *loop) UsesRemoteDriver() bool {
	return l.anim != nil && l.anim.UsesRemoteDriver()
}

func (l *loop) StartRemoteLoop(_ int, onComplete func(Result)) error {
	complete(onComplete, Result{})
	return ErrUnsupportedComposition
}
