package sway

// Clock drives calling-side animations. Call Update once per frame with the
// frame delta in seconds, the same way TweenGroups were advanced by hand.
// There is no global clock.
//
// Clock also implements Scheduler: deferred functions run at the start of
// the next Update, which is how a Bridge debounces flushes to one per frame.
type Clock struct {
	frames   []*frameFunc
	deferred []*deferredFunc
	elapsed  float64
}

type frameFunc struct {
	step func(dt float32) bool
	done bool
}

type deferredFunc struct {
	fn   func()
	done bool
}

// NewClock returns an idle clock.
func NewClock() *Clock {
	return &Clock{}
}

// Defer runs fn at the start of the next Update.
func (c *Clock) Defer(fn func()) (cancel func()) {
	d := &deferredFunc{fn: fn}
	c.deferred = append(c.deferred, d)
	return func() { d.done = true }
}

// onFrame registers step to run every Update until it returns true or the
// returned cancel func is called. Steps registered during an Update first
// run on the following one.
func (c *Clock) onFrame(step func(dt float32) bool) (cancel func()) {
	f := &frameFunc{step: step}
	c.frames = append(c.frames, f)
	return func() { f.done = true }
}

// Update runs deferred functions, then advances every registered frame step
// by dt seconds.
func (c *Clock) Update(dt float32) {
	c.elapsed += float64(dt)

	tasks := c.deferred
	c.deferred = nil
	for _, d := range tasks {
		if d.done {
			continue
		}
		d.done = true
		d.fn()
	}

	n := len(c.frames)
	for i := 0; i < n; i++ {
		f := c.frames[i]
		if f.done {
			continue
		}
		if f.step(dt) {
			f.done = true
		}
	}

	live := c.frames[:0]
	for _, f := range c.frames {
		if !f.done {
			live = append(live, f)
		}
	}
	for i := len(live); i < len(c.frames); i++ {
		c.frames[i] = nil
	}
	c.frames = live
}

// Active returns the number of running frame steps.
func (c *Clock) Active() int {
	n := 0
	for _, f := range c.frames {
		if !f.done {
			n++
		}
	}
	return n
}

// Idle reports whether nothing is running or deferred.
func (c *Clock) Idle() bool {
	if c.Active() > 0 {
		return false
	}
	for _, d := range c.deferred {
		if !d.done {
			return false
		}
	}
	return true
}

// Elapsed returns the total seconds passed to Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
