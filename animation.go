package sway

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animation is a driver strategy that mutates one value node over time.
// Concrete curves live behind this interface; Timing is the built-in one.
type Animation interface {
	// Start drives from the given value, reporting each new value through
	// onUpdate and calling onEnd exactly once.
	Start(from float64, onUpdate func(float64), onEnd func(Result))
	// Stop ends a running animation with Finished false.
	Stop()
	// UsesRemoteDriver reports whether the animation must run on the remote
	// executor instead of calling Start.
	UsesRemoteDriver() bool
	// RemoteConfig describes the animation for startAnimating. iterations is
	// 1 for a single run and -1 for an unbounded loop.
	RemoteConfig(iterations int) map[string]any
}

// TimingConfig configures a timing animation.
type TimingConfig struct {
	ToValue  float64
	Duration time.Duration
	Delay    time.Duration
	// Easing names a curve registered in this package; empty means
	// DefaultEasing.
	Easing          string
	UseRemoteDriver bool
}

// timing tweens a value with gween. It is advanced by a Clock. A zero
// duration with no delay completes synchronously in Start.
type timing struct {
	cfg   TimingConfig
	clock *Clock
	ease  ease.TweenFunc

	tween    *gween.Tween
	wait     float32 // seconds of delay left
	onUpdate func(float64)
	onEnd    func(Result)
	cancel   func()
	running  bool
}

// NewTiming creates a timing animation advanced by clock.
func NewTiming(clock *Clock, cfg TimingConfig) Animation {
	fn, ok := Easing(cfg.Easing)
	if !ok {
		fn = ease.Linear
	}
	return &timing{cfg: cfg, clock: clock, ease: fn}
}

func (t *timing) Start(from float64, onUpdate func(float64), onEnd func(Result)) {
	t.onUpdate = onUpdate
	t.onEnd = onEnd
	if t.cfg.Duration <= 0 && t.cfg.Delay <= 0 {
		onUpdate(t.cfg.ToValue)
		t.onEnd = nil
		complete(onEnd, Result{Finished: true})
		return
	}
	t.tween = gween.New(float32(from), float32(t.cfg.ToValue), float32(t.cfg.Duration.Seconds()), t.ease)
	t.wait = float32(t.cfg.Delay.Seconds())
	t.running = true
	t.cancel = t.clock.onFrame(t.step)
}

func (t *timing) step(dt float32) bool {
	if !t.running {
		return true
	}
	if t.wait > 0 {
		t.wait -= dt
		if t.wait > 0 {
			return false
		}
		dt = -t.wait
		t.wait = 0
	}
	if t.cfg.Duration <= 0 {
		t.onUpdate(t.cfg.ToValue)
		t.finish(Result{Finished: true})
		return true
	}
	v, done := t.tween.Update(dt)
	if done {
		t.onUpdate(t.cfg.ToValue)
		t.finish(Result{Finished: true})
		return true
	}
	t.onUpdate(float64(v))
	return false
}

func (t *timing) finish(r Result) {
	t.running = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	onEnd := t.onEnd
	t.onEnd = nil
	complete(onEnd, r)
}

func (t *timing) Stop() {
	if !t.running {
		return
	}
	t.finish(Result{Finished: false})
}

func (t *timing) UsesRemoteDriver() bool {
	return t.cfg.UseRemoteDriver
}

func (t *timing) RemoteConfig(iterations int) map[string]any {
	easing := t.cfg.Easing
	if easing == "" {
		easing = DefaultEasing
	}
	return map[string]any{
		"type":       "timing",
		"toValue":    t.cfg.ToValue,
		"duration":   float64(t.cfg.Duration) / float64(time.Millisecond),
		"delay":      float64(t.cfg.Delay) / float64(time.Millisecond),
		"easing":     easing,
		"iterations": iterations,
	}
}

// driverHandle adapts a single Animation on a node to the Handle contract.
type driverHandle struct {
	node *Node
	anim Animation
}

// Drive wraps a custom driver so it composes with the combinators.
func Drive(value *Node, anim Animation) Handle {
	return &driverHandle{node: value, anim: anim}
}

// Timing returns a handle tweening value toward cfg.ToValue.
func (g *Graph) Timing(value *Node, cfg TimingConfig) Handle {
	return Drive(value, NewTiming(g.clock, cfg))
}

// Delay returns a handle that finishes after d. It is a zero-distance timing
// animation on a private value, so it composes like any other driver.
func (g *Graph) Delay(d time.Duration) Handle {
	return g.Timing(g.Value(0), TimingConfig{Delay: d})
}

func (h *driverHandle) Start(onComplete func(Result)) {
	if err := h.node.Animate(h.anim, onComplete); err != nil {
		h.node.graph.logger().Error("sway: start animation", "err", err)
	}
}

func (h *driverHandle) Stop() {
	h.node.StopAnimation()
}

func (h *driverHandle) Reset() {
	h.node.ResetAnimation()
}

func (h *driverHandle) UsesRemoteDriver() bool {
	return h.anim.UsesRemoteDriver()
}

func (h *driverHandle) StartRemoteLoop(iterations int, onComplete func(Result)) error {
	if !h.anim.UsesRemoteDriver() {
		complete(onComplete, Result{})
		return ErrUnsupportedComposition
	}
	err := h.node.animate(h.anim, iterations, onComplete)
	if err != nil {
		h.node.graph.logger().Error("sway: start remote loop", "err", err)
	}
	return err
}
