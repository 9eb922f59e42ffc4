package remote

import (
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/sway"
)

// animation is a timing animation running on the executor.
type animation struct {
	id  int
	tag int

	from, to float64
	duration float32 // seconds
	delay    float32 // seconds
	easing   ease.TweenFunc

	iterations int // -1 loops forever
	completed  int

	tween *gween.Tween
	wait  float32

	done     func(sway.AnimationResult) // nil: report through the inbox subscriber
	tracking int                        // tracking node tag, 0 for plain animations
}

func (e *Executor) startAnimating(id, tag int, cfg map[string]any, done func(sway.AnimationResult)) {
	e.startAnimation(id, tag, cfg, done, 0)
}

func (e *Executor) startAnimation(id, tag int, cfg map[string]any, done func(sway.AnimationResult), tracking int) {
	n, ok := e.node(tag, "startAnimating")
	if !ok || n.kind != "value" {
		e.report(&animation{id: id, done: done, tracking: tracking}, false, 0, false)
		return
	}
	var c timingAnimationConfig
	if err := sway.DecodeConfig(cfg, &c); err != nil || c.Type != "timing" {
		e.logger.Error("remote: unsupported animation", "animation", id, "type", c.Type, "error", err)
		e.report(&animation{id: id, done: done, tracking: tracking}, false, 0, false)
		return
	}
	e.stopAnimationsFor(tag)
	if old, ok := e.animations[id]; ok {
		e.stopAnimation(old.id)
	}

	iterations := 1
	if c.Iterations != nil {
		iterations = *c.Iterations
	}
	fn, ok := sway.Easing(c.Easing)
	if !ok {
		fn = ease.Linear
	}

	a := &animation{
		id:         id,
		tag:        tag,
		from:       n.value,
		to:         c.ToValue,
		duration:   float32(c.Duration / 1000),
		delay:      float32(c.Delay / 1000),
		easing:     fn,
		iterations: iterations,
		done:       done,
		tracking:   tracking,
	}
	if iterations == 0 {
		e.report(a, true, n.value, true)
		return
	}
	a.restart()
	e.animations[id] = a
}

func (a *animation) restart() {
	a.tween = gween.New(float32(a.from), float32(a.to), a.duration, a.easing)
	a.wait = a.delay
}

// step advances a by dt, looping or finishing it as configured.
func (e *Executor) step(a *animation, dt float32) {
	n, ok := e.nodes[a.tag]
	if !ok {
		delete(e.animations, a.id)
		return
	}
	if a.wait > 0 {
		a.wait -= dt
		if a.wait > 0 {
			return
		}
		dt = -a.wait
		a.wait = 0
	}
	var finished bool
	if a.duration <= 0 {
		n.value = a.to
		finished = true
	} else {
		v, done := a.tween.Update(dt)
		n.value = float64(v)
		if done {
			n.value = a.to
			finished = true
		}
	}
	e.dirty = true
	if !finished {
		return
	}
	a.completed++
	if a.iterations < 0 || a.completed < a.iterations {
		n.value = a.from
		a.restart()
		return
	}
	delete(e.animations, a.id)
	e.report(a, true, n.value, true)
}

func (e *Executor) stopAnimation(id int) {
	a, ok := e.animations[id]
	if !ok {
		return
	}
	delete(e.animations, id)
	var v float64
	if n, ok := e.nodes[a.tag]; ok {
		v = n.value
	}
	e.report(a, false, v, true)
}

// stopAnimationsFor stops every animation driving tag.
func (e *Executor) stopAnimationsFor(tag int) {
	for _, a := range e.sortedAnimations() {
		if a.tag == tag {
			e.stopAnimation(a.id)
		}
	}
}

// report posts the end of a. Tracking animations are internal and report
// nothing.
func (e *Executor) report(a *animation, finished bool, value float64, hasValue bool) {
	if a.tracking != 0 {
		return
	}
	r := sway.AnimationResult{AnimationID: a.id, Finished: finished, Value: value, HasValue: hasValue}
	if a.done != nil {
		done := a.done
		e.inbox.Post(func() { done(r) })
		return
	}
	e.inbox.PostAnimation(r)
}

func (e *Executor) sortedAnimations() []*animation {
	list := make([]*animation, 0, len(e.animations))
	for _, a := range e.animations {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}
