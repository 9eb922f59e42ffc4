// Package remote provides an in-process remote executor for sway graphs.
//
// Executor keeps its own table of mirrored nodes and runs timing animations
// with gween on whatever goroutine calls Tick, typically its own via Run.
// Results are posted into an Inbox and reach the Bridge when the owner of
// the Bridge calls Inbox.Drain.
package remote

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phanxgames/sway"
)

// TargetSink receives the props a connected props node writes to its
// target. A nil props map asks the target to restore its defaults.
type TargetSink func(target int, props map[string]any)

// Option configures an Executor.
type Option func(*Executor)

// WithTargetSink sets where evaluated props are written.
func WithTargetSink(fn TargetSink) Option {
	return func(e *Executor) { e.sink = fn }
}

// WithLogger sets the executor logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

type eventKey struct {
	target int
	name   string
}

type eventMapping struct {
	path []string
	tag  int
}

type targetWrite struct {
	target int
	props  map[string]any
}

// Executor implements sway.Executor and sway.BatchExecutor.
type Executor struct {
	mu     sync.Mutex
	inbox  *Inbox
	logger *slog.Logger
	sink   TargetSink

	nodes      map[int]*node
	animations map[int]*animation
	events     map[eventKey][]eventMapping

	dirty  bool
	writes []targetWrite
}

var (
	_ sway.Executor      = (*Executor)(nil)
	_ sway.BatchExecutor = (*Executor)(nil)
)

// NewExecutor creates an executor that reports results into inbox.
func NewExecutor(inbox *Inbox, opts ...Option) *Executor {
	e := &Executor{
		inbox:      inbox,
		logger:     slog.Default(),
		nodes:      make(map[int]*node),
		animations: make(map[int]*animation),
		events:     make(map[eventKey][]eventMapping),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inbox returns the inbox results are posted to.
func (e *Executor) Inbox() *Inbox {
	return e.inbox
}

// ExecuteBatch runs a flattened batch in order. getValue and startAnimating
// answer through the inbox's subscriber.
func (e *Executor) ExecuteBatch(batch []sway.Instruction) {
	e.mu.Lock()
	for _, ins := range batch {
		e.execute(ins)
	}
	writes := e.takeWrites()
	e.mu.Unlock()
	e.deliver(writes)
}

func (e *Executor) execute(ins sway.Instruction) {
	switch ins.Op {
	case sway.OpCreateNode:
		e.createNode(ins.Tag, ins.Config)
	case sway.OpConnectNodes:
		e.connectNodes(ins.Tag, ins.Other)
	case sway.OpDisconnectNodes:
		e.disconnectNodes(ins.Tag, ins.Other)
	case sway.OpStartAnimating:
		e.startAnimating(ins.AnimationID, ins.Tag, ins.Config, nil)
	case sway.OpStopAnimation:
		e.stopAnimation(ins.AnimationID)
	case sway.OpSetValue:
		e.setValue(ins.Tag, ins.Value)
	case sway.OpSetOffset:
		e.setOffset(ins.Tag, ins.Value)
	case sway.OpFlattenOffset:
		e.flattenOffset(ins.Tag)
	case sway.OpExtractOffset:
		e.extractOffset(ins.Tag)
	case sway.OpConnectToTarget:
		e.connectToTarget(ins.Tag, ins.Other)
	case sway.OpDisconnectFromTarget:
		e.disconnectFromTarget(ins.Tag, ins.Other)
	case sway.OpRestoreDefaults:
		e.restoreDefaults(ins.Tag)
	case sway.OpDropNode:
		e.dropNode(ins.Tag)
	case sway.OpAddEventMapping:
		e.addEventMapping(ins.Other, ins.Event, ins.Path, ins.Tag)
	case sway.OpRemoveEventMapping:
		e.removeEventMapping(ins.Other, ins.Event, ins.Tag)
	case sway.OpGetValue:
		e.getValue(ins.Tag, nil)
	default:
		e.logger.Warn("remote: unknown instruction", "op", ins.Op.String())
	}
}

// locked runs fn under the lock and delivers any target writes after.
func (e *Executor) locked(fn func()) {
	e.mu.Lock()
	fn()
	writes := e.takeWrites()
	e.mu.Unlock()
	e.deliver(writes)
}

func (e *Executor) CreateNode(tag int, config map[string]any) {
	e.locked(func() { e.createNode(tag, config) })
}

func (e *Executor) ConnectNodes(parent, child int) {
	e.locked(func() { e.connectNodes(parent, child) })
}

func (e *Executor) DisconnectNodes(parent, child int) {
	e.locked(func() { e.disconnectNodes(parent, child) })
}

func (e *Executor) StartAnimating(animationID, tag int, config map[string]any, done func(sway.AnimationResult)) {
	e.locked(func() { e.startAnimating(animationID, tag, config, done) })
}

func (e *Executor) StopAnimation(animationID int) {
	e.locked(func() { e.stopAnimation(animationID) })
}

func (e *Executor) SetValue(tag int, value float64) {
	e.locked(func() { e.setValue(tag, value) })
}

func (e *Executor) SetOffset(tag int, offset float64) {
	e.locked(func() { e.setOffset(tag, offset) })
}

func (e *Executor) FlattenOffset(tag int) {
	e.locked(func() { e.flattenOffset(tag) })
}

func (e *Executor) ExtractOffset(tag int) {
	e.locked(func() { e.extractOffset(tag) })
}

func (e *Executor) ConnectToTarget(tag, target int) {
	e.locked(func() { e.connectToTarget(tag, target) })
}

func (e *Executor) DisconnectFromTarget(tag, target int) {
	e.locked(func() { e.disconnectFromTarget(tag, target) })
}

func (e *Executor) RestoreDefaults(tag int) {
	e.locked(func() { e.restoreDefaults(tag) })
}

func (e *Executor) DropNode(tag int) {
	e.locked(func() { e.dropNode(tag) })
}

func (e *Executor) AddEventMapping(target int, event string, path []string, tag int) {
	e.locked(func() { e.addEventMapping(target, event, path, tag) })
}

func (e *Executor) RemoveEventMapping(target int, event string, tag int) {
	e.locked(func() { e.removeEventMapping(target, event, tag) })
}

func (e *Executor) GetValue(tag int, cb func(float64)) {
	e.locked(func() { e.getValue(tag, cb) })
}

func (e *Executor) createNode(tag int, cfg map[string]any) {
	if _, ok := e.nodes[tag]; ok {
		e.logger.Warn("remote: node already exists", "tag", tag)
		return
	}
	n, err := newNode(tag, cfg)
	if err != nil {
		e.logger.Error("remote: create node", "tag", tag, "err", err)
		return
	}
	e.nodes[tag] = n
	e.dirty = true
}

func (e *Executor) node(tag int, op string) (*node, bool) {
	n, ok := e.nodes[tag]
	if !ok {
		e.logger.Warn("remote: unknown node", "op", op, "tag", tag)
	}
	return n, ok
}

func (e *Executor) connectNodes(parent, child int) {
	p, ok := e.node(parent, "connectNodes")
	if !ok {
		return
	}
	if _, ok := e.node(child, "connectNodes"); !ok {
		return
	}
	p.children[child] = struct{}{}
	e.dirty = true
}

func (e *Executor) disconnectNodes(parent, child int) {
	if p, ok := e.node(parent, "disconnectNodes"); ok {
		delete(p.children, child)
	}
}

func (e *Executor) setValue(tag int, v float64) {
	n, ok := e.node(tag, "setValue")
	if !ok || n.kind != "value" {
		return
	}
	e.stopAnimationsFor(tag)
	n.value = v
	e.dirty = true
}

func (e *Executor) setOffset(tag int, v float64) {
	n, ok := e.node(tag, "setOffset")
	if !ok || n.kind != "value" {
		return
	}
	n.offset = v
	e.dirty = true
}

func (e *Executor) flattenOffset(tag int) {
	n, ok := e.node(tag, "flattenOffset")
	if !ok || n.kind != "value" {
		return
	}
	n.value += n.offset
	n.offset = 0
}

func (e *Executor) extractOffset(tag int) {
	n, ok := e.node(tag, "extractOffset")
	if !ok || n.kind != "value" {
		return
	}
	n.offset += n.value
	n.value = 0
}

func (e *Executor) connectToTarget(tag, target int) {
	n, ok := e.node(tag, "connectToTarget")
	if !ok || n.kind != "props" {
		return
	}
	n.target = target
	n.hasTarget = true
	e.writes = append(e.writes, targetWrite{target: target, props: e.props(n)})
}

func (e *Executor) disconnectFromTarget(tag, target int) {
	n, ok := e.node(tag, "disconnectFromTarget")
	if !ok || !n.hasTarget || n.target != target {
		return
	}
	n.hasTarget = false
	n.target = 0
}

func (e *Executor) restoreDefaults(tag int) {
	n, ok := e.node(tag, "restoreDefaults")
	if !ok || !n.hasTarget {
		return
	}
	e.writes = append(e.writes, targetWrite{target: n.target})
}

func (e *Executor) dropNode(tag int) {
	if _, ok := e.node(tag, "dropNode"); !ok {
		return
	}
	e.stopAnimationsFor(tag)
	for _, a := range e.sortedAnimations() {
		if a.tracking == tag {
			delete(e.animations, a.id)
		}
	}
	for _, p := range e.nodes {
		delete(p.children, tag)
	}
	delete(e.nodes, tag)
}

func (e *Executor) addEventMapping(target int, name string, path []string, tag int) {
	if _, ok := e.node(tag, "addEventMapping"); !ok {
		return
	}
	key := eventKey{target: target, name: name}
	e.events[key] = append(e.events[key], eventMapping{path: append([]string(nil), path...), tag: tag})
}

func (e *Executor) removeEventMapping(target int, name string, tag int) {
	key := eventKey{target: target, name: name}
	list := e.events[key]
	for i, m := range list {
		if m.tag == tag {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.events, key)
		return
	}
	e.events[key] = list
}

func (e *Executor) getValue(tag int, cb func(float64)) {
	v := e.eval(tag)
	if cb != nil {
		e.inbox.Post(func() { cb(v) })
		return
	}
	e.inbox.PostValue(sway.ValueResult{Tag: tag, Value: v})
}

// DispatchEvent feeds an event payload to every mapping registered for
// target and name. payload is the object found under sway.EventPayloadKey.
// It reports whether any node was written.
func (e *Executor) DispatchEvent(target int, name string, payload map[string]any) bool {
	var wrote bool
	e.locked(func() {
		for _, m := range e.events[eventKey{target: target, name: name}] {
			v, ok := lookupPath(payload, m.path)
			if !ok {
				continue
			}
			e.setValue(m.tag, v)
			wrote = true
		}
		if wrote {
			e.updateTracking()
			e.pushProps()
		}
	})
	return wrote
}

func lookupPath(payload map[string]any, path []string) (float64, bool) {
	var cur any = payload
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		if cur, ok = m[key]; !ok {
			return 0, false
		}
	}
	return sway.ToFloat(cur)
}

// Value evaluates tag. The second result is false for unknown tags.
func (e *Executor) Value(tag int) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.nodes[tag]; !ok {
		return 0, false
	}
	return e.eval(tag), true
}

// Props evaluates a props node.
func (e *Executor) Props(tag int) (map[string]any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[tag]
	if !ok || n.kind != "props" {
		return nil, false
	}
	return e.props(n), true
}

// Len returns the number of live nodes.
func (e *Executor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.nodes)
}

// Animating returns the number of running animations.
func (e *Executor) Animating() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.animations)
}

// Tick advances every animation by dt seconds, retargets tracking nodes and
// writes props to connected targets.
func (e *Executor) Tick(dt float32) {
	e.locked(func() {
		for _, a := range e.sortedAnimations() {
			if _, live := e.animations[a.id]; !live {
				continue
			}
			e.step(a, dt)
		}
		e.updateTracking()
		e.pushProps()
	})
}

// Run ticks the executor at fps until ctx is done.
func (e *Executor) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			e.Tick(float32(now.Sub(last).Seconds()))
			last = now
		}
	}
}

func (e *Executor) updateTracking() {
	tags := make([]int, 0)
	for tag, n := range e.nodes {
		if n.kind == "tracking" {
			tags = append(tags, tag)
		}
	}
	sort.Ints(tags)
	for _, tag := range tags {
		n := e.nodes[tag]
		to := e.eval(n.trackTo)
		if n.trackPrimed && to == n.trackLast {
			continue
		}
		n.trackPrimed = true
		n.trackLast = to
		cfg := make(map[string]any, len(n.trackConfig))
		for k, v := range n.trackConfig {
			cfg[k] = v
		}
		cfg["toValue"] = to
		if dest, ok := e.nodes[n.trackDest]; ok && dest.kind == "value" {
			e.startAnimation(n.trackAnimID, n.trackDest, cfg, nil, tag)
		}
	}
}

func (e *Executor) pushProps() {
	if !e.dirty && len(e.animations) == 0 {
		return
	}
	e.dirty = false
	tags := make([]int, 0)
	for tag, n := range e.nodes {
		if n.kind == "props" && n.hasTarget {
			tags = append(tags, tag)
		}
	}
	sort.Ints(tags)
	for _, tag := range tags {
		n := e.nodes[tag]
		e.writes = append(e.writes, targetWrite{target: n.target, props: e.props(n)})
	}
}

func (e *Executor) takeWrites() []targetWrite {
	w := e.writes
	e.writes = nil
	return w
}

func (e *Executor) deliver(writes []targetWrite) {
	if e.sink == nil {
		return
	}
	for _, w := range writes {
		e.sink(w.target, w.props)
	}
}
