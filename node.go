package sway

import (
	"fmt"
	"math"
)

// Node is a vertex of the animated value graph. A single flat struct is used
// for every NodeKind; fields a kind does not use stay zero. Create nodes
// through a Graph.
type Node struct {
	Kind NodeKind
	Name string

	graph    *Graph
	tag      int  // remote id, 0 until mirrored
	native   bool // mirrored; never reverts
	disposed bool

	parents  []*Node // inputs, in evaluation order
	children []*Node // dependents

	listeners    []valueListener
	nextListener uint32

	// KindValue
	value        float64
	offset       float64
	initial      float64
	animation    Animation
	remoteAnimID int
	tracking     *Node

	// writes counts local writes and animation starts. A remote result
	// from an earlier count carries a stale value.
	writes int

	// KindModulo
	modulus float64

	// KindDiffClamp
	min, max  float64
	clamped   float64
	lastInput float64

	// KindInterpolation
	interp InterpolationConfig

	// KindTracking
	trackDest    *Node
	trackFactory func(toValue float64) Animation
	trackOnEnd   func(Result)
	trackAnimID  int
	trackRemote  bool // factory builds remote animations

	// KindProps
	style     []styleProp
	transform []TransformProp
	onUpdate  func(props map[string]any)
	target    int
	hasTarget bool
}

type valueListener struct {
	id uint32
	fn func(float64)
}

// ListenerHandle removes a registered listener.
type ListenerHandle struct {
	id     uint32
	remove func(id uint32)
}

// Remove unregisters the listener. Removing twice is a no-op.
func (h ListenerHandle) Remove() {
	if h.remove != nil {
		h.remove(h.id)
	}
}

// Tag returns the remote id, or 0 if the node has not been mirrored.
func (n *Node) Tag() int {
	return n.tag
}

// IsNative reports whether the node has been mirrored to the remote executor.
func (n *Node) IsNative() bool {
	return n.native
}

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Parents returns the nodes n reads. The returned slice MUST NOT be mutated.
func (n *Node) Parents() []*Node {
	return n.parents
}

// Children returns the nodes reading n. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// Value evaluates the node. Derived nodes are recomputed from their parents
// on every call. Color, tracking and props nodes evaluate to 0; see
// ColorValue and Props.
func (n *Node) Value() float64 {
	switch n.Kind {
	case KindValue:
		return n.value + n.offset
	case KindAddition:
		return n.parents[0].Value() + n.parents[1].Value()
	case KindSubtraction:
		return n.parents[0].Value() - n.parents[1].Value()
	case KindMultiplication:
		return n.parents[0].Value() * n.parents[1].Value()
	case KindDivision:
		d := n.parents[1].Value()
		if d == 0 {
			return 0
		}
		return n.parents[0].Value() / d
	case KindModulo:
		if n.modulus == 0 {
			return 0
		}
		a := n.parents[0].Value()
		return math.Mod(math.Mod(a, n.modulus)+n.modulus, n.modulus)
	case KindDiffClamp:
		v := n.parents[0].Value()
		diff := v - n.lastInput
		n.lastInput = v
		n.clamped = math.Min(math.Max(n.clamped+diff, n.min), n.max)
		return n.clamped
	case KindInterpolation:
		return n.interp.Map(n.parents[0].Value())
	case KindColor, KindTracking, KindProps:
		return 0
	}
	return 0
}

// BaseValue returns a value node's value without its offset.
func (n *Node) BaseValue() float64 {
	return n.value
}

// Offset returns a value node's offset.
func (n *Node) Offset() float64 {
	return n.offset
}

// ColorValue evaluates a color node.
func (n *Node) ColorValue() Color {
	if n.Kind != KindColor {
		return Color{}
	}
	return Color{
		R: n.parents[0].Value(),
		G: n.parents[1].Value(),
		B: n.parents[2].Value(),
		A: n.parents[3].Value(),
	}
}

// SetColor writes the four channel values of a color node.
func (n *Node) SetColor(c Color) error {
	if n.Kind != KindColor {
		return fmt.Errorf("sway: SetColor on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	for i, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if err := n.parents[i].SetValue(v); err != nil {
			return err
		}
	}
	return nil
}

// SetValue writes a value node. It stops a running local animation. Writing a
// node that a remote animation or remote tracking currently drives fails
// with ErrInvalidOperation; call StopAnimation first.
func (n *Node) SetValue(v float64) error {
	if n.Kind != KindValue {
		return fmt.Errorf("sway: SetValue on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	if n.remoteDriven() {
		return fmt.Errorf("sway: SetValue on node %d driven by the remote executor: %w", n.tag, ErrInvalidOperation)
	}
	if a := n.animation; a != nil {
		n.animation = nil
		a.Stop()
	}
	n.writes++
	n.updateValue(v)
	if n.native {
		return n.graph.bridge.SetValue(n.tag, v)
	}
	return nil
}

// SetOffset replaces a value node's offset.
func (n *Node) SetOffset(offset float64) error {
	if n.Kind != KindValue {
		return fmt.Errorf("sway: SetOffset on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	n.offset = offset
	n.flush()
	if n.native {
		return n.graph.bridge.SetOffset(n.tag, offset)
	}
	return nil
}

// FlattenOffset merges the offset into the value and zeroes the offset.
func (n *Node) FlattenOffset() error {
	if n.Kind != KindValue {
		return fmt.Errorf("sway: FlattenOffset on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	n.value += n.offset
	n.offset = 0
	if n.native {
		return n.graph.bridge.FlattenOffset(n.tag)
	}
	return nil
}

// ExtractOffset moves the value into the offset and zeroes the value, so a
// remote animation running from zero lands on the preserved baseline.
func (n *Node) ExtractOffset() error {
	if n.Kind != KindValue {
		return fmt.Errorf("sway: ExtractOffset on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	n.offset += n.value
	n.value = 0
	if n.native {
		return n.graph.bridge.ExtractOffset(n.tag)
	}
	return nil
}

// AddListener registers fn to be called with the node's value whenever it
// changes on the calling side.
func (n *Node) AddListener(fn func(float64)) ListenerHandle {
	n.nextListener++
	id := n.nextListener
	n.listeners = append(n.listeners, valueListener{id: id, fn: fn})
	return ListenerHandle{id: id, remove: n.removeListener}
}

func (n *Node) removeListener(id uint32) {
	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// RemoveAllListeners drops every value listener.
func (n *Node) RemoveAllListeners() {
	n.listeners = nil
}

// RemoteValue reports the node's value as seen by the remote executor. An
// unmirrored node answers synchronously with its local value.
func (n *Node) RemoteValue(cb func(float64)) error {
	if !n.native {
		cb(n.Value())
		return nil
	}
	return n.graph.bridge.GetValue(n.tag, cb)
}

// Animate starts anim on a value node, replacing any running animation.
// Remote animations mirror the node first. onEnd is called once.
func (n *Node) Animate(anim Animation, onEnd func(Result)) error {
	return n.animate(anim, 1, onEnd)
}

func (n *Node) animate(anim Animation, iterations int, onEnd func(Result)) error {
	if n.Kind != KindValue {
		complete(onEnd, Result{})
		return fmt.Errorf("sway: Animate on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	n.stopRunning()
	n.writes++
	if anim.UsesRemoteDriver() {
		return n.animateRemote(anim, iterations, onEnd)
	}
	n.animation = anim
	anim.Start(n.value, n.updateValue, func(r Result) {
		if n.animation == anim {
			n.animation = nil
		}
		complete(onEnd, r)
	})
	return nil
}

func (n *Node) animateRemote(anim Animation, iterations int, onEnd func(Result)) error {
	if err := n.Mirror(); err != nil {
		complete(onEnd, Result{})
		return err
	}
	b := n.graph.bridge
	id := b.newAnimationID()
	n.remoteAnimID = id
	writes := n.writes
	err := b.StartAnimatingNode(id, n.tag, anim.RemoteConfig(iterations), func(r AnimationResult) {
		if n.remoteAnimID == id {
			n.remoteAnimID = 0
		}
		if r.HasValue && n.writes == writes {
			n.value = r.Value
			n.flush()
		}
		complete(onEnd, Result{Finished: r.Finished})
	})
	if err != nil {
		n.remoteAnimID = 0
		complete(onEnd, Result{})
		return err
	}
	return nil
}

// StopAnimation stops tracking and any running animation on a value node.
func (n *Node) StopAnimation() {
	n.StopTracking()
	n.stopRunning()
}

func (n *Node) stopRunning() {
	if a := n.animation; a != nil {
		n.animation = nil
		a.Stop()
	}
	if id := n.remoteAnimID; id != 0 {
		n.remoteAnimID = 0
		if err := n.graph.bridge.StopAnimation(id); err != nil {
			n.graph.logger().Error("sway: stop remote animation", "animation", id, "err", err)
		}
	}
}

// ResetAnimation stops the node and restores the value it was created with.
func (n *Node) ResetAnimation() {
	n.StopAnimation()
	if n.Kind != KindValue {
		return
	}
	n.writes++
	n.value = n.initial
	n.flush()
	if n.native {
		if err := n.graph.bridge.SetValue(n.tag, n.initial); err != nil {
			n.graph.logger().Error("sway: reset remote value", "tag", n.tag, "err", err)
		}
	}
}

// Animating reports whether a local or remote animation is running.
func (n *Node) Animating() bool {
	return n.animation != nil || n.remoteAnimID != 0
}

func (n *Node) remoteDriven() bool {
	return n.remoteAnimID != 0 || (n.tracking != nil && n.tracking.native)
}

func (n *Node) updateValue(v float64) {
	n.value = v
	n.flush()
}

// flush notifies listeners of n and of every node downstream, updating
// props and tracking nodes once each.
func (n *Node) flush() {
	n.callListeners()
	if len(n.children) == 0 {
		return
	}
	seen := make(map[*Node]bool)
	var walk func(*Node)
	walk = func(from *Node) {
		for _, c := range from.children {
			if seen[c] || c.disposed {
				continue
			}
			seen[c] = true
			c.callListeners()
			switch c.Kind {
			case KindProps:
				c.updateProps()
			case KindTracking:
				c.updateTracking()
			default:
				walk(c)
			}
		}
	}
	walk(n)
}

func (n *Node) callListeners() {
	if len(n.listeners) == 0 {
		return
	}
	v := n.Value()
	for _, l := range n.listeners {
		l.fn(v)
	}
}

// Dispose detaches the node from its parents and drops its remote mirror.
// Value nodes stop animating first.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	switch n.Kind {
	case KindValue:
		n.StopAnimation()
	case KindProps:
		if err := n.DisconnectTarget(); err != nil {
			n.graph.logger().Error("sway: disconnect props target", "tag", n.tag, "err", err)
		}
	}
	n.disposed = true
	for _, p := range n.parents {
		p.removeChild(n)
	}
	if n.native {
		if err := n.graph.bridge.DropNode(n.tag); err != nil {
			n.graph.logger().Error("sway: drop remote node", "tag", n.tag, "err", err)
		}
	}
	n.listeners = nil
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i], n.children[i+1:]...)
		if n.native && child.native {
			if err := n.graph.bridge.DisconnectNodes(n.tag, child.tag); err != nil {
				n.graph.logger().Error("sway: disconnect remote nodes", "parent", n.tag, "child", child.tag, "err", err)
			}
		}
		return
	}
}
