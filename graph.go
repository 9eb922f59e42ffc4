package sway

import (
	"fmt"
	"log/slog"
	"math"
)

// TargetResolver maps an opaque view or target reference to the platform
// target id used by the remote executor.
type TargetResolver func(viewRef any) (int, error)

// Targeter is implemented by view types that know their own target id.
type Targeter interface {
	TargetID() int
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithTargetResolver replaces the default target resolution, which accepts
// an int or a Targeter.
func WithTargetResolver(r TargetResolver) GraphOption {
	return func(g *Graph) {
		if r != nil {
			g.resolve = r
		}
	}
}

// Graph creates nodes and animations bound to one bridge and one clock.
// Several graphs may coexist; they share nothing.
type Graph struct {
	bridge  *Bridge
	clock   *Clock
	resolve TargetResolver
}

// NewGraph creates a graph. A nil bridge gives a local-only graph whose
// remote requests fail with ErrRemoteExecutorUnavailable; a nil clock gets a
// fresh Clock.
func NewGraph(bridge *Bridge, clock *Clock, opts ...GraphOption) *Graph {
	if bridge == nil {
		bridge = NewBridge(nil)
	}
	if clock == nil {
		clock = NewClock()
	}
	g := &Graph{bridge: bridge, clock: clock, resolve: resolveTarget}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Bridge returns the graph's bridge.
func (g *Graph) Bridge() *Bridge {
	return g.bridge
}

// Clock returns the graph's clock.
func (g *Graph) Clock() *Clock {
	return g.clock
}

func (g *Graph) logger() *slog.Logger {
	return g.bridge.logger
}

func resolveTarget(viewRef any) (int, error) {
	switch v := viewRef.(type) {
	case int:
		if v > 0 {
			return v, nil
		}
	case Targeter:
		if id := v.TargetID(); id > 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("sway: cannot resolve target from %T: %w", viewRef, ErrInvalidOperation)
}

// Value creates a writable value node.
func (g *Graph) Value(v float64) *Node {
	return &Node{Kind: KindValue, graph: g, value: v, initial: v}
}

// ValueXY creates a pair of value nodes.
func (g *Graph) ValueXY(v Vec2) ValueXY {
	return ValueXY{X: g.Value(v.X), Y: g.Value(v.Y)}
}

// Color creates a color node fed by four value nodes, one per channel.
func (g *Graph) Color(c Color) *Node {
	n := &Node{Kind: KindColor, graph: g}
	g.link(n, g.Value(c.R), g.Value(c.G), g.Value(c.B), g.Value(c.A))
	return n
}

// Add creates a node evaluating a + b.
func (g *Graph) Add(a, b *Node) *Node {
	return g.derive(KindAddition, a, b)
}

// Subtract creates a node evaluating a - b.
func (g *Graph) Subtract(a, b *Node) *Node {
	return g.derive(KindSubtraction, a, b)
}

// Multiply creates a node evaluating a * b.
func (g *Graph) Multiply(a, b *Node) *Node {
	return g.derive(KindMultiplication, a, b)
}

// Divide creates a node evaluating a / b. A zero divisor yields 0.
func (g *Graph) Divide(a, b *Node) *Node {
	return g.derive(KindDivision, a, b)
}

// Modulo creates a node evaluating a mod m, wrapped into [0, m).
func (g *Graph) Modulo(a *Node, m float64) *Node {
	n := &Node{Kind: KindModulo, graph: g, modulus: m}
	g.link(n, a)
	return n
}

// DiffClamp creates a node that accumulates the changes of a and keeps the
// running total within [min, max]. Useful for headers that hide on scroll.
func (g *Graph) DiffClamp(a *Node, min, max float64) *Node {
	v := a.Value()
	n := &Node{Kind: KindDiffClamp, graph: g, min: min, max: max, lastInput: v, clamped: math.Min(math.Max(v, min), max)}
	g.link(n, a)
	return n
}

// Interpolate creates a node mapping parent through cfg.
func (g *Graph) Interpolate(parent *Node, cfg InterpolationConfig) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.InputRange = append([]float64(nil), cfg.InputRange...)
	cfg.OutputRange = append([]float64(nil), cfg.OutputRange...)
	n := &Node{Kind: KindInterpolation, graph: g, interp: cfg}
	if err := g.link(n, parent); err != nil {
		return nil, err
	}
	return n, nil
}

func (g *Graph) derive(kind NodeKind, a, b *Node) *Node {
	n := &Node{Kind: kind, graph: g}
	g.link(n, a, b)
	return n
}

// link wires parents into n. When a parent is already mirrored, n is
// mirrored too so remote updates reach it. Errors are logged and returned.
func (g *Graph) link(n *Node, parents ...*Node) error {
	if !attach(n, parents...) {
		return nil
	}
	if err := n.Mirror(); err != nil {
		g.logger().Error("sway: mirror derived node", "kind", n.Kind.String(), "err", err)
		return err
	}
	return nil
}

// attach wires parents into n and reports whether any parent is mirrored.
func attach(n *Node, parents ...*Node) bool {
	n.parents = parents
	native := false
	for _, p := range parents {
		p.children = append(p.children, n)
		if p.native {
			native = true
		}
	}
	return native
}

// ValueXY is a pair of value nodes animated together, e.g. a position.
type ValueXY struct {
	X, Y *Node
}

// Value returns both values.
func (v ValueXY) Value() Vec2 {
	return Vec2{X: v.X.Value(), Y: v.Y.Value()}
}

// SetValue writes both values.
func (v ValueXY) SetValue(p Vec2) error {
	if err := v.X.SetValue(p.X); err != nil {
		return err
	}
	return v.Y.SetValue(p.Y)
}

// SetOffset writes both offsets.
func (v ValueXY) SetOffset(p Vec2) error {
	if err := v.X.SetOffset(p.X); err != nil {
		return err
	}
	return v.Y.SetOffset(p.Y)
}

// FlattenOffset flattens both values.
func (v ValueXY) FlattenOffset() error {
	if err := v.X.FlattenOffset(); err != nil {
		return err
	}
	return v.Y.FlattenOffset()
}

// ExtractOffset extracts both values.
func (v ValueXY) ExtractOffset() error {
	if err := v.X.ExtractOffset(); err != nil {
		return err
	}
	return v.Y.ExtractOffset()
}

// StopAnimation stops both values.
func (v ValueXY) StopAnimation() {
	v.X.StopAnimation()
	v.Y.StopAnimation()
}
