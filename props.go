package sway

import (
	"fmt"
	"sort"
)

// TransformProp binds one transform entry, e.g. "translateX", to a node.
type TransformProp struct {
	Property string
	Node     *Node
}

// PropsConfig lists the animated inputs of a props node.
type PropsConfig struct {
	Style     map[string]*Node
	Transform []TransformProp
}

type styleProp struct {
	name string
	node *Node
}

// Props creates a props container. onUpdate, if non-nil, receives the
// evaluated props whenever an input changes on the calling side.
func (g *Graph) Props(cfg PropsConfig, onUpdate func(props map[string]any)) (*Node, error) {
	n := &Node{Kind: KindProps, graph: g, onUpdate: onUpdate}

	names := make([]string, 0, len(cfg.Style))
	for name := range cfg.Style {
		names = append(names, name)
	}
	sort.Strings(names)

	var parents []*Node
	seen := make(map[*Node]bool)
	addParent := func(p *Node) {
		if !seen[p] {
			seen[p] = true
			parents = append(parents, p)
		}
	}
	for _, name := range names {
		p := cfg.Style[name]
		if p == nil {
			return nil, fmt.Errorf("sway: style property %q has no node: %w", name, ErrInvalidOperation)
		}
		n.style = append(n.style, styleProp{name: name, node: p})
		addParent(p)
	}
	for _, t := range cfg.Transform {
		if t.Node == nil {
			return nil, fmt.Errorf("sway: transform property %q has no node: %w", t.Property, ErrInvalidOperation)
		}
		n.transform = append(n.transform, t)
		addParent(t.Node)
	}

	if err := g.link(n, parents...); err != nil {
		return nil, err
	}
	return n, nil
}

// Props evaluates a props node. Color inputs evaluate to Color, others to
// float64. Transforms are listed under "transform" in declaration order.
func (n *Node) Props() map[string]any {
	if n.Kind != KindProps {
		return nil
	}
	props := make(map[string]any, len(n.style)+1)
	for _, s := range n.style {
		props[s.name] = propValue(s.node)
	}
	if len(n.transform) > 0 {
		transforms := make([]map[string]any, len(n.transform))
		for i, t := range n.transform {
			transforms[i] = map[string]any{t.Property: propValue(t.Node)}
		}
		props["transform"] = transforms
	}
	return props
}

func propValue(n *Node) any {
	if n.Kind == KindColor {
		return n.ColorValue()
	}
	return n.Value()
}

func (n *Node) updateProps() {
	if n.onUpdate != nil {
		n.onUpdate(n.Props())
	}
}

func (n *Node) propsRemoteConfig(cfg map[string]any) (map[string]any, error) {
	b := n.graph.bridge
	style := make(map[string]int, len(n.style))
	for _, s := range n.style {
		if err := b.validateStyleProp(s.name); err != nil {
			return nil, err
		}
		style[s.name] = s.node.tag
	}
	cfg["style"] = style
	if len(n.transform) > 0 {
		if err := b.validateStyleProp("transform"); err != nil {
			return nil, err
		}
		transforms := make([]map[string]any, len(n.transform))
		for i, t := range n.transform {
			if err := b.validateTransformProp(t.Property); err != nil {
				return nil, err
			}
			transforms[i] = map[string]any{"property": t.Property, "nodeTag": t.Node.tag}
		}
		cfg["transform"] = transforms
	}
	return cfg, nil
}

// ConnectTarget binds a props node to a platform target so the remote
// executor writes the props directly. The node is mirrored if needed.
func (n *Node) ConnectTarget(viewRef any) error {
	if n.Kind != KindProps {
		return fmt.Errorf("sway: ConnectTarget on %s node: %w", n.Kind, ErrInvalidOperation)
	}
	target, err := n.graph.resolve(viewRef)
	if err != nil {
		return err
	}
	if n.hasTarget {
		if n.target == target {
			return nil
		}
		if err := n.DisconnectTarget(); err != nil {
			return err
		}
	}
	n.target = target
	n.hasTarget = true
	if n.native {
		return n.graph.bridge.ConnectToTarget(n.tag, target)
	}
	if err := n.Mirror(); err != nil {
		n.hasTarget = false
		n.target = 0
		return err
	}
	return nil
}

// DisconnectTarget restores the target's defaults and unbinds it. No-op
// when no target is connected.
func (n *Node) DisconnectTarget() error {
	if !n.hasTarget {
		return nil
	}
	target := n.target
	n.hasTarget = false
	n.target = 0
	if !n.native {
		return nil
	}
	b := n.graph.bridge
	if err := b.RestoreDefaults(n.tag); err != nil {
		return err
	}
	return b.DisconnectFromTarget(n.tag, target)
}

// Target returns the connected target id.
func (n *Node) Target() (int, bool) {
	return n.target, n.hasTarget
}
