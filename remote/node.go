package remote

import (
	"fmt"
	"math"
	"sort"

	"github.com/phanxgames/sway"
)

// node is the executor's copy of a mirrored graph node.
type node struct {
	tag  int
	kind string

	value  float64
	offset float64

	inputs  []int // arithmetic operands, or the single input
	modulus float64

	min, max  float64
	clamped   float64
	lastInput float64
	primed    bool

	interp sway.InterpolationConfig

	channels [4]int // color r, g, b, a

	// tracking
	trackAnimID int
	trackTo     int
	trackDest   int
	trackConfig map[string]any
	trackLast   float64
	trackPrimed bool

	// props
	style     []styleBinding
	transform []transformBinding
	target    int
	hasTarget bool

	children map[int]struct{}
}

type styleBinding struct {
	name string
	tag  int
}

type transformBinding struct {
	property string
	tag      int
}

// newNode decodes a createNode config.
func newNode(tag int, cfg map[string]any) (*node, error) {
	var kc typeConfig
	if err := sway.DecodeConfig(cfg, &kc); err != nil {
		return nil, fmt.Errorf("node %d: %w", tag, err)
	}
	n := &node{tag: tag, kind: kc.Type, children: make(map[int]struct{})}
	var err error
	switch n.kind {
	case "value":
		var c valueNodeConfig
		err = sway.DecodeConfig(cfg, &c)
		n.value, n.offset = c.Value, c.Offset
	case "addition", "subtraction", "multiplication", "division", "modulus", "diffclamp":
		err = n.decodeOperator(cfg)
	case "interpolation":
		if err = n.decodeOperator(cfg); err == nil {
			n.interp, err = sway.InterpolationFromConfig(cfg)
		}
	case "color":
		var c colorNodeConfig
		if err = sway.DecodeConfig(cfg, &c); err == nil {
			for i, ch := range [4]*int{c.R, c.G, c.B, c.A} {
				if ch == nil {
					return nil, fmt.Errorf("color node %d: missing channel %q", tag, "rgba"[i:i+1])
				}
				n.channels[i] = *ch
			}
		}
	case "tracking":
		var c trackingNodeConfig
		if err = sway.DecodeConfig(cfg, &c); err == nil {
			if c.AnimationID == nil || c.ToValue == nil || c.Value == nil || c.AnimationConfig == nil {
				return nil, fmt.Errorf("tracking node %d: incomplete config", tag)
			}
			n.trackAnimID, n.trackTo, n.trackDest, n.trackConfig = *c.AnimationID, *c.ToValue, *c.Value, c.AnimationConfig
		}
	case "props":
		err = n.decodeProps(cfg)
	default:
		return nil, fmt.Errorf("node %d: unknown type %q", tag, n.kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s node %d: %w", n.kind, tag, err)
	}
	return n, nil
}

func (n *node) decodeOperator(cfg map[string]any) error {
	var c operatorNodeConfig
	if err := sway.DecodeConfig(cfg, &c); err != nil {
		return err
	}
	want := 1
	switch n.kind {
	case "addition", "subtraction", "multiplication", "division":
		want = 2
	}
	if len(c.Input) != want {
		return fmt.Errorf("input must hold %d tag(s), got %d", want, len(c.Input))
	}
	n.inputs = c.Input
	n.modulus, n.min, n.max = c.Modulus, c.Min, c.Max
	return nil
}

func (n *node) decodeProps(cfg map[string]any) error {
	var c propsNodeConfig
	if err := sway.DecodeConfig(cfg, &c); err != nil {
		return err
	}
	for name, tag := range c.Style {
		n.style = append(n.style, styleBinding{name: name, tag: tag})
	}
	sort.Slice(n.style, func(i, j int) bool { return n.style[i].name < n.style[j].name })
	for _, t := range c.Transform {
		if t.Property == "" || t.NodeTag == nil {
			return fmt.Errorf("malformed transform entry")
		}
		n.transform = append(n.transform, transformBinding{property: t.Property, tag: *t.NodeTag})
	}
	return nil
}

// eval computes the value of tag. Unknown tags evaluate to 0.
func (e *Executor) eval(tag int) float64 {
	n, ok := e.nodes[tag]
	if !ok {
		return 0
	}
	switch n.kind {
	case "value":
		return n.value + n.offset
	case "addition":
		return e.eval(n.inputs[0]) + e.eval(n.inputs[1])
	case "subtraction":
		return e.eval(n.inputs[0]) - e.eval(n.inputs[1])
	case "multiplication":
		return e.eval(n.inputs[0]) * e.eval(n.inputs[1])
	case "division":
		d := e.eval(n.inputs[1])
		if d == 0 {
			return 0
		}
		return e.eval(n.inputs[0]) / d
	case "modulus":
		if n.modulus == 0 {
			return 0
		}
		a := e.eval(n.inputs[0])
		return math.Mod(math.Mod(a, n.modulus)+n.modulus, n.modulus)
	case "diffclamp":
		v := e.eval(n.inputs[0])
		if !n.primed {
			n.primed = true
			n.lastInput = v
			n.clamped = math.Min(math.Max(v, n.min), n.max)
			return n.clamped
		}
		diff := v - n.lastInput
		n.lastInput = v
		n.clamped = math.Min(math.Max(n.clamped+diff, n.min), n.max)
		return n.clamped
	case "interpolation":
		return n.interp.Map(e.eval(n.inputs[0]))
	}
	return 0
}

func (e *Executor) evalColor(n *node) sway.Color {
	return sway.Color{
		R: e.eval(n.channels[0]),
		G: e.eval(n.channels[1]),
		B: e.eval(n.channels[2]),
		A: e.eval(n.channels[3]),
	}
}

func (e *Executor) propValue(tag int) any {
	if n, ok := e.nodes[tag]; ok && n.kind == "color" {
		return e.evalColor(n)
	}
	return e.eval(tag)
}

// props evaluates a props node the way the calling side does.
func (e *Executor) props(n *node) map[string]any {
	out := make(map[string]any, len(n.style)+1)
	for _, s := range n.style {
		if s.name == "transform" {
			continue
		}
		out[s.name] = e.propValue(s.tag)
	}
	if len(n.transform) > 0 {
		transforms := make([]map[string]any, len(n.transform))
		for i, t := range n.transform {
			transforms[i] = map[string]any{t.property: e.propValue(t.tag)}
		}
		out["transform"] = transforms
	}
	return out
}
