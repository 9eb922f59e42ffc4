package sway

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultScriptFPS is the frame rate of scripts that do not set one.
const DefaultScriptFPS = 60

// maxScriptFrames caps scripts that set no frame count and never finish,
// such as an unbounded loop.
const maxScriptFrames = 60 * 60

// ScriptStep is one node of a script's animation tree.
type ScriptStep struct {
	// Type is timing, delay, sequence, parallel, stagger or loop.
	Type string `yaml:"type" json:"type"`

	// timing
	Value  string  `yaml:"value,omitempty" json:"value,omitempty"`
	To     float64 `yaml:"to,omitempty" json:"to,omitempty"`
	Easing string  `yaml:"easing,omitempty" json:"easing,omitempty"`

	// timing, delay, stagger; Go duration strings such as "250ms"
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`
	Delay    string `yaml:"delay,omitempty" json:"delay,omitempty"`

	// sequence, parallel, stagger
	Steps        []ScriptStep `yaml:"steps,omitempty" json:"steps,omitempty"`
	StopTogether *bool        `yaml:"stopTogether,omitempty" json:"stopTogether,omitempty"`

	// loop
	Step                 *ScriptStep `yaml:"step,omitempty" json:"step,omitempty"`
	Iterations           *int        `yaml:"iterations,omitempty" json:"iterations,omitempty"`
	ResetBeforeIteration *bool       `yaml:"resetBeforeIteration,omitempty" json:"resetBeforeIteration,omitempty"`
}

// ScriptDerived declares an interpolation node read from another value.
type ScriptDerived struct {
	Name        string      `yaml:"name" json:"name"`
	From        string      `yaml:"from" json:"from"`
	InputRange  []float64   `yaml:"inputRange" json:"inputRange"`
	OutputRange []float64   `yaml:"outputRange" json:"outputRange"`
	Extrapolate Extrapolate `yaml:"extrapolate,omitempty" json:"extrapolate,omitempty"`
	Easing      string      `yaml:"easing,omitempty" json:"easing,omitempty"`
}

// Script is a declarative animation: named values, optional derived
// nodes, and a tree of steps. Scripts drive the command-line tool and make
// animations reproducible in tests.
type Script struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	FPS    int    `yaml:"fps,omitempty" json:"fps,omitempty"`
	Frames int    `yaml:"frames,omitempty" json:"frames,omitempty"`
	// Remote runs every timing step on the remote driver.
	Remote bool `yaml:"remote,omitempty" json:"remote,omitempty"`

	Values    map[string]float64 `yaml:"values" json:"values"`
	Derived   []ScriptDerived    `yaml:"derived,omitempty" json:"derived,omitempty"`
	Animation ScriptStep         `yaml:"animation" json:"animation"`
}

// LoadScript parses a YAML or JSON animation script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Values) == 0 {
		return nil, fmt.Errorf("parse script: no values")
	}
	if s.Animation.Type == "" {
		return nil, fmt.Errorf("parse script: no animation")
	}
	if s.FPS <= 0 {
		s.FPS = DefaultScriptFPS
	}
	return &s, nil
}

// Values names the nodes a script declares.
type Values map[string]*Node

// Names returns the value names in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every named node.
func (v Values) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(v))
	for name, n := range v {
		out[name] = n.Value()
	}
	return out
}

// Build creates the script's nodes in g and returns its root handle.
func (s *Script) Build(g *Graph) (Handle, Values, error) {
	values := make(Values, len(s.Values)+len(s.Derived))
	for name, v := range s.Values {
		n := g.Value(v)
		n.Name = name
		values[name] = n
	}
	for _, d := range s.Derived {
		if _, dup := values[d.Name]; dup || d.Name == "" {
			return nil, nil, fmt.Errorf("script: derived node %q: duplicate or empty name", d.Name)
		}
		from, ok := values[d.From]
		if !ok {
			return nil, nil, fmt.Errorf("script: derived node %q reads unknown value %q", d.Name, d.From)
		}
		n, err := g.Interpolate(from, InterpolationConfig{
			InputRange:  d.InputRange,
			OutputRange: d.OutputRange,
			Extrapolate: d.Extrapolate,
			Easing:      d.Easing,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("script: derived node %q: %w", d.Name, err)
		}
		n.Name = d.Name
		values[d.Name] = n
	}
	h, err := s.build(g, values, s.Animation, "animation")
	if err != nil {
		return nil, nil, err
	}
	return h, values, nil
}

func (s *Script) build(g *Graph, values Values, st ScriptStep, at string) (Handle, error) {
	switch st.Type {
	case "timing":
		n, ok := values[st.Value]
		if !ok || n.Kind != KindValue {
			return nil, fmt.Errorf("script: %s: unknown value %q", at, st.Value)
		}
		if st.Easing != "" {
			if _, ok := Easing(st.Easing); !ok {
				return nil, fmt.Errorf("script: %s: unknown easing %q", at, st.Easing)
			}
		}
		d, err := parseScriptDuration(st.Duration, at)
		if err != nil {
			return nil, err
		}
		delay, err := parseScriptDuration(st.Delay, at)
		if err != nil {
			return nil, err
		}
		return g.Timing(n, TimingConfig{
			ToValue:         st.To,
			Duration:        d,
			Delay:           delay,
			Easing:          st.Easing,
			UseRemoteDriver: s.Remote,
		}), nil

	case "delay":
		d, err := parseScriptDuration(st.Duration, at)
		if err != nil {
			return nil, err
		}
		return g.Delay(d), nil

	case "sequence", "parallel", "stagger":
		children := make([]Handle, len(st.Steps))
		for i, child := range st.Steps {
			h, err := s.build(g, values, child, fmt.Sprintf("%s.steps[%d]", at, i))
			if err != nil {
				return nil, err
			}
			children[i] = h
		}
		switch st.Type {
		case "sequence":
			return Sequence(children...), nil
		case "parallel":
			var opts []ParallelOption
			if st.StopTogether != nil {
				opts = append(opts, StopTogether(*st.StopTogether))
			}
			return Parallel(children, opts...), nil
		default:
			d, err := parseScriptDuration(st.Delay, at)
			if err != nil {
				return nil, err
			}
			return g.Stagger(d, children), nil
		}

	case "loop":
		if st.Step == nil {
			return nil, fmt.Errorf("script: %s: loop has no step", at)
		}
		h, err := s.build(g, values, *st.Step, at+".step")
		if err != nil {
			return nil, err
		}
		var opts []LoopOption
		if st.Iterations != nil {
			opts = append(opts, Iterations(*st.Iterations))
		}
		if st.ResetBeforeIteration != nil {
			opts = append(opts, ResetBeforeIteration(*st.ResetBeforeIteration))
		}
		return Loop(h, opts...), nil
	}
	return nil, fmt.Errorf("script: %s: unknown step type %q", at, st.Type)
}

func parseScriptDuration(s, at string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("script: %s: %w", at, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("script: %s: negative duration %s", at, s)
	}
	return d, nil
}

// Frame is the state reported after each script frame.
type Frame struct {
	Index  int
	Time   float64 // seconds since start
	Values map[string]float64
}

// RunOption configures Script.Run.
type RunOption func(*runConfig)

type runConfig struct {
	before  func(dt float32)
	onFrame func(Frame)
}

// BeforeFrame calls fn with the frame delta before the clock advances, e.g.
// to tick a remote executor and drain its results.
func BeforeFrame(fn func(dt float32)) RunOption {
	return func(c *runConfig) { c.before = fn }
}

// OnFrame reports every frame after the clock advanced.
func OnFrame(fn func(Frame)) RunOption {
	return func(c *runConfig) { c.onFrame = fn }
}

// Run builds the script in g and advances g's clock at the script's frame
// rate until the animation completes, the frame count is reached, or ctx is
// done. An animation still running at the end is stopped.
func (s *Script) Run(ctx context.Context, g *Graph, opts ...RunOption) (Result, error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}
	h, values, err := s.Build(g)
	if err != nil {
		return Result{}, err
	}

	fps := s.FPS
	if fps <= 0 {
		fps = DefaultScriptFPS
	}
	dt := float32(1) / float32(fps)
	limit := s.Frames
	if limit <= 0 {
		limit = maxScriptFrames
	}

	var (
		result Result
		done   bool
	)
	h.Start(func(r Result) {
		result = r
		done = true
	})

	clock := g.Clock()
	for i := 0; i < limit; i++ {
		if done && s.Frames <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			h.Stop()
			return Result{}, err
		}
		if rc.before != nil {
			rc.before(dt)
		}
		clock.Update(dt)
		if rc.onFrame != nil {
			rc.onFrame(Frame{Index: i, Time: clock.Elapsed(), Values: values.Snapshot()})
		}
	}
	if !done {
		h.Stop()
	}
	return result, nil
}
