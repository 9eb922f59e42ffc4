package sway

import (
	"fmt"
	"math"
)

// Extrapolate selects what an interpolation does outside its input range.
type Extrapolate string

const (
	ExtrapolateExtend   Extrapolate = "extend"   // continue the edge segment
	ExtrapolateClamp    Extrapolate = "clamp"    // hold the edge output
	ExtrapolateIdentity Extrapolate = "identity" // return the input unchanged
)

// InterpolationConfig maps an input value through a piecewise-linear range.
type InterpolationConfig struct {
	InputRange  []float64 `mapstructure:"inputRange"`
	OutputRange []float64 `mapstructure:"outputRange"`

	// Extrapolate applies to both sides unless a side is set explicitly.
	Extrapolate      Extrapolate `mapstructure:"extrapolate"`
	ExtrapolateLeft  Extrapolate `mapstructure:"extrapolateLeft"`
	ExtrapolateRight Extrapolate `mapstructure:"extrapolateRight"`

	// Easing names an easing applied within each segment. Remote executors
	// do not accept it.
	Easing string `mapstructure:"easing"`
}

// Validate checks range lengths, ordering, and extrapolation names.
func (c InterpolationConfig) Validate() error {
	if len(c.InputRange) < 2 {
		return fmt.Errorf("sway: interpolation input range has %d entries, need at least 2", len(c.InputRange))
	}
	if len(c.InputRange) != len(c.OutputRange) {
		return fmt.Errorf("sway: interpolation input range (%d) and output range (%d) differ in length",
			len(c.InputRange), len(c.OutputRange))
	}
	for i := 1; i < len(c.InputRange); i++ {
		if c.InputRange[i] < c.InputRange[i-1] {
			return fmt.Errorf("sway: interpolation input range must be non-decreasing, got %v", c.InputRange)
		}
	}
	for _, e := range []Extrapolate{c.Extrapolate, c.ExtrapolateLeft, c.ExtrapolateRight} {
		switch e {
		case "", ExtrapolateExtend, ExtrapolateClamp, ExtrapolateIdentity:
		default:
			return fmt.Errorf("sway: unknown extrapolation %q", e)
		}
	}
	if c.Easing != "" {
		if _, ok := Easing(c.Easing); !ok {
			return fmt.Errorf("sway: unknown easing %q", c.Easing)
		}
	}
	return nil
}

func (c InterpolationConfig) left() Extrapolate {
	if c.ExtrapolateLeft != "" {
		return c.ExtrapolateLeft
	}
	if c.Extrapolate != "" {
		return c.Extrapolate
	}
	return ExtrapolateExtend
}

func (c InterpolationConfig) right() Extrapolate {
	if c.ExtrapolateRight != "" {
		return c.ExtrapolateRight
	}
	if c.Extrapolate != "" {
		return c.Extrapolate
	}
	return ExtrapolateExtend
}

// Map interpolates x. The config must have passed Validate.
func (c InterpolationConfig) Map(x float64) float64 {
	i := findRange(x, c.InputRange)
	return interpolateSegment(x,
		c.InputRange[i], c.InputRange[i+1],
		c.OutputRange[i], c.OutputRange[i+1],
		c.Easing, c.left(), c.right())
}

func findRange(x float64, inputRange []float64) int {
	i := 1
	for ; i < len(inputRange)-1; i++ {
		if inputRange[i] >= x {
			break
		}
	}
	return i - 1
}

func interpolateSegment(x, inMin, inMax, outMin, outMax float64, easing string, left, right Extrapolate) float64 {
	result := x
	if result < inMin {
		switch left {
		case ExtrapolateIdentity:
			return result
		case ExtrapolateClamp:
			result = inMin
		}
	}
	if result > inMax {
		switch right {
		case ExtrapolateIdentity:
			return result
		case ExtrapolateClamp:
			result = inMax
		}
	}

	if outMin == outMax {
		return outMin
	}
	if inMin == inMax {
		if x <= inMin {
			return outMin
		}
		return outMax
	}

	switch {
	case math.IsInf(inMin, -1):
		result = -result
	case math.IsInf(inMax, 1):
		result = result - inMin
	default:
		result = (result - inMin) / (inMax - inMin)
	}

	if easing != "" {
		if fn, ok := Easing(easing); ok {
			result = float64(fn(float32(result), 0, 1, 1))
		}
	}

	switch {
	case math.IsInf(outMin, -1):
		result = -result
	case math.IsInf(outMax, 1):
		result = result + outMin
	default:
		result = result*(outMax-outMin) + outMin
	}
	return result
}

// remoteConfig returns the interpolation keys sent to a remote executor.
func (c InterpolationConfig) remoteConfig() map[string]any {
	cfg := map[string]any{
		"inputRange":       append([]float64(nil), c.InputRange...),
		"outputRange":      append([]float64(nil), c.OutputRange...),
		"extrapolateLeft":  string(c.left()),
		"extrapolateRight": string(c.right()),
	}
	if c.Easing != "" {
		cfg["easing"] = c.Easing
	}
	return cfg
}

// InterpolationFromConfig decodes the keys produced for a remote executor.
func InterpolationFromConfig(cfg map[string]any) (InterpolationConfig, error) {
	var c InterpolationConfig
	if err := DecodeConfig(cfg, &c); err != nil {
		return InterpolationConfig{}, fmt.Errorf("sway: interpolation config: %w", err)
	}
	return c, c.Validate()
}
