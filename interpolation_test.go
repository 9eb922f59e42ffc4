package sway

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpolationMap(t *testing.T) {
	cases := []struct {
		name string
		cfg  InterpolationConfig
		in   float64
		want float64
	}{
		{"inside", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}}, 0.25, 25},
		{"extend right", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}}, 2, 200},
		{"extend left", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}}, -1, -100},
		{"clamp", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}, Extrapolate: ExtrapolateClamp}, 2, 100},
		{"identity", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}, Extrapolate: ExtrapolateIdentity}, 5, 5},
		{"clamp left only", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}, ExtrapolateLeft: ExtrapolateClamp}, -3, 0},
		{"second segment", InterpolationConfig{InputRange: []float64{0, 1, 2}, OutputRange: []float64{0, 10, 0}}, 1.5, 5},
		{"reversed output", InterpolationConfig{InputRange: []float64{0, 10}, OutputRange: []float64{1, 0}}, 2.5, 0.75},
		{"flat output", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{4, 4}}, 0.5, 4},
		{"easing", InterpolationConfig{InputRange: []float64{0, 1}, OutputRange: []float64{0, 100}, Easing: "inQuad"}, 0.5, 25},
		{"infinite input", InterpolationConfig{InputRange: []float64{0, math.Inf(1)}, OutputRange: []float64{0, math.Inf(1)}}, 42, 42},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); err != nil {
			t.Errorf("%s: Validate: %v", tc.name, err)
			continue
		}
		if got := tc.cfg.Map(tc.in); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: Map(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestInterpolationValidate(t *testing.T) {
	bad := map[string]InterpolationConfig{
		"short":       {InputRange: []float64{0}, OutputRange: []float64{0}},
		"mismatch":    {InputRange: []float64{0, 1}, OutputRange: []float64{0, 1, 2}},
		"decreasing":  {InputRange: []float64{1, 0}, OutputRange: []float64{0, 1}},
		"extrapolate": {InputRange: []float64{0, 1}, OutputRange: []float64{0, 1}, Extrapolate: "wrap"},
		"easing":      {InputRange: []float64{0, 1}, OutputRange: []float64{0, 1}, Easing: "wobble"},
	}
	for name, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted %+v", name, cfg)
		}
	}
}

func TestInterpolateNode(t *testing.T) {
	g := NewGraph(nil, nil)
	progress := g.Value(0)
	in := []float64{0, 1}
	opacity, err := g.Interpolate(progress, InterpolationConfig{InputRange: in, OutputRange: []float64{1, 0}})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	in[1] = 100

	_ = progress.SetValue(0.25)
	if got := opacity.Value(); got != 0.75 {
		t.Errorf("opacity = %v, want 0.75", got)
	}

	if _, err := g.Interpolate(progress, InterpolationConfig{}); err == nil {
		t.Error("Interpolate accepted an empty config")
	}
}

func TestInterpolationFromConfig(t *testing.T) {
	want := InterpolationConfig{
		InputRange:       []float64{0, 1},
		OutputRange:      []float64{10, 20},
		ExtrapolateLeft:  ExtrapolateClamp,
		ExtrapolateRight: ExtrapolateExtend,
	}
	got, err := InterpolationFromConfig(want.remoteConfig())
	if err != nil {
		t.Fatalf("InterpolationFromConfig: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded config (-want +got):\n%s", diff)
	}

	decoded, err := InterpolationFromConfig(map[string]any{
		"inputRange":  []any{0, 1.0},
		"outputRange": []any{int64(0), float32(2)},
		"extrapolate": "clamp",
	})
	if err != nil {
		t.Fatalf("InterpolationFromConfig with []any: %v", err)
	}
	if decoded.Map(5) != 2 {
		t.Errorf("decoded Map(5) = %v, want 2", decoded.Map(5))
	}

	if _, err := InterpolationFromConfig(map[string]any{"inputRange": "x"}); err == nil {
		t.Error("accepted a non-numeric inputRange")
	}
}
