package sway

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scrollPayload(x, y any) map[string]any {
	return map[string]any{
		EventPayloadKey: map[string]any{
			"contentOffset": map[string]any{"x": x, "y": y},
		},
	}
}

func TestEventInvalidMappings(t *testing.T) {
	g := NewGraph(nil, nil)
	sum := g.Add(g.Value(0), g.Value(0))

	cases := map[string]struct {
		mapping []any
		remote  bool
	}{
		"remote without root":   {mapping: nil, remote: true},
		"missing payload key":   {mapping: []any{Mapping{"contentOffset": g.Value(0)}}},
		"root of wrong type":    {mapping: []any{42}},
		"derived leaf":          {mapping: []any{Mapping{EventPayloadKey: Mapping{"y": sum}}}},
		"unsupported leaf type": {mapping: []any{Mapping{EventPayloadKey: Mapping{"y": "text"}}}},
	}
	for name, tc := range cases {
		if _, err := g.Event(tc.mapping, EventConfig{UseRemoteDriver: tc.remote}); !errors.Is(err, ErrInvalidMapping) {
			t.Errorf("%s: Event = %v, want ErrInvalidMapping", name, err)
		}
	}
}

func TestEventLocalHandlerWritesNodes(t *testing.T) {
	g := NewGraph(nil, nil)
	y := g.Value(0)
	var seen [][]any
	e, err := g.Event([]any{
		Mapping{EventPayloadKey: Mapping{"contentOffset": Mapping{"y": y}}},
	}, EventConfig{Listener: func(args ...any) { seen = append(seen, args) }})
	if err != nil {
		t.Fatalf("Event: %v", err)
	}

	h := e.Handler()
	if err := h(scrollPayload(0, 120.0)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if y.Value() != 120 {
		t.Errorf("y = %v, want 120", y.Value())
	}
	if len(seen) != 1 || len(seen[0]) != 1 {
		t.Errorf("listener saw %v", seen)
	}
}

func TestEventValueXYLeaf(t *testing.T) {
	g := NewGraph(nil, nil)
	pos := g.ValueXY(Vec2{})
	e, err := g.Event([]any{Mapping{EventPayloadKey: Mapping{"contentOffset": pos}}}, EventConfig{})
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	h := e.Handler()

	if err := h(scrollPayload(3, 4)); err != nil {
		t.Fatalf("handler with x/y map: %v", err)
	}
	if got := pos.Value(); got != (Vec2{X: 3, Y: 4}) {
		t.Errorf("pos = %+v", got)
	}

	vec := map[string]any{EventPayloadKey: map[string]any{"contentOffset": Vec2{X: 5, Y: 6}}}
	if err := h(vec); err != nil {
		t.Fatalf("handler with Vec2: %v", err)
	}
	if got := pos.Value(); got != (Vec2{X: 5, Y: 6}) {
		t.Errorf("pos = %+v", got)
	}
}

func TestEventValidatesFirstCallOnly(t *testing.T) {
	g := NewGraph(nil, nil)
	y := g.Value(0)
	e, _ := g.Event([]any{Mapping{EventPayloadKey: Mapping{"y": y}}}, EventConfig{})
	h := e.Handler()

	if err := h(map[string]any{EventPayloadKey: "oops"}); !errors.Is(err, ErrInvalidMapping) {
		t.Fatalf("handler = %v, want ErrInvalidMapping", err)
	}
	if err := h(map[string]any{EventPayloadKey: map[string]any{"y": "nan"}}); !errors.Is(err, ErrInvalidMapping) {
		t.Fatalf("handler = %v, want ErrInvalidMapping", err)
	}
	if err := h(map[string]any{EventPayloadKey: map[string]any{"y": 7}}); err != nil {
		t.Fatalf("valid call: %v", err)
	}
	if err := h(map[string]any{EventPayloadKey: "oops"}); err != nil {
		t.Errorf("shape checked again after the first valid call: %v", err)
	}
	if y.Value() != 7 {
		t.Errorf("y = %v, want 7", y.Value())
	}
}

func TestEventPositionalArguments(t *testing.T) {
	g := NewGraph(nil, nil)
	v := g.Value(0)
	e, err := g.Event([]any{nil, Mapping{"value": v}}, EventConfig{})
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if err := e.Handler()("ignored", map[string]any{"value": int32(9)}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if v.Value() != 9 {
		t.Errorf("v = %v, want 9", v.Value())
	}
}

func TestEventRemoteAttachDetach(t *testing.T) {
	g, exec := remoteGraph()
	pos := g.ValueXY(Vec2{})
	e, err := g.Event([]any{Mapping{EventPayloadKey: Mapping{"contentOffset": pos}}}, EventConfig{UseRemoteDriver: true})
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if !e.UsesRemoteDriver() {
		t.Fatal("UsesRemoteDriver = false")
	}

	if err := e.Attach(5, "onScroll"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	want := []Instruction{
		{Op: OpCreateNode, Tag: 1, Config: map[string]any{"type": "value", "value": 0.0, "offset": 0.0}},
		{Op: OpCreateNode, Tag: 2, Config: map[string]any{"type": "value", "value": 0.0, "offset": 0.0}},
		{Op: OpAddEventMapping, Other: 5, Event: "onScroll", Path: []string{"contentOffset", "x"}, Tag: 1},
		{Op: OpAddEventMapping, Other: 5, Event: "onScroll", Path: []string{"contentOffset", "y"}, Tag: 2},
	}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Fatalf("attach ops (-want +got):\n%s", diff)
	}
	if target, name, ok := e.Attached(); !ok || target != 5 || name != "onScroll" {
		t.Errorf("Attached = %d %q %v", target, name, ok)
	}
	if err := e.Attach(6, "onScroll"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("second Attach = %v, want ErrInvalidOperation", err)
	}

	// The remote executor writes the nodes; the handler only notifies.
	called := 0
	e.AddListener(func(...any) { called++ })
	if err := e.Handler()(scrollPayload(10, 20)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if pos.Value() != (Vec2{}) || called != 1 {
		t.Errorf("pos = %+v, listener calls = %d", pos.Value(), called)
	}

	exec.calls = nil
	if err := e.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if err := e.Detach(); err != nil {
		t.Fatalf("second Detach: %v", err)
	}
	want = []Instruction{
		{Op: OpRemoveEventMapping, Other: 5, Event: "onScroll", Tag: 1},
		{Op: OpRemoveEventMapping, Other: 5, Event: "onScroll", Tag: 2},
	}
	if diff := cmp.Diff(want, exec.calls); diff != "" {
		t.Errorf("detach ops (-want +got):\n%s", diff)
	}
}

func TestEventLocalAttachSendsNothing(t *testing.T) {
	g, exec := remoteGraph()
	e, _ := g.Event([]any{Mapping{EventPayloadKey: Mapping{"y": g.Value(0)}}}, EventConfig{})
	if err := e.Attach(fakeView{id: 2}, "onScroll"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := e.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("local event sent %v", exec.ops())
	}
	if err := e.Attach("nowhere", "onScroll"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Attach to unresolvable target = %v", err)
	}
}

func TestForkHelpers(t *testing.T) {
	g := NewGraph(nil, nil)
	e, _ := g.Event(nil, EventConfig{})
	var log []string
	h := ForkEvent(e, func(args ...any) { log = append(log, "fork") })
	_ = e.Handler()(1)
	UnforkEvent(h)
	_ = e.Handler()(2)
	if diff := cmp.Diff([]string{"fork"}, log); diff != "" {
		t.Errorf("fork log (-want +got):\n%s", diff)
	}

	log = nil
	base := func(args ...any) error {
		log = append(log, "base")
		return nil
	}
	listener := func(args ...any) { log = append(log, "listener") }
	_ = ForkHandler(base, listener)()
	_ = ForkHandler(nil, listener)()
	if diff := cmp.Diff([]string{"base", "listener", "listener"}, log); diff != "" {
		t.Errorf("handler log (-want +got):\n%s", diff)
	}

	failing := func(args ...any) error { return ErrInvalidMapping }
	log = nil
	if err := ForkHandler(failing, listener)(); !errors.Is(err, ErrInvalidMapping) || len(log) != 0 {
		t.Errorf("failing base: err = %v, log = %v", err, log)
	}
}
