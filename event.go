package sway

import (
	"fmt"
	"sort"
)

// EventPayloadKey is the key under which the first event argument carries
// its payload. Remote event mappings are rooted there.
const EventPayloadKey = "nativeEvent"

// Mapping is a shape template for one event argument. Leaves are *Node
// (a value node written with the number found there), ValueXY (written
// from an "x"/"y" pair) or a nested Mapping.
type Mapping map[string]any

// EventListener receives the raw arguments of every event.
type EventListener func(args ...any)

// EventHandler is what an event source calls with its arguments.
type EventHandler func(args ...any) error

// EventConfig configures Graph.Event.
type EventConfig struct {
	// Listener, if set, is registered as the first listener.
	Listener EventListener
	// UseRemoteDriver makes the remote executor write the mapped nodes
	// directly once the event is attached. The handler then only
	// dispatches listeners.
	UseRemoteDriver bool
}

type eventBinding struct {
	path []string
	node *Node
}

type eventListener struct {
	id uint32
	fn EventListener
}

// Event routes structured event arguments into value nodes, either by
// writing them locally or by registering remote mappings on attach.
type Event struct {
	graph    *Graph
	mapping  []any
	bindings []eventBinding
	remote   bool

	listeners    []eventListener
	nextListener uint32
	validated    bool

	attached bool
	target   int
	name     string
}

// Event builds an event from a positional argument mapping. mapping[0]
// must be a Mapping holding EventPayloadKey. Local events may leave
// mapping[0] nil and map later arguments only.
func (g *Graph) Event(mapping []any, cfg EventConfig) (*Event, error) {
	e := &Event{graph: g, mapping: mapping, remote: cfg.UseRemoteDriver}

	var root any
	if len(mapping) > 0 {
		root = mapping[0]
	}
	switch m := root.(type) {
	case nil:
		if e.remote {
			return nil, fmt.Errorf("sway: remote event needs a %q mapping at argument 0: %w", EventPayloadKey, ErrInvalidMapping)
		}
	case Mapping:
		if err := e.compileRoot(m); err != nil {
			return nil, err
		}
	case map[string]any:
		if err := e.compileRoot(m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sway: event argument 0 mapped to %T: %w", root, ErrInvalidMapping)
	}

	if cfg.Listener != nil {
		e.AddListener(cfg.Listener)
	}
	return e, nil
}

func (e *Event) compileRoot(m map[string]any) error {
	payload, ok := m[EventPayloadKey]
	if !ok {
		return fmt.Errorf("sway: event argument 0 has no %q key: %w", EventPayloadKey, ErrInvalidMapping)
	}
	return e.compile(payload, nil)
}

// compile records a (path, node) binding for every terminal below v.
func (e *Event) compile(v any, path []string) error {
	switch m := v.(type) {
	case *Node:
		if m == nil || m.Kind != KindValue {
			return fmt.Errorf("sway: event path %v must end in a value node: %w", path, ErrInvalidMapping)
		}
		e.bindings = append(e.bindings, eventBinding{path: append([]string(nil), path...), node: m})
	case ValueXY:
		if err := e.compile(m.X, appendPath(path, "x")); err != nil {
			return err
		}
		return e.compile(m.Y, appendPath(path, "y"))
	case Mapping:
		return e.compileMap(m, path)
	case map[string]any:
		return e.compileMap(m, path)
	default:
		return fmt.Errorf("sway: event path %v mapped to %T: %w", path, v, ErrInvalidMapping)
	}
	return nil
}

func (e *Event) compileMap(m map[string]any, path []string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := e.compile(m[k], appendPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

// UsesRemoteDriver reports whether the event is written by the remote
// executor.
func (e *Event) UsesRemoteDriver() bool {
	return e.remote
}

// Handler returns the function an event source calls. For remote events it
// only dispatches listeners. Otherwise it writes every mapped node from the
// arguments, then dispatches listeners. The argument shape is checked on the
// first call only.
func (e *Event) Handler() EventHandler {
	if e.remote {
		return func(args ...any) error {
			e.dispatch(args)
			return nil
		}
	}
	return func(args ...any) error {
		if !e.validated {
			for i, m := range e.mapping {
				if m == nil || i >= len(args) {
					continue
				}
				if err := validateEventArg(m, args[i], []string{fmt.Sprint(i)}); err != nil {
					return err
				}
			}
			e.validated = true
		}
		for i, m := range e.mapping {
			if m == nil || i >= len(args) {
				continue
			}
			if err := writeEventArg(m, args[i]); err != nil {
				return err
			}
		}
		e.dispatch(args)
		return nil
	}
}

func validateEventArg(m, v any, path []string) error {
	switch mm := m.(type) {
	case *Node:
		if _, ok := ToFloat(v); !ok {
			return fmt.Errorf("sway: event value at %v is %T, want a number: %w", path, v, ErrInvalidMapping)
		}
	case ValueXY:
		obj, ok := v.(map[string]any)
		if !ok {
			if _, isVec := v.(Vec2); isVec {
				return nil
			}
			return fmt.Errorf("sway: event value at %v is %T, want an x/y object: %w", path, v, ErrInvalidMapping)
		}
		if err := validateEventArg(mm.X, obj["x"], appendPath(path, "x")); err != nil {
			return err
		}
		return validateEventArg(mm.Y, obj["y"], appendPath(path, "y"))
	case Mapping:
		return validateEventMap(mm, v, path)
	case map[string]any:
		return validateEventMap(mm, v, path)
	}
	return nil
}

func validateEventMap(m map[string]any, v any, path []string) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("sway: event value at %v is %T, want an object: %w", path, v, ErrInvalidMapping)
	}
	for k, sub := range m {
		if err := validateEventArg(sub, obj[k], appendPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

func writeEventArg(m, v any) error {
	switch mm := m.(type) {
	case *Node:
		f, ok := ToFloat(v)
		if !ok {
			return nil
		}
		return mm.SetValue(f)
	case ValueXY:
		switch p := v.(type) {
		case Vec2:
			return mm.SetValue(p)
		case map[string]any:
			if err := writeEventArg(mm.X, p["x"]); err != nil {
				return err
			}
			return writeEventArg(mm.Y, p["y"])
		}
	case Mapping:
		return writeEventMap(mm, v)
	case map[string]any:
		return writeEventMap(mm, v)
	}
	return nil
}

func writeEventMap(m map[string]any, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for k, sub := range m {
		if err := writeEventArg(sub, obj[k]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Event) dispatch(args []any) {
	for _, l := range e.listeners {
		l.fn(args...)
	}
}

// AddListener registers fn to receive the raw arguments of every event, in
// local and remote mode alike.
func (e *Event) AddListener(fn EventListener) ListenerHandle {
	e.nextListener++
	id := e.nextListener
	e.listeners = append(e.listeners, eventListener{id: id, fn: fn})
	return ListenerHandle{id: id, remove: e.removeListener}
}

func (e *Event) removeListener(id uint32) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Attach binds the event to a named event of a target. Remote events mirror
// every mapped node and register one mapping per path. Attaching twice
// without Detach fails with ErrInvalidOperation.
func (e *Event) Attach(viewRef any, name string) error {
	if e.attached {
		return fmt.Errorf("sway: event already attached to %q on target %d: %w", e.name, e.target, ErrInvalidOperation)
	}
	target, err := e.graph.resolve(viewRef)
	if err != nil {
		return err
	}
	if e.remote {
		b := e.graph.bridge
		for _, bd := range e.bindings {
			if err := bd.node.Mirror(); err != nil {
				return err
			}
		}
		for _, bd := range e.bindings {
			if err := b.AddEventMapping(target, name, bd.path, bd.node.tag); err != nil {
				return err
			}
		}
	}
	e.attached = true
	e.target = target
	e.name = name
	return nil
}

// Detach reverses Attach. It is a no-op on an unattached event.
func (e *Event) Detach() error {
	if !e.attached {
		return nil
	}
	target, name := e.target, e.name
	e.attached = false
	e.target = 0
	e.name = ""
	if !e.remote {
		return nil
	}
	b := e.graph.bridge
	for _, bd := range e.bindings {
		if err := b.RemoveEventMapping(target, name, bd.node.tag); err != nil {
			return err
		}
	}
	return nil
}

// Attached reports the target and event name the event is attached to.
func (e *Event) Attached() (target int, name string, ok bool) {
	return e.target, e.name, e.attached
}

// ForkEvent adds listener to e so one event feeds both the graph and
// another consumer. Remove the returned handle, or pass it to UnforkEvent,
// to undo it.
func ForkEvent(e *Event, listener EventListener) ListenerHandle {
	return e.AddListener(listener)
}

// UnforkEvent removes a listener added by ForkEvent.
func UnforkEvent(h ListenerHandle) {
	h.Remove()
}

// ForkHandler chains listener after a plain handler. A nil handler yields a
// handler that only calls listener.
func ForkHandler(h EventHandler, listener EventListener) EventHandler {
	if h == nil {
		return func(args ...any) error {
			listener(args...)
			return nil
		}
	}
	return func(args ...any) error {
		if err := h(args...); err != nil {
			return err
		}
		listener(args...)
		return nil
	}
}
