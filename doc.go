// Package sway is an animated value graph for frame-driven programs.
//
// Sway provides value nodes and the derived nodes computed from them, timing
// animations and the combinators that compose them, event mappings, and a
// bridge that mirrors any part of the graph to a remote executor so that
// animations keep running without the calling goroutine.
//
// # Quick start
//
// Create a [Graph], build values and animations, and advance its [Clock]
// once per frame:
//
//	g := sway.NewGraph(nil, nil)
//	x := g.Value(0)
//	opacity, _ := g.Interpolate(x, sway.InterpolationConfig{
//		InputRange:  []float64{0, 100},
//		OutputRange: []float64{1, 0},
//		Extrapolate: sway.ExtrapolateClamp,
//	})
//
//	slide := g.Timing(x, sway.TimingConfig{ToValue: 100, Duration: 300 * time.Millisecond})
//	slide.Start(func(r sway.Result) { log.Println("finished:", r.Finished) })
//
//	// in Update:
//	g.Clock().Update(float32(1) / float32(ebiten.TPS()))
//
// # Nodes
//
// Every node is a [Node] with a [NodeKind]. [Graph.Value] creates writable
// leaves; [Graph.Add], [Graph.Subtract], [Graph.Multiply], [Graph.Divide],
// [Graph.Modulo], [Graph.DiffClamp] and [Graph.Interpolate] derive new
// values from existing ones. Derived nodes recompute on read, and listeners
// registered with [Node.AddListener] fire whenever an upstream value changes.
//
// [Graph.Color] combines four channel values, [Graph.Props] gathers style
// and transform inputs for a render target, and [Graph.Track] makes one
// value chase another.
//
// # Animations
//
// Drivers and combinators all return a [Handle]. [Graph.Timing] tweens a
// value with a named easing. [Sequence], [Parallel], [Graph.Stagger],
// [Loop] and [Graph.Delay] compose handles; each reports completion exactly
// once through its [Result].
//
// # Remote execution
//
// A [Bridge] forwards graph operations to an [Executor]. Nodes are mirrored
// on demand: starting an animation with UseRemoteDriver, connecting props to
// a target, or attaching a remote [Event] replicates the node and everything
// it reads. Operations can be held while waiters are registered
// ([Bridge.BeginWaitingFor]), sent one by one or as flattened batches
// ([WithBatching]), and debounced to one flush per frame ([WithScheduler]).
// Results come back by correlation id through a [ResultSource].
//
// The remote subpackage provides an in-process executor, and the ecs
// subpackage carries results through a Donburi world.
//
// # Scripts
//
// [LoadScript] reads a YAML or JSON description of values and steps, and
// [Script.Run] plays it frame by frame. The sway command runs and views
// scripts.
package sway
