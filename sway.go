package sway

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for paired values such as positions and offsets.
type Vec2 struct {
	X, Y float64
}

// NodeKind distinguishes how a Node computes its value. The set is closed:
// every switch over NodeKind in this package is exhaustive.
type NodeKind uint8

const (
	KindValue          NodeKind = iota // writable leaf holding value + offset
	KindAddition                       // a + b
	KindSubtraction                    // a - b
	KindMultiplication                 // a * b
	KindDivision                       // a / b (0 when b is 0)
	KindModulo                         // a mod m, always non-negative
	KindDiffClamp                      // running sum of input deltas clamped to [min, max]
	KindInterpolation                  // piecewise-linear range mapping
	KindColor                          // four value parents combined into a Color
	KindTracking                       // drives a destination value toward a source
	KindProps                          // named style and transform inputs for a target
)

var kindNames = [...]string{
	KindValue:          "value",
	KindAddition:       "addition",
	KindSubtraction:    "subtraction",
	KindMultiplication: "multiplication",
	KindDivision:       "division",
	KindModulo:         "modulus",
	KindDiffClamp:      "diffclamp",
	KindInterpolation:  "interpolation",
	KindColor:          "color",
	KindTracking:       "tracking",
	KindProps:          "props",
}

// String returns the node type name used in remote node configs.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Result is the completion payload delivered exactly once per started
// animation. Finished is false when the animation was stopped or a child
// of a composite did not finish.
type Result struct {
	Finished bool
}

// Handle is the controllable unit returned by drivers and combinators.
type Handle interface {
	// Start begins the animation. onComplete may be nil.
	Start(onComplete func(Result))
	// Stop halts the animation; the pending onComplete fires with Finished false.
	Stop()
	// Reset returns the handle to a startable state.
	Reset()
	// UsesRemoteDriver reports whether the animation runs on the remote executor.
	UsesRemoteDriver() bool
	// StartRemoteLoop hands the whole loop to the remote executor. On error
	// onComplete has already fired with Finished false.
	StartRemoteLoop(iterations int, onComplete func(Result)) error
}

func complete(cb func(Result), r Result) {
	if cb != nil {
		cb(r)
	}
}
