package sway

// OpCode identifies a remote operation in a flattened batch.
type OpCode uint8

const (
	OpCreateNode OpCode = iota + 1
	OpConnectNodes
	OpDisconnectNodes
	OpStartAnimating
	OpStopAnimation
	OpSetValue
	OpSetOffset
	OpFlattenOffset
	OpExtractOffset
	OpConnectToTarget
	OpDisconnectFromTarget
	OpRestoreDefaults
	OpDropNode
	OpAddEventMapping
	OpRemoveEventMapping
	OpGetValue
)

var opNames = [...]string{
	OpCreateNode:           "createNode",
	OpConnectNodes:         "connectNodes",
	OpDisconnectNodes:      "disconnectNodes",
	OpStartAnimating:       "startAnimating",
	OpStopAnimation:        "stopAnimation",
	OpSetValue:             "setValue",
	OpSetOffset:            "setOffset",
	OpFlattenOffset:        "flattenOffset",
	OpExtractOffset:        "extractOffset",
	OpConnectToTarget:      "connectToTarget",
	OpDisconnectFromTarget: "disconnectFromTarget",
	OpRestoreDefaults:      "restoreDefaults",
	OpDropNode:             "dropNode",
	OpAddEventMapping:      "addEventMapping",
	OpRemoveEventMapping:   "removeEventMapping",
	OpGetValue:             "getValue",
}

func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "unknown"
}

// Instruction is one operation in a flattened batch. Only the fields used by
// Op are set:
//
//	createNode            Tag, Config
//	connect/disconnect    Tag (parent), Other (child)
//	startAnimating        AnimationID, Tag, Config
//	stopAnimation         AnimationID
//	setValue, setOffset   Tag, Value
//	*Target               Tag, Other (target id)
//	*EventMapping         Other (target id), Event, Path, Tag
//	others                Tag
type Instruction struct {
	Op          OpCode
	Tag         int
	Other       int
	AnimationID int
	Value       float64
	Event       string
	Path        []string
	Config      map[string]any
}

// Executor is the remote side reached one call per operation (closure-queue
// mode). Callbacks may be invoked later; they must be delivered on the
// goroutine that owns the Bridge.
type Executor interface {
	CreateNode(tag int, config map[string]any)
	ConnectNodes(parent, child int)
	DisconnectNodes(parent, child int)
	StartAnimating(animationID, tag int, config map[string]any, done func(AnimationResult))
	StopAnimation(animationID int)
	SetValue(tag int, value float64)
	SetOffset(tag int, offset float64)
	FlattenOffset(tag int)
	ExtractOffset(tag int)
	ConnectToTarget(tag, target int)
	DisconnectFromTarget(tag, target int)
	RestoreDefaults(tag int)
	DropNode(tag int)
	AddEventMapping(target int, event string, path []string, tag int)
	RemoveEventMapping(target int, event string, tag int)
	GetValue(tag int, cb func(float64))
}

// BatchExecutor accepts a whole flattened batch in one call. Results for
// getValue and startAnimating come back through a ResultSource.
type BatchExecutor interface {
	ExecuteBatch(batch []Instruction)
}

// ValueResult answers a getValue request.
type ValueResult struct {
	Tag   int
	Value float64
}

// AnimationResult reports the end of a remote animation.
type AnimationResult struct {
	AnimationID int
	Finished    bool
	Value       float64
	HasValue    bool
}

// ResultSource is the pub/sub channel over which the remote side reports
// results. Handlers are invoked on the goroutine that owns the Bridge.
type ResultSource interface {
	SubscribeResults(onValue func(ValueResult), onAnimation func(AnimationResult))
}
