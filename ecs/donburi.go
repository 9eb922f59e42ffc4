package ecs

import (
	"github.com/phanxgames/sway"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ValueResultType is the Donburi event type for getValue answers.
var ValueResultType = events.NewEventType[sway.ValueResult]()

// AnimationResultType is the Donburi event type for finished or stopped
// remote animations.
var AnimationResultType = events.NewEventType[sway.AnimationResult]()

// DonburiResults is a sway.ResultSource backed by a Donburi world. Published
// results are queued and delivered to subscribers by Process.
type DonburiResults struct {
	world donburi.World
}

var _ sway.ResultSource = (*DonburiResults)(nil)

// NewDonburiResults creates a result source publishing into world.
func NewDonburiResults(world donburi.World) *DonburiResults {
	return &DonburiResults{world: world}
}

// SubscribeResults implements sway.ResultSource.
func (r *DonburiResults) SubscribeResults(onValue func(sway.ValueResult), onAnimation func(sway.AnimationResult)) {
	if onValue != nil {
		ValueResultType.Subscribe(r.world, func(_ donburi.World, e sway.ValueResult) {
			onValue(e)
		})
	}
	if onAnimation != nil {
		AnimationResultType.Subscribe(r.world, func(_ donburi.World, e sway.AnimationResult) {
			onAnimation(e)
		})
	}
}

// PublishValue queues a value result.
func (r *DonburiResults) PublishValue(v sway.ValueResult) {
	ValueResultType.Publish(r.world, v)
}

// PublishAnimation queues an animation result.
func (r *DonburiResults) PublishAnimation(a sway.AnimationResult) {
	AnimationResultType.Publish(r.world, a)
}

// Process delivers queued results to subscribers, values first.
func (r *DonburiResults) Process() {
	ValueResultType.ProcessEvents(r.world)
	AnimationResultType.ProcessEvents(r.world)
}
