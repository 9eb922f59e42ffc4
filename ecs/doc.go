// Package ecs provides ECS adapters for sway's remote result channel.
//
// The primary adapter is [NewDonburiResults], which carries remote value and
// animation results through a [Donburi] world as typed events. A Bridge
// subscribes to it like any other result source, and ECS systems may
// subscribe to [ValueResultType] and [AnimationResultType] as well.
//
// Usage:
//
//	results := ecs.NewDonburiResults(world)
//	bridge := sway.NewBridge(exec, sway.WithBatching(), sway.WithResultSource(results))
//	inbox.SubscribeResults(results.PublishValue, results.PublishAnimation)
//
//	// each frame, on the game goroutine:
//	inbox.Drain()
//	results.Process()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
