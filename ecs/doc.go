// Package ecs provides ECS adapters for gallery's interaction event system.
//
// The primary adapter is [NewDonburiStore], which bridges surface events
// (click, hover, drag, noclip) into a [Donburi] world as typed events.
// Subscribe to [InteractionEventType] in your ECS systems to receive them,
// or use [SubscribeNode] to receive only the events of one node.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	surface.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
