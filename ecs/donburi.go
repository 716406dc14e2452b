package ecs

import (
	"github.com/phanxgames/gallery"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for gallery interaction
// events.
var InteractionEventType = events.NewEventType[gallery.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) gallery.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event gallery.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeNode subscribes fn to the events of a single node. Events without
// a node (drags, noclip, clicks on empty space) are not delivered.
func SubscribeNode(world donburi.World, nodeID uint32, fn func(gallery.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e gallery.InteractionEvent) {
		if e.NodeID == nodeID {
			fn(e)
		}
	})
}
