// Package gallery is the interaction layer of a first-person gallery
// walkthrough built on [Ebitengine].
//
// It projects wall-mounted artwork panels from world space to the screen,
// hit-tests the pointer against them, and turns pointer and keyboard input
// into look rotation, movement and interaction events.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop around an [Exhibition]:
//
//	ex := gallery.NewExhibition(spawn, 1280, 720, gallery.SurfaceConfig{})
//	ex.Add(gallery.ArtworkData{ID: "a", Title: "Dawn", Width: 4, ...}, slot)
//	gallery.Run(ex, gallery.RunConfig{Title: "My Gallery"})
//
// Exhibitions are usually described in a file and loaded with the catalog
// subpackage.
//
// For full control, drive a [Surface] yourself: post [InputEvent] values
// from any input source, then call [Surface.Update] once per tick and
// [Overlay.Draw] once per frame with any [DrawContext].
//
// # Nodes
//
// An [InteractionNode] wraps an [Anchor]: a point on a wall, the wall
// normal and the board thickness. The anchor has no corners until the board
// size is known; [InteractionNode.SetCorners] makes it Ready. Each tick the
// node decides whether it is onscreen (in front of the camera and on the
// visible side of its clip plane), active (within [Range] Max of the player)
// and whether its projected quad is usable. [InteractionNode.MouseOver]
// hit-tests the quad and the info button, vetoed by a [Partition] when the
// player is in another room.
//
// # Surface
//
// The [Surface] is a small state machine. A press starts a pointer session;
// moving while pressed rotates the player by the drag distance relative to
// half the viewport, with pitch clamped. A release within
// [SurfaceConfig].ClickThreshold is a click and is dispatched to every
// hovered node. While no press is held the pointer is hit-tested every tick.
// Movement keys set flags on the player, and Ctrl+X toggles noclip.
//
// Callbacks can be registered per node ([InteractionNode].OnClick) or on the
// surface ([Surface.OnClick], [Surface.OnHoverEnter] and friends). Each
// returns a [CallbackHandle] whose Remove unregisters it. For ECS users,
// [Surface.SetEntityStore] forwards every event as an [InteractionEvent];
// see the ecs subpackage for a Donburi adapter.
//
// # Scripted input
//
// [Surface.InjectClick], [Surface.InjectDrag] and [Surface.InjectKey] queue
// synthetic input consumed one event per tick. [LoadTestScript] reads a JSON
// script of clicks, drags, keys, waits and screenshots for automated
// walkthroughs.
//
// [Ebitengine]: https://ebitengine.org
package gallery
