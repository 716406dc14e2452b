package gallery

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable time source.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// at returns t0 plus ms milliseconds.
func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

// ptr builds a pointer event stamped ms after t0.
func ptr(kind InputKind, x, y float64, ms int) InputEvent {
	return InputEvent{Kind: kind, X: x, Y: y, Time: at(ms)}
}

// newTestSurface returns a surface over the node scene from node_test.go.
func newTestSurface(t *testing.T, cfg SurfaceConfig) (*Surface, *scene, *fakeClock) {
	t.Helper()
	sc := newScene(t)
	clock := &fakeClock{now: t0}
	s := NewSurface(sc.player, sc.cam, 800, 600, cfg)
	s.SetClock(clock.Now)
	s.AddNode(sc.node)
	return s, sc, clock
}

func TestSurfaceDefaults(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	cfg := s.Config()
	if cfg.ClickThreshold != 150*time.Millisecond {
		t.Errorf("ClickThreshold = %v, want 150ms", cfg.ClickThreshold)
	}
	if cfg.DragPromptDelay != 100*time.Millisecond {
		t.Errorf("DragPromptDelay = %v, want 100ms", cfg.DragPromptDelay)
	}
	if cfg.QueueSize != 256 {
		t.Errorf("QueueSize = %d, want 256", cfg.QueueSize)
	}
	if s.Centre() != (Vec2{400, 300}) {
		t.Errorf("Centre = %v, want (400,300)", s.Centre())
	}
}

func TestSurfaceDragRotates(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	sc.player.SetRotation(0.1, 1)

	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerMove, 500, 330, 20))
	s.Update(1.0 / 60)

	r := sc.player.Rotation()
	if !approxEqual(r.Yaw, 1+100.0/400, epsilon) {
		t.Errorf("Yaw = %f, want %f", r.Yaw, 1+100.0/400)
	}
	if !approxEqual(r.Pitch, 0.1+30.0/300, epsilon) {
		t.Errorf("Pitch = %f, want %f", r.Pitch, 0.1+30.0/300)
	}
	if !s.Dragging() {
		t.Error("should be dragging while pressed")
	}

	// Deltas are measured from the press, not accumulated per move.
	s.Post(ptr(InputPointerMove, 450, 300, 40))
	s.Update(1.0 / 60)
	r = sc.player.Rotation()
	if !approxEqual(r.Yaw, 1+50.0/400, epsilon) || !approxEqual(r.Pitch, 0.1, epsilon) {
		t.Errorf("rotation = %+v, want yaw %f pitch 0.1", r, 1+50.0/400)
	}
}

func TestSurfacePitchClampReanchors(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	_, maxPitch := sc.player.PitchLimits()

	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerMove, 400, 2000, 10))
	s.Update(1.0 / 60)
	if got := sc.player.Rotation().Pitch; got != maxPitch {
		t.Fatalf("Pitch = %f, want clamp %f", got, maxPitch)
	}

	// Reversing responds at once from the clamp point.
	s.Post(ptr(InputPointerMove, 400, 1970, 20))
	s.Update(1.0 / 60)
	want := maxPitch - 30.0/300
	if got := sc.player.Rotation().Pitch; !approxEqual(got, want, epsilon) {
		t.Errorf("Pitch = %f, want %f", got, want)
	}
}

func TestSurfacePitchStaysInLimits(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	minPitch, maxPitch := sc.player.PitchLimits()
	rng := rand.New(rand.NewSource(1))

	ms := 0
	for session := 0; session < 50; session++ {
		x, y := rng.Float64()*800, rng.Float64()*600
		s.Post(ptr(InputPointerDown, x, y, ms))
		for i := 0; i < 20; i++ {
			ms += 16
			x += (rng.Float64() - 0.5) * 2000
			y += (rng.Float64() - 0.5) * 2000
			s.Post(ptr(InputPointerMove, x, y, ms))
			s.Update(1.0 / 60)
			p := sc.player.Rotation().Pitch
			if p < minPitch || p > maxPitch || math.IsNaN(p) {
				t.Fatalf("session %d move %d: pitch %f outside [%f, %f]", session, i, p, minPitch, maxPitch)
			}
		}
		ms += 16
		s.Post(ptr(InputPointerUp, x, y, ms))
		s.Update(1.0 / 60)
	}
}

func TestSurfaceStrafeSuppressesRotation(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.KeyDown(ActionLeft, 0)
	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerMove, 600, 300, 10))
	s.Update(1.0 / 60)

	if !sc.player.Keys().Left {
		t.Fatal("left key flag not set")
	}
	if r := sc.player.Rotation(); r.Yaw != 0 || r.Pitch != 0 {
		t.Errorf("rotation = %+v while strafing, want zero", r)
	}
}

func TestSurfaceZeroMovementDoesNotRotate(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	var starts int
	s.OnDragStart(func(DragContext) { starts++ })

	sc.player.SetRotation(0.2, 0.3)
	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerMove, 400, 300, 10))
	s.Update(1.0 / 60)

	if starts != 0 {
		t.Error("drag start fired without movement")
	}
	if r := sc.player.Rotation(); r != (Rotation{Pitch: 0.2, Yaw: 0.3}) {
		t.Errorf("rotation changed to %+v", r)
	}
}

func TestSurfaceClickVersusDrag(t *testing.T) {
	tests := []struct {
		name    string
		release int
		click   bool
	}{
		{"quick", 50, true},
		{"just under", 149, true},
		{"at threshold", 150, false},
		{"long", 600, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sc, _ := newTestSurface(t, SurfaceConfig{})
			var clicks, ends int
			s.OnClick(func(ctx ClickContext) {
				clicks++
				if ctx.Node != sc.node {
					t.Errorf("click node = %v, want the scene node", ctx.Node)
				}
			})
			s.OnDragEnd(func(DragContext) { ends++ })

			s.Update(1.0 / 60) // project the node
			s.Post(ptr(InputPointerDown, 400, 300, 0))
			s.Post(ptr(InputPointerUp, 400, 300, tt.release))
			s.Update(1.0 / 60)

			if tt.click && (clicks != 1 || ends != 0) {
				t.Errorf("clicks=%d ends=%d, want a click", clicks, ends)
			}
			if !tt.click && (clicks != 0 || ends != 1) {
				t.Errorf("clicks=%d ends=%d, want a drag end", clicks, ends)
			}
			if s.Dragging() {
				t.Error("session should end on release")
			}
		})
	}
}

func TestSurfaceClickEvenAfterMovement(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	var hit *InteractionNode
	sc.node.OnClick = func(ctx ClickContext) { hit = ctx.Node }

	s.Update(1.0 / 60)
	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerMove, 402, 301, 30))
	s.Post(ptr(InputPointerUp, 402, 301, 60))
	s.Update(1.0 / 60)

	if hit != sc.node {
		t.Error("short press with movement should still click the node")
	}
}

func TestSurfaceClickOnEmptySpace(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	var got []ClickContext
	s.OnClick(func(ctx ClickContext) { got = append(got, ctx) })

	s.Update(1.0 / 60)
	s.Post(ptr(InputPointerDown, 10, 10, 0))
	s.Post(ptr(InputPointerUp, 10, 10, 20))
	s.Update(1.0 / 60)

	if len(got) != 1 || got[0].Node != nil {
		t.Errorf("clicks = %+v, want one with nil node", got)
	}
}

func TestSurfaceClickButtonFlag(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	sc.player.SetPosition(mgl64.Vec3{20, 0, 5})
	var ctx ClickContext
	sc.node.OnClick = func(c ClickContext) { ctx = c }

	s.Update(1.0 / 60)
	b := sc.node.buttonCentre()
	s.Post(ptr(InputPointerDown, b.X, b.Y, 0))
	s.Post(ptr(InputPointerUp, b.X, b.Y, 30))
	s.Update(1.0 / 60)

	if ctx.Node != sc.node || !ctx.Button {
		t.Errorf("click = %+v, want node click with Button", ctx)
	}
}

func TestSurfaceHoverEvents(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	var events []string
	s.OnHoverEnter(func(n *InteractionNode) {
		if n != sc.node {
			t.Error("hover enter for wrong node")
		}
		events = append(events, "enter")
	})
	s.OnHoverLeave(func(*InteractionNode) { events = append(events, "leave") })

	s.Update(1.0 / 60)
	s.PointerMove(400, 300)
	s.Update(1.0 / 60)
	if !s.Interactable() || !s.ClickPrompt() {
		t.Error("hovered node should make the surface interactable")
	}
	s.Update(1.0 / 60) // no change, no event
	s.PointerMove(5, 5)
	s.Update(1.0 / 60)

	if len(events) != 2 || events[0] != "enter" || events[1] != "leave" {
		t.Errorf("events = %v, want [enter leave]", events)
	}
	if s.Interactable() {
		t.Error("surface should not be interactable after leave")
	}
}

func TestSurfaceNoHoverTestWhileDragging(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.Update(1.0 / 60)

	s.Post(ptr(InputPointerDown, 5, 5, 0))
	s.Update(1.0 / 60)
	// Moving onto the node while pressed rotates, it does not hover.
	s.Post(ptr(InputPointerMove, 400, 300, 10))
	s.Update(1.0 / 60)

	if sc.node.IsHover() {
		t.Error("node hovered during a drag")
	}
	if s.ClickPrompt() {
		t.Error("click prompt shown during a drag")
	}
}

func TestSurfaceHandlerRemove(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	var a, b int
	ha := s.OnClick(func(ClickContext) { a++ })
	s.OnClick(func(ClickContext) { b++ })
	ha.Remove()
	ha.Remove() // idempotent

	s.Post(ptr(InputPointerDown, 5, 5, 0))
	s.Post(ptr(InputPointerUp, 5, 5, 10))
	s.Update(1.0 / 60)

	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d, want 0 and 1", a, b)
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}

func TestSurfaceDeferredNodeChanges(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	dir := mgl64.Vec3{0, 0, 1}
	other := NewInteractionNode(NewAnchor(mgl64.Vec3{30, 3, 0}, dir, 0.2), &dir)

	var during int
	sc.node.OnClick = func(ClickContext) {
		s.RemoveNode(sc.node)
		s.AddNode(other)
		during = len(s.Nodes())
		if s.Nodes()[0] != sc.node {
			t.Error("node list changed during the tick")
		}
	}

	s.Update(1.0 / 60)
	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerUp, 400, 300, 10))
	s.Update(1.0 / 60)

	if during != 1 {
		t.Errorf("len(Nodes) during tick = %d, want 1", during)
	}
	nodes := s.Nodes()
	if len(nodes) != 1 || nodes[0] != other {
		t.Errorf("nodes after tick = %v, want [other]", nodes)
	}
}

func TestSurfaceAddRemoveOutsideTick(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.AddNode(sc.node) // duplicate ignored
	if len(s.Nodes()) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1", len(s.Nodes()))
	}
	s.RemoveNode(sc.node)
	if len(s.Nodes()) != 0 {
		t.Errorf("len(Nodes) = %d, want 0", len(s.Nodes()))
	}
	s.AddNode(nil)
	s.RemoveNode(nil)
}

func TestSurfaceRemoveHoveredFiresLeave(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	var left int
	s.OnHoverLeave(func(*InteractionNode) { left++ })
	s.Update(1.0 / 60)
	s.PointerMove(400, 300)
	s.Update(1.0 / 60)

	s.RemoveNode(sc.node)
	if left != 1 {
		t.Errorf("leave fired %d times, want 1", left)
	}
}

func TestSurfaceQueueBound(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{QueueSize: 2})
	if !s.PointerMove(1, 1) || !s.PointerMove(2, 2) {
		t.Fatal("first two posts should fit")
	}
	if s.PointerMove(3, 3) {
		t.Error("third post should be dropped")
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped())
	}
	s.Update(1.0 / 60)
	if x, y := s.Pointer(); x != 2 || y != 2 {
		t.Errorf("pointer = (%v,%v), want last accepted (2,2)", x, y)
	}
	if !s.PointerMove(4, 4) {
		t.Error("queue should accept after drain")
	}
}

func TestSurfacePostStampsTime(t *testing.T) {
	s, _, clock := newTestSurface(t, SurfaceConfig{})
	clock.Advance(time.Second)
	s.PointerDown(1, 1)
	e := <-s.events
	if !e.Time.Equal(t0.Add(time.Second)) {
		t.Errorf("Time = %v, want clock time", e.Time)
	}
}

func TestSurfaceMovementKeys(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	for _, a := range []Action{ActionForward, ActionBack, ActionLeft, ActionRight, ActionJump} {
		s.KeyDown(a, 0)
	}
	s.Update(1.0 / 60)
	k := *sc.player.Keys()
	if !(k.Forward && k.Back && k.Left && k.Right && k.Jump) {
		t.Errorf("keys = %+v, want all set", k)
	}
	s.KeyUp(ActionForward, 0)
	s.KeyUp(ActionLeft, 0)
	s.Update(1.0 / 60)
	k = *sc.player.Keys()
	if k.Forward || k.Left || !k.Back {
		t.Errorf("keys = %+v after release", k)
	}
}

func TestSurfaceNoclipChord(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	var toggles []bool
	s.OnNoclip(func(on bool) { toggles = append(toggles, on) })

	s.KeyDown(ActionNoclip, 0)
	s.KeyDown(ActionNoclip, ModShift)
	s.Update(1.0 / 60)
	if sc.player.Noclip() {
		t.Fatal("X without Ctrl toggled noclip")
	}

	s.KeyDown(ActionNoclip, ModCtrl)
	s.KeyUp(ActionNoclip, ModCtrl)
	s.Update(1.0 / 60)
	if !sc.player.Noclip() || !s.NoclipPrompt() {
		t.Error("Ctrl+X should enable noclip")
	}
	s.KeyDown(ActionNoclip, ModCtrl|ModShift)
	s.Update(1.0 / 60)
	if sc.player.Noclip() {
		t.Error("second Ctrl+X should disable noclip")
	}
	if len(toggles) != 2 || !toggles[0] || toggles[1] {
		t.Errorf("toggles = %v, want [true false]", toggles)
	}
}

func TestSurfaceResize(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.Resize(1600, 800)
	if s.Centre() != (Vec2{400, 300}) {
		t.Error("centre changed before the tick")
	}
	s.Update(1.0 / 60)
	if s.Centre() != (Vec2{800, 400}) {
		t.Errorf("Centre = %v, want (800,400)", s.Centre())
	}
	if !approxEqual(sc.cam.Aspect, 2, epsilon) {
		t.Errorf("camera Aspect = %f, want 2", sc.cam.Aspect)
	}
	p := sc.node.ScreenPosition()
	if !approxEqual(p.X, 800, 1e-6) || !approxEqual(p.Y, 400, 1e-6) {
		t.Errorf("node projected at %v, want new centre", p)
	}

	s.Resize(0, 0)
	s.Update(1.0 / 60)
	if s.Centre() != (Vec2{800, 400}) {
		t.Error("zero resize should be ignored")
	}
}

func TestSurfaceDragPrompt(t *testing.T) {
	s, _, clock := newTestSurface(t, SurfaceConfig{})
	if s.DragPrompt() {
		t.Error("drag prompt while idle")
	}
	s.Post(ptr(InputPointerDown, 5, 5, 0))
	s.Update(1.0 / 60)

	clock.Advance(100 * time.Millisecond)
	if s.DragPrompt() {
		t.Error("drag prompt at exactly the delay")
	}
	clock.Advance(time.Millisecond)
	if !s.DragPrompt() {
		t.Error("drag prompt missing after the delay")
	}
}

func TestSurfaceDragEvents(t *testing.T) {
	s, _, _ := newTestSurface(t, SurfaceConfig{})
	var started, ended []DragContext
	s.OnDragStart(func(c DragContext) { started = append(started, c) })
	s.OnDragEnd(func(c DragContext) { ended = append(ended, c) })

	s.Post(ptr(InputPointerDown, 100, 100, 0))
	s.Post(ptr(InputPointerMove, 120, 100, 50))
	s.Post(ptr(InputPointerMove, 140, 100, 100))
	s.Post(ptr(InputPointerUp, 140, 100, 300))
	s.Update(1.0 / 60)

	if len(started) != 1 {
		t.Fatalf("drag start fired %d times, want 1", len(started))
	}
	if len(ended) != 1 {
		t.Fatalf("drag end fired %d times, want 1", len(ended))
	}
	if ended[0].StartX != 100 || ended[0].X != 140 || ended[0].Duration != 300*time.Millisecond {
		t.Errorf("drag end = %+v", ended[0])
	}
}

type recordingStore struct{ events []InteractionEvent }

func (r *recordingStore) EmitEvent(e InteractionEvent) { r.events = append(r.events, e) }

func TestSurfaceEntityStore(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	store := &recordingStore{}
	s.SetEntityStore(store)

	s.Update(1.0 / 60)
	s.Post(ptr(InputPointerMove, 400, 300, 0))
	s.Post(ptr(InputPointerDown, 400, 300, 0))
	s.Post(ptr(InputPointerUp, 400, 300, 10))
	s.Update(1.0 / 60)

	var types []EventType
	for _, e := range store.events {
		types = append(types, e.Type)
	}
	want := []EventType{EventClick, EventHoverEnter}
	if len(types) != len(want) || types[0] != want[0] || types[1] != want[1] {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	if store.events[0].NodeID != sc.node.ID {
		t.Errorf("click NodeID = %d, want %d", store.events[0].NodeID, sc.node.ID)
	}
}

func TestSurfaceUpdateWithoutPointer(t *testing.T) {
	s, sc, _ := newTestSurface(t, SurfaceConfig{})
	s.Update(1.0 / 60)
	if sc.node.IsHover() {
		t.Error("no pointer yet, node should not hover")
	}
}
