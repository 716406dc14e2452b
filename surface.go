package gallery

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Surface, interaction events are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type   EventType
	NodeID uint32 // 0 when no node is involved
	X, Y   float64
	// Button is set for clicks on the info button.
	Button bool
	// Enabled carries the new state for EventNoclip.
	Enabled bool
}

const (
	defaultClickThreshold  = 150 * time.Millisecond
	defaultDragPromptDelay = 100 * time.Millisecond
	defaultQueueSize       = 256
)

// SurfaceConfig configures a Surface. Zero values select the defaults.
type SurfaceConfig struct {
	// ClickThreshold is the longest press that still counts as a click.
	ClickThreshold time.Duration
	// DragPromptDelay is how long a press lasts before the drag prompt shows.
	DragPromptDelay time.Duration
	// QueueSize bounds the number of input events buffered between ticks.
	QueueSize int
	// Touch marks a touch device. Exhibitions place artworks with touch
	// radii and viewing distances.
	Touch bool
	// Debug logs per-tick statistics to stderr.
	Debug bool
}

func (c SurfaceConfig) withDefaults() SurfaceConfig {
	if c.ClickThreshold <= 0 {
		c.ClickThreshold = defaultClickThreshold
	}
	if c.DragPromptDelay <= 0 {
		c.DragPromptDelay = defaultDragPromptDelay
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	return c
}

// nodeOp is a deferred structural change to the node list.
type nodeOp struct {
	node *InteractionNode
	add  bool
}

// Surface is the control surface between raw input and the player. It turns
// pointer drags into look rotation, short presses into clicks, and keys into
// movement flags, and ticks every InteractionNode once per frame.
//
// Input reaches the surface as InputEvents through a bounded queue (Post).
// Update drains the queue before ticking, so a tick never observes a
// half-applied input.
type Surface struct {
	player Player
	camera Camera
	cfg    SurfaceConfig

	centre  Vec2
	forward mgl64.Vec3

	nodes   []*InteractionNode
	pending []nodeOp
	ticking bool

	events  chan InputEvent
	dropped atomic.Uint64

	session      *pointerSession
	pointerX     float64
	pointerY     float64
	pointerKnown bool

	activeNode bool
	hovered    map[uint32]bool

	handlers handlerRegistry
	store    EntityStore
	clock    func() time.Time

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string

	debug bool
	stats debugStats
}

// NewSurface creates a surface for a viewport of the given size.
func NewSurface(player Player, camera Camera, width, height int, cfg SurfaceConfig) *Surface {
	cfg = cfg.withDefaults()
	s := &Surface{
		player:  player,
		camera:  camera,
		cfg:     cfg,
		events:  make(chan InputEvent, cfg.QueueSize),
		hovered: make(map[uint32]bool),
		clock:   time.Now,
		debug:   cfg.Debug,
	}
	s.resize(width, height)
	return s
}

// Player returns the steered player.
func (s *Surface) Player() Player { return s.player }

// Camera returns the projection camera.
func (s *Surface) Camera() Camera { return s.camera }

// Config returns the effective configuration.
func (s *Surface) Config() SurfaceConfig { return s.cfg }

// Centre returns half the viewport size.
func (s *Surface) Centre() Vec2 { return s.centre }

// Pointer returns the last known pointer position.
func (s *Surface) Pointer() (x, y float64) { return s.pointerX, s.pointerY }

// Dragging reports whether a pointer session is active.
func (s *Surface) Dragging() bool { return s.session != nil }

// Interactable reports whether any node was hovered at the end of the last
// tick.
func (s *Surface) Interactable() bool { return s.activeNode }

// SetClock replaces the time source used to stamp events posted through the
// convenience methods. Intended for tests and replays.
func (s *Surface) SetClock(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	s.clock = fn
}

// SetEntityStore sets the optional ECS bridge.
func (s *Surface) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables per-tick stats on stderr.
func (s *Surface) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// --- Node list ---

// AddNode adds a node. During a tick the change is deferred to the end of
// the tick.
func (s *Surface) AddNode(n *InteractionNode) {
	if n == nil {
		return
	}
	if s.ticking {
		s.pending = append(s.pending, nodeOp{node: n, add: true})
		return
	}
	s.addNode(n)
}

// RemoveNode removes a node. During a tick the change is deferred to the end
// of the tick.
func (s *Surface) RemoveNode(n *InteractionNode) {
	if n == nil {
		return
	}
	if s.ticking {
		s.pending = append(s.pending, nodeOp{node: n})
		return
	}
	s.removeNode(n)
}

// Nodes returns the node list. The returned slice MUST NOT be mutated.
func (s *Surface) Nodes() []*InteractionNode {
	return s.nodes
}

func (s *Surface) addNode(n *InteractionNode) {
	for _, m := range s.nodes {
		if m == n {
			return
		}
	}
	s.nodes = append(s.nodes, n)
}

func (s *Surface) removeNode(n *InteractionNode) {
	for i, m := range s.nodes {
		if m == n {
			copy(s.nodes[i:], s.nodes[i+1:])
			s.nodes[len(s.nodes)-1] = nil
			s.nodes = s.nodes[:len(s.nodes)-1]
			break
		}
	}
	if s.hovered[n.ID] {
		delete(s.hovered, n.ID)
		s.fireHover(n, false)
	}
}

func (s *Surface) applyPending() {
	if len(s.pending) == 0 {
		return
	}
	for i, op := range s.pending {
		if op.add {
			s.addNode(op.node)
		} else {
			s.removeNode(op.node)
		}
		s.pending[i] = nodeOp{}
	}
	s.pending = s.pending[:0]
}

// --- Input queue ---

// Post queues an input event for the next tick. It never blocks and is safe
// to call from any goroutine. It returns false when the queue is full and
// the event was dropped. A zero Time is stamped with the surface clock.
func (s *Surface) Post(e InputEvent) bool {
	if e.Time.IsZero() {
		e.Time = s.clock()
	}
	select {
	case s.events <- e:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (s *Surface) Dropped() uint64 {
	return s.dropped.Load()
}

// PointerDown posts a pointer press at (x, y).
func (s *Surface) PointerDown(x, y float64) bool {
	return s.Post(InputEvent{Kind: InputPointerDown, X: x, Y: y})
}

// PointerMove posts a pointer move to (x, y).
func (s *Surface) PointerMove(x, y float64) bool {
	return s.Post(InputEvent{Kind: InputPointerMove, X: x, Y: y})
}

// PointerUp posts a pointer release at (x, y).
func (s *Surface) PointerUp(x, y float64) bool {
	return s.Post(InputEvent{Kind: InputPointerUp, X: x, Y: y})
}

// KeyDown posts an action press.
func (s *Surface) KeyDown(a Action, mods KeyModifiers) bool {
	return s.Post(InputEvent{Kind: InputKeyDown, Action: a, Modifiers: mods})
}

// KeyUp posts an action release.
func (s *Surface) KeyUp(a Action, mods KeyModifiers) bool {
	return s.Post(InputEvent{Kind: InputKeyUp, Action: a, Modifiers: mods})
}

// Resize posts a viewport size change. The new centre is in effect for the
// next tick.
func (s *Surface) Resize(width, height int) bool {
	return s.Post(InputEvent{Kind: InputResize, Width: width, Height: height})
}

// drain applies every queued event in arrival order.
func (s *Surface) drain() int {
	n := 0
	for {
		select {
		case e := <-s.events:
			s.handle(e)
			n++
		default:
			return n
		}
	}
}

func (s *Surface) handle(e InputEvent) {
	switch e.Kind {
	case InputPointerDown:
		s.pointerDown(e)
	case InputPointerMove:
		s.pointerMove(e)
	case InputPointerUp:
		s.pointerUp(e)
	case InputKeyDown:
		s.key(e, true)
	case InputKeyUp:
		s.key(e, false)
	case InputResize:
		s.resize(e.Width, e.Height)
	}
}

// --- Tick ---

// Update drains pending input, then updates every node with the current
// camera direction and hit-tests the pointer when no drag is active.
func (s *Surface) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.stats = debugStats{}
	}

	s.applyPending()
	s.ticking = true

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()
	events := s.drain()

	s.forward = s.camera.WorldDirection()
	for _, n := range s.nodes {
		n.Update(dt, s.player, s.camera, s.forward, s.centre)
	}
	if s.session == nil && s.pointerKnown {
		s.hoverTest()
	}
	s.trackHover()

	s.ticking = false
	s.applyPending()

	if s.debug {
		s.stats.events = events
		s.stats.tickTime = time.Since(t0)
		s.collectNodeStats()
		s.debugLog(s.stats)
	}
}

// hoverTest runs the pointer hit test against every node.
func (s *Surface) hoverTest() {
	for _, n := range s.nodes {
		n.MouseOver(s.pointerX, s.pointerY, s.player)
	}
}

// trackHover recomputes the interactable flag and reports hover transitions.
func (s *Surface) trackHover() {
	s.activeNode = false
	for _, n := range s.nodes {
		cur := n.IsHover()
		if cur {
			s.activeNode = true
		}
		if cur != s.hovered[n.ID] {
			if cur {
				s.hovered[n.ID] = true
			} else {
				delete(s.hovered, n.ID)
			}
			s.fireHover(n, cur)
		}
	}
}

// --- Pointer state machine ---

func (s *Surface) setPointer(x, y float64) {
	s.pointerX = x
	s.pointerY = y
	s.pointerKnown = true
}

// pointerDown starts a session and snapshots the player rotation.
func (s *Surface) pointerDown(e InputEvent) {
	s.setPointer(e.X, e.Y)
	if s.session != nil {
		return
	}
	s.session = &pointerSession{
		originX:  e.X,
		originY:  e.Y,
		lastX:    e.X,
		lastY:    e.Y,
		start:    e.Time,
		snapshot: s.player.Rotation(),
	}
}

// pointerMove rotates the player while dragging, otherwise hit-tests.
func (s *Surface) pointerMove(e InputEvent) {
	s.setPointer(e.X, e.Y)

	ps := s.session
	if ps == nil {
		s.hoverTest()
		return
	}
	if e.X == ps.lastX && e.Y == ps.lastY {
		return
	}
	ps.lastX = e.X
	ps.lastY = e.Y

	if s.player.Keys().Strafing() || s.centre.X <= 0 || s.centre.Y <= 0 {
		return
	}

	minPitch, maxPitch := s.player.PitchLimits()
	yaw := ps.snapshot.Yaw + (e.X-ps.originX)/s.centre.X
	pitch := mgl64.Clamp(ps.snapshot.Pitch+(e.Y-ps.originY)/s.centre.Y, minPitch, maxPitch)
	if pitch == minPitch || pitch == maxPitch {
		// Re-anchor so reversing direction responds immediately.
		ps.originY = e.Y
		ps.snapshot.Pitch = pitch
	}

	if !ps.rotated {
		ps.rotated = true
		s.fireDrag(EventDragStart, ps, e)
	}
	s.player.SetRotation(pitch, yaw)
}

// pointerUp ends the session. A press shorter than the click threshold is a
// click regardless of movement.
func (s *Surface) pointerUp(e InputEvent) {
	s.setPointer(e.X, e.Y)
	ps := s.session
	if ps == nil {
		return
	}
	s.session = nil

	if e.Time.Sub(ps.start) < s.cfg.ClickThreshold {
		s.click(e.X, e.Y)
		return
	}
	s.fireDrag(EventDragEnd, ps, e)
}

// click hit-tests every node at (x, y) and dispatches to each hovered one.
func (s *Surface) click(x, y float64) {
	hit := false
	for _, n := range s.nodes {
		n.MouseOver(x, y, s.player)
		if !n.IsHover() {
			continue
		}
		hit = true
		s.fireClick(ClickContext{Node: n, X: x, Y: y, Button: n.ButtonActive() && n.ButtonHover()})
	}
	if !hit {
		s.fireClick(ClickContext{X: x, Y: y})
	}
}

// key applies movement flags immediately and handles the noclip chord.
func (s *Surface) key(e InputEvent, down bool) {
	keys := s.player.Keys()
	switch e.Action {
	case ActionForward:
		keys.Forward = down
	case ActionBack:
		keys.Back = down
	case ActionLeft:
		keys.Left = down
	case ActionRight:
		keys.Right = down
	case ActionJump:
		keys.Jump = down
	case ActionNoclip:
		if down && e.Modifiers&ModCtrl != 0 {
			s.player.ToggleNoclip()
			s.fireNoclip(s.player.Noclip())
		}
	}
}

// viewportSetter is implemented by cameras whose projection depends on the
// viewport size.
type viewportSetter interface {
	SetViewport(width, height int)
}

func (s *Surface) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.centre = Vec2{X: float64(width) / 2, Y: float64(height) / 2}
	if vs, ok := s.camera.(viewportSetter); ok {
		vs.SetViewport(width, height)
	}
}

// --- Prompts ---

// DragPrompt reports whether the current press has lasted long enough to be
// shown as a look drag.
func (s *Surface) DragPrompt() bool {
	return s.session != nil && s.clock().Sub(s.session.start) > s.cfg.DragPromptDelay
}

// ClickPrompt reports whether a click would hit something.
func (s *Surface) ClickPrompt() bool {
	return s.session == nil && s.activeNode
}

// NoclipPrompt reports whether noclip mode is on.
func (s *Surface) NoclipPrompt() bool {
	return s.player.Noclip()
}

// --- Event dispatch ---

func (s *Surface) fireClick(ctx ClickContext) {
	for _, h := range s.handlers.click {
		h.fn(ctx)
	}
	var id uint32
	if ctx.Node != nil {
		id = ctx.Node.ID
		if ctx.Node.OnClick != nil {
			ctx.Node.OnClick(ctx)
		}
	}
	s.emit(InteractionEvent{Type: EventClick, NodeID: id, X: ctx.X, Y: ctx.Y, Button: ctx.Button})
}

func (s *Surface) fireHover(n *InteractionNode, enter bool) {
	t := EventHoverLeave
	hs := s.handlers.hoverLeave
	if enter {
		t = EventHoverEnter
		hs = s.handlers.hoverEnter
	}
	for _, h := range hs {
		h.fn(n)
	}
	s.emit(InteractionEvent{Type: t, NodeID: n.ID, X: s.pointerX, Y: s.pointerY})
}

func (s *Surface) fireDrag(t EventType, ps *pointerSession, e InputEvent) {
	ctx := DragContext{
		StartX: ps.originX, StartY: ps.originY,
		X: e.X, Y: e.Y,
		Duration: e.Time.Sub(ps.start),
	}
	hs := s.handlers.dragStart
	if t == EventDragEnd {
		hs = s.handlers.dragEnd
	}
	for _, h := range hs {
		h.fn(ctx)
	}
	s.emit(InteractionEvent{Type: t, X: e.X, Y: e.Y})
}

func (s *Surface) fireNoclip(enabled bool) {
	for _, h := range s.handlers.noclip {
		h.fn(enabled)
	}
	s.emit(InteractionEvent{Type: EventNoclip, Enabled: enabled})
}

func (s *Surface) emit(e InteractionEvent) {
	if s.store == nil {
		return
	}
	s.store.EmitEvent(e)
}
