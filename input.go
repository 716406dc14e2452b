package gallery

import "time"

// InputKind identifies the kind of an InputEvent.
type InputKind uint8

const (
	InputPointerDown InputKind = iota
	InputPointerMove
	InputPointerUp
	InputKeyDown
	InputKeyUp
	InputResize
)

// InputEvent is a single input notification. Input sources post events to
// the surface queue; the surface applies them at the start of the next tick.
type InputEvent struct {
	Kind InputKind
	Time time.Time

	// Pointer position for pointer events.
	X, Y float64

	// Action and modifiers for key events.
	Action    Action
	Modifiers KeyModifiers

	// Viewport size for resize events.
	Width, Height int
}

// pointerSession is the state of one press-to-release interaction.
type pointerSession struct {
	originX, originY float64
	lastX, lastY     float64
	start            time.Time
	snapshot         Rotation
	rotated          bool
}

// --- Handler registry ---

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type nodeHandler struct {
	id uint32
	fn func(*InteractionNode)
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

type toggleHandler struct {
	id uint32
	fn func(bool)
}

// DragContext carries look-drag data.
type DragContext struct {
	StartX, StartY float64
	X, Y           float64
	Duration       time.Duration
}

type handlerRegistry struct {
	click      []clickHandler
	hoverEnter []nodeHandler
	hoverLeave []nodeHandler
	dragStart  []dragHandler
	dragEnd    []dragHandler
	noclip     []toggleHandler
	nextID     uint32
}

// CallbackHandle allows removing a registered surface-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, h.id, func(c clickHandler) uint32 { return c.id })
	case EventHoverEnter:
		h.reg.hoverEnter = removeHandler(h.reg.hoverEnter, h.id, func(c nodeHandler) uint32 { return c.id })
	case EventHoverLeave:
		h.reg.hoverLeave = removeHandler(h.reg.hoverLeave, h.id, func(c nodeHandler) uint32 { return c.id })
	case EventDragStart:
		h.reg.dragStart = removeHandler(h.reg.dragStart, h.id, func(c dragHandler) uint32 { return c.id })
	case EventDragEnd:
		h.reg.dragEnd = removeHandler(h.reg.dragEnd, h.id, func(c dragHandler) uint32 { return c.id })
	case EventNoclip:
		h.reg.noclip = removeHandler(h.reg.noclip, h.id, func(c toggleHandler) uint32 { return c.id })
	}
}

func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) next() uint32 {
	r.nextID++
	return r.nextID
}

// OnClick registers a callback for clicks. It fires for every click; Node is
// nil when nothing was under the pointer.
func (s *Surface) OnClick(fn func(ClickContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.click = append(s.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventClick}
}

// OnHoverEnter registers a callback fired when a node starts reporting hover.
func (s *Surface) OnHoverEnter(fn func(*InteractionNode)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.hoverEnter = append(s.handlers.hoverEnter, nodeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventHoverEnter}
}

// OnHoverLeave registers a callback fired when a node stops reporting hover.
func (s *Surface) OnHoverLeave(fn func(*InteractionNode)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.hoverLeave = append(s.handlers.hoverLeave, nodeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventHoverLeave}
}

// OnDragStart registers a callback fired on the first rotation of a drag.
func (s *Surface) OnDragStart(fn func(DragContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.dragStart = append(s.handlers.dragStart, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragStart}
}

// OnDragEnd registers a callback fired when a press longer than the click
// threshold is released.
func (s *Surface) OnDragEnd(fn func(DragContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.dragEnd = append(s.handlers.dragEnd, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragEnd}
}

// OnNoclip registers a callback fired after noclip is toggled.
func (s *Surface) OnNoclip(fn func(enabled bool)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.noclip = append(s.handlers.noclip, toggleHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventNoclip}
}
