package gallery

// syntheticEvent represents a single injected input event. Screen
// coordinates are used, identical to real pointer input.
type syntheticEvent struct {
	kind      InputKind
	x, y      float64
	action    Action
	modifiers KeyModifiers
}

// InjectPress queues a pointer press at the given screen coordinates.
// Injected events are consumed one per tick, stamped with the surface clock.
func (s *Surface) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputPointerDown, x: x, y: y})
}

// InjectMove queues a pointer move to the given screen coordinates. Use this
// between InjectPress and InjectRelease to simulate a look drag.
func (s *Surface) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputPointerMove, x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Surface) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputPointerUp, x: x, y: y})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two ticks, which stays well under
// the click threshold at normal frame rates.
func (s *Surface) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate ticks, and
// release at (toX, toY). The total sequence consumes `frames` ticks.
// Minimum frames is 2 (press + release).
func (s *Surface) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.InjectMove(x, y)
	}
	s.InjectRelease(toX, toY)
}

// InjectKey queues a press and release of an action key with the given
// modifiers. Consumes two ticks.
func (s *Surface) InjectKey(a Action, mods KeyModifiers) {
	s.injectQueue = append(s.injectQueue,
		syntheticEvent{kind: InputKeyDown, action: a, modifiers: mods},
		syntheticEvent{kind: InputKeyUp, action: a, modifiers: mods},
	)
}

// InjectHold queues a press of an action key, waits the given number of
// ticks with it held, then releases it. frames is at least 2.
func (s *Surface) InjectHold(a Action, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputKeyDown, action: a})
	for i := 0; i < frames-2; i++ {
		// A repeated press is a no-op for movement flags.
		s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputKeyDown, action: a})
	}
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: InputKeyUp, action: a})
}

// Injecting reports whether injected events are still queued.
func (s *Surface) Injecting() bool {
	return len(s.injectQueue) > 0
}

// processInjectedInput pops one event from the inject queue and applies it
// as if it had arrived through Post. Returns true if an event was consumed.
func (s *Surface) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.handle(InputEvent{
		Kind:      evt.kind,
		Time:      s.clock(),
		X:         evt.x,
		Y:         evt.y,
		Action:    evt.action,
		Modifiers: evt.modifiers,
	})
	return true
}
