package gallery

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyBindings maps physical keys to actions. Several keys may share one
// action; the action is held while any of them is.
type KeyBindings map[ebiten.Key]Action

// DefaultKeyBindings are WASD plus arrows, Space to jump and X (with Ctrl)
// for noclip.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		ebiten.KeyW:          ActionForward,
		ebiten.KeyArrowUp:    ActionForward,
		ebiten.KeyS:          ActionBack,
		ebiten.KeyArrowDown:  ActionBack,
		ebiten.KeyA:          ActionLeft,
		ebiten.KeyArrowLeft:  ActionLeft,
		ebiten.KeyD:          ActionRight,
		ebiten.KeyArrowRight: ActionRight,
		ebiten.KeySpace:      ActionJump,
		ebiten.KeyX:          ActionNoclip,
	}
}

// Poller reads Ebitengine input once per tick and posts the changes to a
// Surface as InputEvents. Mouse and the first active touch both drive the
// single pointer.
type Poller struct {
	Bindings KeyBindings

	mouseDown bool
	lastX     int
	lastY     int
	moved     bool

	touchID  ebiten.TouchID
	touching bool

	held     map[Action]bool
	touchIDs []ebiten.TouchID
}

// NewPoller creates a poller with DefaultKeyBindings.
func NewPoller() *Poller {
	return &Poller{
		Bindings: DefaultKeyBindings(),
		held:     make(map[Action]bool),
	}
}

// Poll posts this tick's input changes to s. Call it from ebiten.Game.Update
// before Surface.Update.
func (p *Poller) Poll(s *Surface) {
	mods := readModifiers()
	if !p.pollTouch(s) {
		p.pollMouse(s)
	}
	p.pollKeys(s, mods)
}

// readModifiers returns the currently held modifier keys.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// pollMouse handles the mouse cursor and left button.
func (p *Poller) pollMouse(s *Surface) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if mx != p.lastX || my != p.lastY || !p.moved {
		p.lastX, p.lastY = mx, my
		p.moved = true
		s.PointerMove(x, y)
	}

	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case down && !p.mouseDown:
		s.PointerDown(x, y)
	case !down && p.mouseDown:
		s.PointerUp(x, y)
	}
	p.mouseDown = down
}

// pollTouch follows the first touch until it is released. Returns true while
// a touch owns the pointer.
func (p *Poller) pollTouch(s *Surface) bool {
	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			tx, ty := inpututil.TouchPositionInPreviousTick(p.touchID)
			p.touching = false
			s.PointerUp(float64(tx), float64(ty))
			return true
		}
		tx, ty := ebiten.TouchPosition(p.touchID)
		if tx != p.lastX || ty != p.lastY {
			p.lastX, p.lastY = tx, ty
			s.PointerMove(float64(tx), float64(ty))
		}
		return true
	}

	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) == 0 {
		return false
	}
	p.touchID = p.touchIDs[0]
	p.touching = true
	tx, ty := ebiten.TouchPosition(p.touchID)
	p.lastX, p.lastY = tx, ty
	// Touch has no hover; move first so the press lands where the finger is.
	s.PointerMove(float64(tx), float64(ty))
	s.PointerDown(float64(tx), float64(ty))
	return true
}

// pollKeys posts press and release transitions per action. Noclip is posted
// on the key press edge only.
func (p *Poller) pollKeys(s *Surface, mods KeyModifiers) {
	var now [ActionNoclip + 1]bool
	for key, a := range p.Bindings {
		if a == ActionNoclip {
			if inpututil.IsKeyJustPressed(key) {
				s.KeyDown(ActionNoclip, mods)
			}
			continue
		}
		if int(a) < len(now) && ebiten.IsKeyPressed(key) {
			now[a] = true
		}
	}
	for a := ActionForward; a < ActionNoclip; a++ {
		if now[a] == p.held[a] {
			continue
		}
		p.held[a] = now[a]
		if now[a] {
			s.KeyDown(a, mods)
		} else {
			s.KeyUp(a, mods)
		}
	}
}
