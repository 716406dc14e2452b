package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Player is the entity the surface steers. It owns its rotation; the
// surface only reads it and writes through SetRotation.
type Player interface {
	Position() mgl64.Vec3
	Rotation() Rotation
	// SetRotation sets the look orientation, clamping pitch to PitchLimits.
	SetRotation(pitch, yaw float64)
	PitchLimits() (min, max float64)
	// Keys returns the movement flags the player integrates each frame.
	Keys() *MovementKeys
	ToggleNoclip()
	Noclip() bool
}

// moveAnim holds the tweens of an automatic move to a viewing pose.
type moveAnim struct {
	x, y, z    *gween.Tween
	pitch, yaw *gween.Tween
	done       bool
}

// Walker is a first-person Player: WASD movement relative to yaw, gravity and
// jumping on a flat floor, free flight in noclip mode, and tweened moves to a
// viewing pose.
type Walker struct {
	position mgl64.Vec3
	rotation Rotation
	keys     MovementKeys
	noclip   bool

	MinPitch, MaxPitch float64
	// Height is the eye height above the walker's feet.
	Height       float64
	MoveSpeed    float64
	Gravity      float64
	JumpStrength float64
	// Floor is the Y coordinate the walker stands on.
	Floor float64

	velocityY float64
	grounded  bool
	move      *moveAnim
}

var _ Player = (*Walker)(nil)

// NewWalker creates a walker standing at position.
func NewWalker(position mgl64.Vec3) *Walker {
	return &Walker{
		position:     position,
		MinPitch:     -math.Pi / 2 * 0.9,
		MaxPitch:     math.Pi / 2 * 0.9,
		Height:       3,
		MoveSpeed:    8,
		Gravity:      20,
		JumpStrength: 8,
		Floor:        position.Y(),
		grounded:     true,
	}
}

func (w *Walker) Position() mgl64.Vec3 { return w.position }
func (w *Walker) Rotation() Rotation   { return w.rotation }
func (w *Walker) Keys() *MovementKeys  { return &w.keys }
func (w *Walker) Noclip() bool         { return w.noclip }

// PitchLimits returns the pitch clamp range.
func (w *Walker) PitchLimits() (float64, float64) {
	return w.MinPitch, w.MaxPitch
}

// SetPosition teleports the walker and cancels any automatic move.
func (w *Walker) SetPosition(p mgl64.Vec3) {
	w.position = p
	w.move = nil
}

// SetRotation sets the orientation with pitch clamped.
func (w *Walker) SetRotation(pitch, yaw float64) {
	w.rotation = Rotation{Pitch: mgl64.Clamp(pitch, w.MinPitch, w.MaxPitch), Yaw: yaw}
}

// ToggleNoclip switches between walking and free flight.
func (w *Walker) ToggleNoclip() {
	w.noclip = !w.noclip
	w.velocityY = 0
	if !w.noclip {
		w.grounded = w.position.Y() <= w.Floor
	}
}

// Moving reports whether an automatic move is in progress.
func (w *Walker) Moving() bool {
	return w.move != nil
}

// MoveTo glides the walker to position and rotation over duration seconds.
// The yaw tween takes the short way round.
func (w *Walker) MoveTo(position mgl64.Vec3, rot Rotation, duration float32) {
	yaw := w.rotation.Yaw + shortestAngle(w.rotation.Yaw, rot.Yaw)
	fn := ease.InOutQuad
	w.move = &moveAnim{
		x:     gween.New(float32(w.position.X()), float32(position.X()), duration, fn),
		y:     gween.New(float32(w.position.Y()), float32(position.Y()), duration, fn),
		z:     gween.New(float32(w.position.Z()), float32(position.Z()), duration, fn),
		pitch: gween.New(float32(w.rotation.Pitch), float32(rot.Pitch), duration, fn),
		yaw:   gween.New(float32(w.rotation.Yaw), float32(yaw), duration, fn),
	}
}

// shortestAngle returns the signed difference to, from in (-π, π].
func shortestAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// Update advances an automatic move or integrates keyboard movement.
func (w *Walker) Update(dt float64) {
	if w.move != nil {
		w.updateMove(float32(dt))
		return
	}

	forward, right := w.directions()

	var dir mgl64.Vec3
	if w.keys.Forward {
		dir = dir.Add(forward)
	}
	if w.keys.Back {
		dir = dir.Sub(forward)
	}
	if w.keys.Right {
		dir = dir.Add(right)
	}
	if w.keys.Left {
		dir = dir.Sub(right)
	}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(w.MoveSpeed / l)
	}

	if w.noclip {
		// Fly along the full look direction.
		if w.keys.Forward || w.keys.Back {
			look := lookDirection(w.rotation.Yaw, w.rotation.Pitch)
			sign := 1.0
			if w.keys.Back && !w.keys.Forward {
				sign = -1
			}
			if w.keys.Forward && w.keys.Back {
				sign = 0
			}
			dir = dir.Add(mgl64.Vec3{0, look.Y() * w.MoveSpeed * sign, 0})
		}
		w.position = w.position.Add(dir.Mul(dt))
		return
	}

	if w.keys.Jump && w.grounded {
		w.velocityY = w.JumpStrength
		w.grounded = false
	}
	if !w.grounded {
		w.velocityY -= w.Gravity * dt
	}
	dir[1] = w.velocityY

	w.position = w.position.Add(dir.Mul(dt))
	if w.position.Y() <= w.Floor {
		w.position[1] = w.Floor
		w.velocityY = 0
		w.grounded = true
	}
}

func (w *Walker) updateMove(dt float32) {
	m := w.move
	x, dx := m.x.Update(dt)
	y, dy := m.y.Update(dt)
	z, dz := m.z.Update(dt)
	p, dp := m.pitch.Update(dt)
	yw, dyw := m.yaw.Update(dt)

	w.position = mgl64.Vec3{float64(x), float64(y), float64(z)}
	w.SetRotation(float64(p), float64(yw))

	if dx && dy && dz && dp && dyw {
		// There is no level collision, so the arrival height becomes the floor.
		w.move = nil
		w.velocityY = 0
		w.Floor = w.position.Y()
		w.grounded = true
	}
}

// directions returns the horizontal forward and right unit vectors for the
// current yaw.
func (w *Walker) directions() (forward, right mgl64.Vec3) {
	s, c := math.Sincos(w.rotation.Yaw)
	forward = mgl64.Vec3{s, 0, c}
	right = mgl64.Vec3{-c, 0, s}
	return
}
