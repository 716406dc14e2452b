package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultFovY = 45 * math.Pi / 180
	defaultNear = 0.1
	defaultFar  = 1000
)

var worldUp = mgl64.Vec3{0, 1, 0}

// PerspectiveCamera is a first-person pinhole camera positioned by an eye
// point and a yaw/pitch orientation. Yaw 0 looks down +Z, positive yaw turns
// toward +X and positive pitch looks up.
type PerspectiveCamera struct {
	eye   mgl64.Vec3
	yaw   float64
	pitch float64

	// FovY is the vertical field of view in radians.
	FovY float64
	// Aspect is the viewport aspect ratio (width / height).
	Aspect float64
	// Near and Far are the clip distances.
	Near, Far float64

	viewProj mgl64.Mat4
	forward  mgl64.Vec3
	dirty    bool
}

var _ Camera = (*PerspectiveCamera)(nil)

// NewPerspectiveCamera creates a camera at eye for a viewport of the given
// pixel size.
func NewPerspectiveCamera(eye mgl64.Vec3, width, height int) *PerspectiveCamera {
	c := &PerspectiveCamera{
		eye:    eye,
		FovY:   defaultFovY,
		Aspect: 1,
		Near:   defaultNear,
		Far:    defaultFar,
		dirty:  true,
	}
	c.SetViewport(width, height)
	return c
}

// Position returns the eye position.
func (c *PerspectiveCamera) Position() mgl64.Vec3 {
	return c.eye
}

// SetPosition moves the eye.
func (c *PerspectiveCamera) SetPosition(eye mgl64.Vec3) {
	c.eye = eye
	c.dirty = true
}

// SetRotation sets the look orientation.
func (c *PerspectiveCamera) SetRotation(r Rotation) {
	c.yaw = r.Yaw
	c.pitch = r.Pitch
	c.dirty = true
}

// Rotation returns the current look orientation.
func (c *PerspectiveCamera) Rotation() Rotation {
	return Rotation{Pitch: c.pitch, Yaw: c.yaw}
}

// SetViewport updates the aspect ratio for a viewport of the given size.
// Non-positive sizes are ignored.
func (c *PerspectiveCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
	c.dirty = true
}

// Follow copies the pose of a player, placing the eye eyeHeight above the
// player's feet.
func (c *PerspectiveCamera) Follow(p Player, eyeHeight float64) {
	c.SetPosition(p.Position().Add(mgl64.Vec3{0, eyeHeight, 0}))
	c.SetRotation(p.Rotation())
}

// WorldDirection returns the unit forward vector.
func (c *PerspectiveCamera) WorldDirection() mgl64.Vec3 {
	c.computeMatrices()
	return c.forward
}

// Project transforms p to normalized device coordinates. Points behind the
// eye come out mirrored, as with any homogeneous divide; callers gate on
// facing before trusting the result.
func (c *PerspectiveCamera) Project(p mgl64.Vec3) mgl64.Vec3 {
	c.computeMatrices()
	return mgl64.TransformCoordinate(p, c.viewProj)
}

// MarkDirty forces a recomputation of the cached matrices.
func (c *PerspectiveCamera) MarkDirty() {
	c.dirty = true
}

// computeMatrices recomputes the cached view-projection matrix if dirty.
func (c *PerspectiveCamera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false

	c.forward = lookDirection(c.yaw, c.pitch)
	view := mgl64.LookAtV(c.eye, c.eye.Add(c.forward), worldUp)
	proj := mgl64.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
	c.viewProj = proj.Mul4(view)
}

// lookDirection converts yaw/pitch to a unit vector.
func lookDirection(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{
		math.Sin(yaw) * cp,
		math.Sin(pitch),
		math.Cos(yaw) * cp,
	}
}
