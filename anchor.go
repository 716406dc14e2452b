package gallery

import "github.com/go-gl/mathgl/mgl64"

// Anchor is the 3D placement of an interactive wall panel.
//
// An anchor starts Pending: its position and facing are known but the
// board it belongs to has no size yet (image and video dimensions arrive
// asynchronously). SetCorners is the only transition to Ready. Until then
// Corners reports false and nodes treat the anchor as not hit-testable.
type Anchor struct {
	// Position is the world-space anchor point (the centre of the board).
	Position mgl64.Vec3
	// Direction is the wall normal the panel faces: one axis-aligned
	// component is ±1, the others are 0.
	Direction mgl64.Vec3
	// Thickness is the board depth. Corners sit on the board's front face.
	Thickness float64

	corners *Quad
}

// NewAnchor returns a Pending anchor.
func NewAnchor(position, direction mgl64.Vec3, thickness float64) *Anchor {
	return &Anchor{Position: position, Direction: direction, Thickness: thickness}
}

// Ready reports whether corners have been derived.
func (a *Anchor) Ready() bool {
	return a.corners != nil
}

// Corners returns the world corners and whether the anchor is Ready.
func (a *Anchor) Corners() (Quad, bool) {
	if a.corners == nil {
		return Quad{}, false
	}
	return *a.corners, true
}

// SetCorners derives world corners from the board scale (full extents on
// each axis). The lateral extent is scale X for walls facing ±Z and scale Z
// for walls facing ±X. A scale whose lateral or vertical extent is zero,
// negative or not finite leaves the anchor Pending; a previously Ready
// anchor is returned to Pending so stale corners are never hit-tested.
func (a *Anchor) SetCorners(scale mgl64.Vec3) {
	if !finite(scale) || !finite(a.Position) {
		a.corners = nil
		return
	}

	p := a.Position
	v := a.Direction
	hy := scale.Y() * 0.5

	// Lateral half extents along X and Z. The facing axis contributes none.
	var hx, hz float64
	if v.X() == 0 {
		hx = scale.X() * 0.5
	}
	if v.Z() == 0 {
		hz = scale.Z() * 0.5
	}
	if hy <= 0 || hx+hz <= 0 || hx < 0 || hz < 0 {
		a.corners = nil
		return
	}

	// Offset onto the front face of the board.
	xo := v.X() * a.Thickness / 2
	zo := v.Z() * a.Thickness / 2

	a.corners = &Quad{
		A: mgl64.Vec3{p.X() - hx + xo, p.Y() + hy, p.Z() - hz + zo},
		B: mgl64.Vec3{p.X() + hx + xo, p.Y() + hy, p.Z() + hz + zo},
		C: mgl64.Vec3{p.X() + hx + xo, p.Y() - hy, p.Z() + hz + zo},
		D: mgl64.Vec3{p.X() - hx + xo, p.Y() - hy, p.Z() - hz + zo},
	}
}
