package gallery

import "github.com/go-gl/mathgl/mgl64"

// Camera is the view the surface projects through. Implementations are
// supplied by the renderer; PerspectiveCamera is a ready-made one.
type Camera interface {
	// Position returns the camera's world-space eye position.
	Position() mgl64.Vec3
	// WorldDirection returns the unit forward vector of the camera.
	WorldDirection() mgl64.Vec3
	// Project applies the view and projection transforms to a world point
	// and returns normalized device coordinates in [-1, 1] on X and Y.
	Project(p mgl64.Vec3) mgl64.Vec3
}

// Project maps a world-space point to screen pixels.
// centre is half the viewport size. NDC Y grows upward while screen Y grows
// downward, hence the flip.
func Project(p mgl64.Vec3, cam Camera, centre Vec2) Vec2 {
	ndc := cam.Project(p)
	return Vec2{
		X: (ndc.X() + 1) * centre.X,
		Y: (-ndc.Y() + 1) * centre.Y,
	}
}

// ProjectQuad projects the four corners of q into dst, in A, B, C, D order.
// dst is owned by the caller so repeated projection does not allocate.
func ProjectQuad(q *Quad, cam Camera, centre Vec2, dst *[4]Vec2) {
	dst[0] = Project(q.A, cam, centre)
	dst[1] = Project(q.B, cam, centre)
	dst[2] = Project(q.C, cam, centre)
	dst[3] = Project(q.D, cam, centre)
}
