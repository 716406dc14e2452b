package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Partition is a coarse, axis-aligned split of the gallery floor plan used to
// stop interaction with panels seen through or behind a wall from an adjacent
// room. It is a known simplification, not a visibility test: positions with
// |x| >= BandX are in the side halls and never vetoed, and inside the central
// band the divider at z = DividerZ separates the two rooms.
type Partition struct {
	BandX    float64
	DividerZ float64
}

// DefaultPartition matches the gallery floor plan.
var DefaultPartition = Partition{BandX: 16, DividerZ: 6}

// SameRoom reports whether p and q may interact. Positions exactly on the
// divider count as being on both sides.
func (pt Partition) SameRoom(p, q mgl64.Vec3) bool {
	if pt.outsideBand(p) || pt.outsideBand(q) {
		return true
	}
	d := pt.DividerZ
	return (p.Z() >= d && q.Z() >= d) || (p.Z() <= d && q.Z() <= d)
}

func (pt Partition) outsideBand(p mgl64.Vec3) bool {
	return p.X() <= -pt.BandX || p.X() >= pt.BandX
}

// labelColor picks the label color for an anchor. The pale end rooms of the
// central band get the rose color.
func (pt Partition) labelColor(p mgl64.Vec3) Color {
	if math.Abs(p.X()) <= pt.BandX && (p.Z() > 10 || p.Z() < 0) {
		return ColorRose
	}
	return ColorWhite
}
