package gallery

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default label and outline color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorRose is the muted label color used inside the central gallery rooms.
var ColorRose = Color{R: 0x88 / 255.0, G: 0x44 / 255.0, B: 0x66 / 255.0, A: 1}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a screen-space point in pixels. The origin is the top-left corner
// of the viewport with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range.
// Used for interaction radii.
type Range struct {
	Min, Max float64
}

// Rotation is a player look orientation in radians.
type Rotation struct {
	Pitch, Yaw float64
}

// Quad holds the four corners of a wall-mounted panel as seen from the front:
// A top-left, B top-right, C bottom-right, D bottom-left.
type Quad struct {
	A, B, C, D mgl64.Vec3
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventClick      EventType = iota // press then release inside the click threshold
	EventHoverEnter                  // a node started reporting hover
	EventHoverLeave                  // a node stopped reporting hover
	EventDragStart                   // first look-rotation update of a pointer session
	EventDragEnd                     // pointer released after the click threshold
	EventNoclip                      // noclip mode toggled via Ctrl+X
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Action is a logical keyboard action. Physical keys are mapped onto actions
// by the input source (see poll.go).
type Action uint8

const (
	ActionNone    Action = iota
	ActionForward        // W, Up
	ActionBack           // S, Down
	ActionLeft           // A, Left
	ActionRight          // D, Right
	ActionJump           // Space
	ActionNoclip         // X, only acts together with Ctrl
)

// MovementKeys is the set of movement flags a player integrates each frame.
type MovementKeys struct {
	Forward, Back, Left, Right, Jump bool
}

// Strafing reports whether a sideways movement key is held.
func (k MovementKeys) Strafing() bool {
	return k.Left || k.Right
}

// finite reports whether every component of v is a finite number.
func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
