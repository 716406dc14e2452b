package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	boundsMargin     = 10.0 // pixels added around the projected quad
	buttonRadius     = 32.0
	buttonSlack      = 10.0 // extra hit radius around the info button
	buttonGap        = 5.0  // horizontal gap between quad and button
	labelOffset      = 24.0
	labelLineSpacing = 16.0
)

// DefaultRadius is the interaction range of a node. Beyond Max the node is
// inactive and skips projection; within Min the info button is usable.
var DefaultRadius = Range{Min: 9, Max: 32}

// TouchRadius is DefaultRadius for touch devices, where the info button is
// reachable from slightly further away.
var TouchRadius = Range{Min: 10, Max: 32}

// ClickContext carries click event data.
type ClickContext struct {
	Node   *InteractionNode
	X, Y   float64
	Button bool // the info button was under the pointer
}

// nodeIDCounter is a plain counter; nodes are created on the update goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// InteractionNode converts screen-space pointer interaction to a world-space
// panel. Each frame Update refreshes projection and activation from the
// camera and player; MouseOver performs the hit test; Draw renders the
// already-derived state.
type InteractionNode struct {
	// ID is a unique identifier assigned at creation.
	ID uint32
	// Label is drawn beside the info button.
	Label string
	// Radius is the interaction range. Defaults to DefaultRadius.
	Radius Range
	// Partition gates interaction through walls. Defaults to DefaultPartition.
	Partition Partition
	// Touch hides the label line and assumes touch input.
	Touch bool
	// UserData is an arbitrary value for the application.
	UserData any
	// OnClick fires when the surface dispatches a click over this node.
	OnClick func(ClickContext)

	anchor *Anchor
	clip   *mgl64.Vec3

	onscreen     bool
	active       bool
	hover        bool
	cornersOK    bool
	buttonActive bool
	buttonHover  bool
	infoDisabled bool
	distance     float64
	pendingTicks int

	coords Vec2
	screen [4]Vec2
}

// NewInteractionNode creates a node for the given anchor. clip, when non-nil,
// is a half-space normal: the node is only onscreen while the camera is on
// the side of the anchor the normal points to.
func NewInteractionNode(anchor *Anchor, clip *mgl64.Vec3) *InteractionNode {
	n := &InteractionNode{
		ID:        nextNodeID(),
		Radius:    DefaultRadius,
		Partition: DefaultPartition,
		anchor:    anchor,
		onscreen:  true,
		active:    true,
		distance:  -1,
	}
	if clip != nil {
		c := *clip
		n.clip = &c
	}
	return n
}

// Anchor returns the node's anchor.
func (n *InteractionNode) Anchor() *Anchor {
	return n.anchor
}

// SetCorners derives the anchor's world corners from the current board
// scale. Call again whenever the scale changes.
func (n *InteractionNode) SetCorners(scale mgl64.Vec3) {
	n.anchor.SetCorners(scale)
	if !n.anchor.Ready() {
		n.cornersOK = false
	}
}

// Update refreshes visibility, activation and screen corners.
func (n *InteractionNode) Update(dt float64, player Player, cam Camera, forward mgl64.Vec3, centre Vec2) {
	camPos := cam.Position()
	toCam := camPos.Sub(n.anchor.Position)

	if !n.facing(toCam, forward) {
		n.hideOffscreen()
		return
	}
	n.onscreen = true
	n.coords = Project(n.anchor.Position, cam, centre)

	if n.clip != nil && toCam.Dot(*n.clip) < 0 {
		n.hideOffscreen()
		return
	}

	n.distance = player.Position().Sub(n.anchor.Position).Len()
	if !(n.distance <= n.Radius.Max) {
		n.active = false
		return
	}
	n.active = true

	n.updateCorners(cam, centre)
	n.buttonActive = n.distance <= n.Radius.Min
}

// facing reports whether the anchor lies in front of the camera.
func (n *InteractionNode) facing(toCam, forward mgl64.Vec3) bool {
	l := toCam.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return false
	}
	return toCam.Mul(1/l).Dot(forward) <= 0
}

// hideOffscreen marks the node offscreen and drops hover so a stale hover
// from an earlier frame cannot leak into click dispatch.
func (n *InteractionNode) hideOffscreen() {
	n.onscreen = false
	n.hover = false
	n.buttonHover = false
}

// updateCorners projects the world corners and checks for distortion.
func (n *InteractionNode) updateCorners(cam Camera, centre Vec2) {
	q, ok := n.anchor.Corners()
	if !ok {
		n.cornersOK = false
		return
	}
	ProjectQuad(&q, cam, centre, &n.screen)

	a, b, c, d := n.screen[0], n.screen[1], n.screen[2], n.screen[3]
	width := centre.X * 2
	n.cornersOK = a.Y < c.Y && b.Y < d.Y && math.Abs(a.X-b.X) < width
}

// buttonCentre returns the info button position: beside the lower corner
// that is furthest right on screen.
func (n *InteractionNode) buttonCentre() Vec2 {
	c, d := n.screen[2], n.screen[3]
	bx, by := d.X, d.Y
	if c.X >= d.X {
		bx, by = c.X, c.Y
	}
	return Vec2{X: bx + buttonRadius + buttonGap, Y: by - buttonRadius/2}
}

// bounds returns the screen-space bounding box of the quad with margin.
func (n *InteractionNode) bounds() (minX, minY, maxX, maxY float64) {
	s := &n.screen
	minX = math.Min(math.Min(s[0].X, s[1].X), math.Min(s[2].X, s[3].X)) - boundsMargin
	maxX = math.Max(math.Max(s[0].X, s[1].X), math.Max(s[2].X, s[3].X)) + boundsMargin
	minY = math.Min(s[0].Y, s[1].Y) - boundsMargin
	maxY = math.Max(s[2].Y, s[3].Y) + boundsMargin
	return
}

// MouseOver hit-tests the pointer at (x, y) against the projected quad and
// the info button, vetoed when the player is in another room.
func (n *InteractionNode) MouseOver(x, y float64, player Player) {
	if !(n.active && n.onscreen && n.cornersOK) {
		n.hover = false
		n.buttonHover = false
		return
	}

	b := n.buttonCentre()
	n.buttonHover = n.buttonActive && math.Hypot(b.X-x, b.Y-y) < buttonRadius+buttonSlack

	minX, minY, maxX, maxY := n.bounds()
	inside := x >= minX && x <= maxX && y >= minY && y <= maxY

	n.hover = (n.buttonHover || inside) && n.IsCorrectQuadrant(player.Position())
}

// IsCorrectQuadrant reports whether the player at p may interact with this
// node given the walls between rooms. See Partition.
func (n *InteractionNode) IsCorrectQuadrant(p mgl64.Vec3) bool {
	return n.Partition.SameRoom(p, n.anchor.Position)
}

// IsHover reports whether the pointer is over an active node.
func (n *InteractionNode) IsHover() bool {
	return n.hover && n.active
}

// IsOnscreen reports whether the anchor is in front of the camera and on the
// visible side of its clip plane.
func (n *InteractionNode) IsOnscreen() bool { return n.onscreen }

// IsActive reports whether the player is within the interaction range.
func (n *InteractionNode) IsActive() bool { return n.active }

// ButtonActive reports whether the player is close enough to use the info
// button.
func (n *InteractionNode) ButtonActive() bool { return n.buttonActive }

// ButtonHover reports whether the pointer is over the info button.
func (n *InteractionNode) ButtonHover() bool { return n.buttonHover }

// CornersOK reports whether the last projection produced a usable quad.
func (n *InteractionNode) CornersOK() bool { return n.cornersOK }

// Distance returns the distance to the player from the last update, or -1
// before the first one.
func (n *InteractionNode) Distance() float64 { return n.distance }

// ScreenPosition returns the projected anchor point.
func (n *InteractionNode) ScreenPosition() Vec2 { return n.coords }

// ScreenCorners returns the last projected corners in A, B, C, D order.
func (n *InteractionNode) ScreenCorners() [4]Vec2 { return n.screen }

// DisableInfoTag hides the info label and button text.
func (n *InteractionNode) DisableInfoTag() { n.infoDisabled = true }

// InfoTagDisabled reports whether DisableInfoTag was called.
func (n *InteractionNode) InfoTagDisabled() bool { return n.infoDisabled }

// ForceHover sets the hover flag until the next hit test.
func (n *InteractionNode) ForceHover() { n.hover = true }

// ClearHover removes hover until the next hit test.
func (n *InteractionNode) ClearHover() {
	n.hover = false
	n.buttonHover = false
}

// Draw outlines the hovered quad and, within button range, the info tag and
// label. It only reads state derived by Update and MouseOver.
func (n *InteractionNode) Draw(ctx DrawContext) {
	if !(n.onscreen && n.active && n.hover && n.cornersOK) {
		return
	}

	s := &n.screen
	ctx.SetAlpha(1)
	ctx.SetStrokeColor(ColorWhite)
	ctx.BeginPath()
	ctx.MoveTo(s[0].X, s[0].Y)
	ctx.LineTo(s[1].X, s[1].Y)
	ctx.LineTo(s[2].X, s[2].Y)
	ctx.LineTo(s[3].X, s[3].Y)
	ctx.ClosePath()
	ctx.Stroke()

	if !n.buttonActive || n.infoDisabled {
		return
	}

	b := n.buttonCentre()
	ctx.SetFillColor(n.Partition.labelColor(n.anchor.Position))
	if n.buttonHover {
		ctx.SetAlpha(0.6)
	}
	ctx.FillText("[info]", b.X-labelOffset, b.Y+4)
	if !n.Touch && n.Label != "" {
		ctx.FillText(n.Label, b.X-labelOffset, b.Y-labelLineSpacing)
	}
}
