package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultThickness is the depth of an artwork board.
	DefaultThickness = 0.2
	// videoAspect is height over width for video boards.
	videoAspect = 1080.0 / 1920.0

	viewMaxHeight   = 7.8
	viewDrop        = 3.0
	viewMaxDistance = 8.0
	viewPitchBias   = 0.125
	viewScale       = 0.9
	viewScaleTouch  = 1.5
)

// Offset shifts an artwork from its slot: Horizontal along the wall,
// Vertical up.
type Offset struct {
	Horizontal float64 `json:"horizontal" toml:"horizontal" yaml:"horizontal"`
	Vertical   float64 `json:"vertical" toml:"vertical" yaml:"vertical"`
}

// ArtworkData is the catalog description of one artwork.
type ArtworkData struct {
	ID       string  `json:"id" toml:"id" yaml:"id"`
	Title    string  `json:"title" toml:"title" yaml:"title"`
	Subtitle string  `json:"subtitle,omitempty" toml:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Desc     string  `json:"desc,omitempty" toml:"desc,omitempty" yaml:"desc,omitempty"`
	Link     string  `json:"link,omitempty" toml:"link,omitempty" yaml:"link,omitempty"`
	URL      string  `json:"url,omitempty" toml:"url,omitempty" yaml:"url,omitempty"`
	VideoURL string  `json:"videoUrl,omitempty" toml:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	AudioURL string  `json:"audioUrl,omitempty" toml:"audioUrl,omitempty" yaml:"audioUrl,omitempty"`
	Width    float64 `json:"width" toml:"width" yaml:"width"`
	Offset   Offset  `json:"offset" toml:"offset" yaml:"offset"`
	// Location is the 1-based wall slot. Zero leaves the artwork unplaced.
	Location int `json:"location" toml:"location" yaml:"location"`
	// ImageWidth and ImageHeight are the natural image size when already
	// known. Otherwise the host reports it later through SetImageSize.
	ImageWidth  int `json:"imageWidth,omitempty" toml:"imageWidth,omitempty" yaml:"imageWidth,omitempty"`
	ImageHeight int `json:"imageHeight,omitempty" toml:"imageHeight,omitempty" yaml:"imageHeight,omitempty"`
}

// IsVideo reports whether the artwork plays a video instead of an image.
func (d *ArtworkData) IsVideo() bool {
	return d.VideoURL != ""
}

// Slot is a wall position artworks can hang on. Direction is the wall normal
// and must be axis aligned in the horizontal plane.
type Slot struct {
	Position  mgl64.Vec3 `json:"position" toml:"position" yaml:"position"`
	Direction mgl64.Vec3 `json:"direction" toml:"direction" yaml:"direction"`
}

// ArtworkHost receives the actions an artwork click triggers.
type ArtworkHost interface {
	MoveToArtwork(a *Artwork)
	ArtworkMenu() *Artwork
	OpenArtworkMenu(a *Artwork)
	CloseArtworkMenu()
}

// Artwork is a placed board with its interaction node and viewing pose.
type Artwork struct {
	Data      ArtworkData
	Thickness float64
	Touch     bool

	host ArtworkHost
	node *InteractionNode

	position     mgl64.Vec3
	direction    mgl64.Vec3
	baseY        float64
	boardScale   mgl64.Vec3
	viewPosition mgl64.Vec3
	viewRotation Rotation
	menuEnabled  bool
}

// NewArtwork creates an unplaced artwork.
func NewArtwork(data ArtworkData, host ArtworkHost, touch bool) *Artwork {
	return &Artwork{
		Data:        data,
		Thickness:   DefaultThickness,
		Touch:       touch,
		host:        host,
		menuEnabled: true,
	}
}

// ID returns the catalog id.
func (a *Artwork) ID() string { return a.Data.ID }

// Node returns the interaction node, nil before Place.
func (a *Artwork) Node() *InteractionNode { return a.node }

// Position returns the board centre after offsets.
func (a *Artwork) Position() mgl64.Vec3 { return a.position }

// Direction returns the wall normal.
func (a *Artwork) Direction() mgl64.Vec3 { return a.direction }

// BoardScale returns the board size. The facing axis holds the thickness.
func (a *Artwork) BoardScale() mgl64.Vec3 { return a.boardScale }

// ViewPosition returns where the player stands to look at the artwork.
func (a *Artwork) ViewPosition() mgl64.Vec3 { return a.viewPosition }

// ViewRotation returns the look orientation from ViewPosition.
func (a *Artwork) ViewRotation() Rotation { return a.viewRotation }

// MenuEnabled reports whether clicking the info button opens the menu.
func (a *Artwork) MenuEnabled() bool { return a.menuEnabled }

// Place hangs the artwork at p facing v, creates its node and computes the
// viewing pose for a player whose eyes are eyeHeight above its feet. The
// anchor stays Pending until the board size is known.
func (a *Artwork) Place(p, v mgl64.Vec3, eyeHeight float64) *InteractionNode {
	a.baseY = p.Y()

	// Horizontal offset runs along the wall, so the facing axis is skipped.
	if v.X() == 0 {
		p[0] += a.Data.Offset.Horizontal
	}
	p[1] += a.Data.Offset.Vertical
	if v.Z() == 0 {
		p[2] += a.Data.Offset.Horizontal
	}
	a.position = p
	a.direction = v

	clip := v
	a.node = NewInteractionNode(NewAnchor(p, v, a.Thickness), &clip)
	a.node.Label = a.Data.Title
	a.node.Touch = a.Touch
	a.node.UserData = a
	a.node.OnClick = a.Click
	if a.Touch {
		a.node.Radius = TouchRadius
	}
	if !a.menuEnabled {
		a.node.DisableInfoTag()
	}

	a.computeViewPose(eyeHeight)
	a.boardScale = a.scaleFor(1, 1)

	switch {
	case a.Data.IsVideo():
		a.SetVideo()
	case a.Data.ImageWidth > 0 && a.Data.ImageHeight > 0:
		a.SetImageSize(a.Data.ImageWidth, a.Data.ImageHeight)
	}
	return a.node
}

// computeViewPose derives the standing point in front of the board and the
// orientation that centres it, with fixed poses above the ramps.
func (a *Artwork) computeViewPose(eyeHeight float64) {
	p, v := a.position, a.direction
	scale := viewScale
	if a.Touch {
		scale = viewScaleTouch
	}

	vy := math.Min(viewMaxHeight, a.baseY-viewDrop)
	back := math.Min((p.Y()-vy)*scale, viewMaxDistance)
	a.viewPosition = mgl64.Vec3{p.X() + v.X()*back, vy, p.Z() + v.Z()*back}

	switch {
	case p.X() > 20 && p.Z() < -10:
		a.viewPosition = mgl64.Vec3{28, 4.4, -8}
	case p.X() < -20 && p.Z() < -10:
		a.viewPosition = mgl64.Vec3{-28, 4.4, -8}
	}

	vp := a.viewPosition
	a.viewRotation = Rotation{
		Pitch: math.Atan2(p.Y()-(vp.Y()+eyeHeight)-viewPitchBias, math.Hypot(p.X()-vp.X(), p.Z()-vp.Z())),
		Yaw:   math.Atan2(p.X()-vp.X(), p.Z()-vp.Z()),
	}
}

// scaleFor returns the board scale for a face of the given width and height.
func (a *Artwork) scaleFor(width, height float64) mgl64.Vec3 {
	s := mgl64.Vec3{width, height, width}
	if a.direction.X() != 0 {
		s[0] = a.Thickness
	}
	if a.direction.Z() != 0 {
		s[2] = a.Thickness
	}
	return s
}

// SetImageSize sizes the board from the natural image dimensions and makes
// the anchor Ready. It reports false, leaving the anchor Pending, when the
// size is unusable.
func (a *Artwork) SetImageSize(width, height int) bool {
	if a.node == nil || width <= 0 || height <= 0 {
		return false
	}
	h := a.Data.Width * (float64(height) / float64(width))
	return a.resize(a.Data.Width, h)
}

// SetVideo sizes the board for a 16:9 video and makes the anchor Ready.
func (a *Artwork) SetVideo() bool {
	if a.node == nil {
		return false
	}
	return a.resize(a.Data.Width, a.Data.Width*videoAspect)
}

func (a *Artwork) resize(width, height float64) bool {
	a.boardScale = a.scaleFor(width, height)
	a.node.SetCorners(a.boardScale)
	return a.node.Anchor().Ready()
}

// Click moves the player to the viewing pose, closes another artwork's menu
// and opens this one's when the info button was clicked.
func (a *Artwork) Click(ctx ClickContext) {
	if a.host == nil {
		return
	}
	a.host.MoveToArtwork(a)
	if a.host.ArtworkMenu() != a {
		a.host.CloseArtworkMenu()
	}
	if a.menuEnabled && ctx.Button {
		a.host.OpenArtworkMenu(a)
	}
}

// DisableArtworkMenu stops the info button from opening the menu and hides
// the info tag.
func (a *Artwork) DisableArtworkMenu() {
	a.menuEnabled = false
	if a.node != nil {
		a.node.DisableInfoTag()
	}
}

// IsHover reports whether the artwork is hovered.
func (a *Artwork) IsHover() bool {
	return a.node != nil && a.node.IsHover()
}
