package gallery

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMoveDuration is how long the walk to an artwork takes, in seconds.
const DefaultMoveDuration float32 = 1.2

// layout is a replacement set of slots and artworks waiting for the next
// tick.
type layout struct {
	slots []Slot
	data  []ArtworkData
}

// Exhibition is the host of a walkthrough: it owns the walker, the camera,
// the control surface and the hung artworks, and tracks which artwork's
// menu is open.
type Exhibition struct {
	Walker  *Walker
	Camera  *PerspectiveCamera
	Surface *Surface

	// MoveDuration is the length of the automatic walk to an artwork.
	MoveDuration float32
	// Touch places artworks with touch radii and viewing distances.
	Touch bool
	// OnMenu fires when an artwork menu opens or closes.
	OnMenu func(a *Artwork, open bool)

	artworks []*Artwork
	byID     map[string]*Artwork
	menu     *Artwork

	pending chan layout
}

var _ ArtworkHost = (*Exhibition)(nil)

// NewExhibition creates an empty exhibition with the walker standing at
// spawn and a viewport of the given size.
func NewExhibition(spawn mgl64.Vec3, width, height int, cfg SurfaceConfig) *Exhibition {
	w := NewWalker(spawn)
	cam := NewPerspectiveCamera(spawn.Add(mgl64.Vec3{0, w.Height, 0}), width, height)
	cam.Follow(w, w.Height)
	return &Exhibition{
		Walker:       w,
		Camera:       cam,
		Surface:      NewSurface(w, cam, width, height, cfg),
		MoveDuration: DefaultMoveDuration,
		Touch:        cfg.Touch,
		byID:         make(map[string]*Artwork),
		pending:      make(chan layout, 1),
	}
}

// Artworks returns the hung artworks in catalog order. The returned slice
// MUST NOT be mutated.
func (e *Exhibition) Artworks() []*Artwork {
	return e.artworks
}

// Artwork returns the artwork with the given id, or nil.
func (e *Exhibition) Artwork(id string) *Artwork {
	return e.byID[id]
}

// Add hangs an artwork on a slot and registers its node with the surface.
// An artwork whose id is already hung replaces the old one.
func (e *Exhibition) Add(data ArtworkData, slot Slot) *Artwork {
	if old := e.byID[data.ID]; old != nil && data.ID != "" {
		e.Remove(data.ID)
	}
	a := NewArtwork(data, e, e.Touch)
	a.Place(slot.Position, slot.Direction, e.Walker.Height)
	e.artworks = append(e.artworks, a)
	if data.ID != "" {
		e.byID[data.ID] = a
	}
	e.Surface.AddNode(a.Node())
	return a
}

// Remove takes an artwork down. Its menu is closed if open.
func (e *Exhibition) Remove(id string) {
	a := e.byID[id]
	if a == nil {
		return
	}
	if e.menu == a {
		e.CloseArtworkMenu()
	}
	delete(e.byID, id)
	for i, b := range e.artworks {
		if b == a {
			e.artworks = append(e.artworks[:i], e.artworks[i+1:]...)
			break
		}
	}
	e.Surface.RemoveNode(a.Node())
}

// Replace takes every artwork down and hangs data on slots. Each artwork
// uses the slot at its 1-based Location; artworks without a valid location
// are skipped. It returns the number hung.
func (e *Exhibition) Replace(slots []Slot, data []ArtworkData) int {
	e.CloseArtworkMenu()
	for _, a := range e.artworks {
		e.Surface.RemoveNode(a.Node())
	}
	e.artworks = e.artworks[:0]
	clear(e.byID)

	n := 0
	for _, d := range data {
		if d.Location < 1 || d.Location > len(slots) {
			if e.Surface.debug {
				_, _ = fmt.Fprintf(os.Stderr, "[gallery] warning: artwork %q has no slot %d\n", d.ID, d.Location)
			}
			continue
		}
		e.Add(d, slots[d.Location-1])
		n++
	}
	return n
}

// QueueReplace schedules Replace for the start of the next Update. It is
// safe to call from any goroutine; only the latest queued layout is kept.
func (e *Exhibition) QueueReplace(slots []Slot, data []ArtworkData) {
	l := layout{slots: slots, data: data}
	for {
		select {
		case e.pending <- l:
			return
		default:
		}
		// Drop the stale layout and retry.
		select {
		case <-e.pending:
		default:
		}
	}
}

// SetImageSize reports the natural image size of an artwork once it is
// known, making its anchor Ready.
func (e *Exhibition) SetImageSize(id string, width, height int) bool {
	a := e.byID[id]
	if a == nil {
		return false
	}
	return a.SetImageSize(width, height)
}

// MoveToArtwork walks the player to the artwork's viewing pose.
func (e *Exhibition) MoveToArtwork(a *Artwork) {
	e.Walker.MoveTo(a.ViewPosition(), a.ViewRotation(), e.MoveDuration)
}

// ArtworkMenu returns the artwork whose menu is open, or nil.
func (e *Exhibition) ArtworkMenu() *Artwork {
	return e.menu
}

// OpenArtworkMenu opens the menu for a, closing any other.
func (e *Exhibition) OpenArtworkMenu(a *Artwork) {
	if e.menu == a {
		return
	}
	e.CloseArtworkMenu()
	e.menu = a
	if e.OnMenu != nil {
		e.OnMenu(a, true)
	}
}

// CloseArtworkMenu closes the open menu, if any.
func (e *Exhibition) CloseArtworkMenu() {
	a := e.menu
	if a == nil {
		return
	}
	e.menu = nil
	if e.OnMenu != nil {
		e.OnMenu(a, false)
	}
}

// Update advances one tick: applies a queued layout, moves the walker, and
// ticks the surface against the camera pose.
func (e *Exhibition) Update(dt float64) {
	select {
	case l := <-e.pending:
		e.Replace(l.slots, l.data)
	default:
	}

	e.Walker.Update(dt)
	e.Camera.Follow(e.Walker, e.Walker.Height)
	e.Surface.Update(dt)
	// Pick up rotation applied by this tick's drag.
	e.Camera.Follow(e.Walker, e.Walker.Height)
}
