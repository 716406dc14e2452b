package gallery

import "math"

const (
	promptSegments   = 16
	dragPromptRadius = 18.0
	clickPromptSize  = 10.0
)

// Overlay draws the 2D layer above the 3D view: the outline and info tag of
// every hovered node, and the input prompts of a Surface.
type Overlay struct {
	// NoclipText is shown in the top-left corner while noclip is on.
	NoclipText string
}

// NewOverlay returns an overlay with the default prompt text.
func NewOverlay() *Overlay {
	return &Overlay{NoclipText: "noclip (ctrl+x)"}
}

// Draw renders nodes first, then prompts, so prompts stay on top.
func (o *Overlay) Draw(ctx DrawContext, s *Surface) {
	for _, n := range s.Nodes() {
		n.Draw(ctx)
	}

	x, y := s.Pointer()
	if s.DragPrompt() {
		o.drawDragPrompt(ctx, x, y)
	}
	if s.ClickPrompt() {
		o.drawClickPrompt(ctx, x, y)
	}
	if s.NoclipPrompt() && o.NoclipText != "" {
		ctx.SetAlpha(1)
		ctx.SetFillColor(ColorWhite)
		ctx.FillText(o.NoclipText, 12, 24)
	}
}

// drawDragPrompt shades a disc under the pointer while a look drag is held.
func (o *Overlay) drawDragPrompt(ctx DrawContext, x, y float64) {
	ctx.SetAlpha(0.25)
	ctx.SetFillColor(ColorWhite)
	circlePath(ctx, x, y, dragPromptRadius)
	ctx.Fill()
	ctx.SetAlpha(1)
}

// drawClickPrompt rings the pointer when a click would hit a node.
func (o *Overlay) drawClickPrompt(ctx DrawContext, x, y float64) {
	ctx.SetAlpha(0.9)
	ctx.SetStrokeColor(ColorWhite)
	ctx.SetLineWidth(2)
	circlePath(ctx, x, y, clickPromptSize)
	ctx.Stroke()
	ctx.SetLineWidth(1.5)
	ctx.SetAlpha(1)
}

// circlePath replaces the current path with a closed polygon approximating a
// circle.
func circlePath(ctx DrawContext, cx, cy, r float64) {
	ctx.BeginPath()
	for i := 0; i < promptSegments; i++ {
		a := 2 * math.Pi * float64(i) / promptSegments
		px, py := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			ctx.MoveTo(px, py)
		} else {
			ctx.LineTo(px, py)
		}
	}
	ctx.ClosePath()
}
