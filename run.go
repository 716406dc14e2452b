package gallery

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	defaultWindowWidth  = 960
	defaultWindowHeight = 540
	floorExtent         = 48.0
	floorStep           = 8.0
	menuWidth           = 280.0
	menuPadding         = 14.0
	menuLineHeight      = 18.0
)

var (
	floorColor = Color{R: 0.35, G: 0.35, B: 0.42, A: 1}
	boardColor = Color{R: 0.6, G: 0.6, B: 0.66, A: 1}
	menuColor  = Color{R: 0.05, G: 0.05, B: 0.08, A: 0.85}
)

// RunConfig holds optional configuration for Run.
type RunConfig struct {
	// Title sets the window title.
	Title string
	// Width and Height set the window size. Zero selects 960x540.
	Width, Height int
	// TPS sets the tick rate. Zero keeps Ebitengine's default of 60.
	TPS int
	// Debug logs surface stats to stderr every tick.
	Debug bool
	// ShowFPS draws the current FPS and TPS in the top-right corner.
	ShowFPS bool
	// ClearColor fills the screen before each frame.
	ClearColor Color
	// ScreenshotDir receives screenshots queued through Surface.Screenshot.
	// Empty selects "screenshots".
	ScreenshotDir string
	// ExitWhenDone stops the game once an attached TestRunner finishes.
	ExitWhenDone bool
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Width <= 0 {
		c.Width = defaultWindowWidth
	}
	if c.Height <= 0 {
		c.Height = defaultWindowHeight
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	return c
}

// Game implements ebiten.Game for an Exhibition: it polls input into the
// surface, ticks the exhibition and draws the walls as projected wireframes
// under the overlay.
type Game struct {
	Exhibition *Exhibition
	Overlay    *Overlay

	cfg    RunConfig
	canvas *Canvas
	poller *Poller

	width, height int
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a Game for ex.
func NewGame(ex *Exhibition, cfg RunConfig) (*Game, error) {
	if ex == nil {
		return nil, errors.New("gallery: nil exhibition")
	}
	cfg = cfg.withDefaults()
	canvas, err := NewCanvas(0)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		ex.Surface.SetDebugMode(true)
	}
	return &Game{
		Exhibition: ex,
		Overlay:    NewOverlay(),
		cfg:        cfg,
		canvas:     canvas,
		poller:     NewPoller(),
	}, nil
}

// Run is a convenience entry point that creates a window and runs ex.
func Run(ex *Exhibition, cfg RunConfig) error {
	g, err := NewGame(ex, cfg)
	if err != nil {
		return err
	}
	cfg = g.cfg
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("gallery: run: %w", err)
	}
	return nil
}

// Update polls input and advances the exhibition by one tick.
func (g *Game) Update() error {
	s := g.Exhibition.Surface
	g.poller.Poll(s)
	g.Exhibition.Update(1 / float64(ebiten.TPS()))

	if g.cfg.ExitWhenDone && s.testRunner != nil && s.testRunner.Done() && !s.Injecting() && len(s.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Layout reports the outside size as the logical size and forwards changes
// to the surface as resize events.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.Exhibition.Surface.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Draw renders the frame and writes any queued screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	} else {
		screen.Fill(color.Black)
	}

	s := g.Exhibition.Surface
	c := g.canvas
	c.Begin(screen)

	g.drawFloor(c)
	g.drawBoards(c)
	g.Overlay.Draw(c, s)
	g.drawMenu(c)

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
			screen.Bounds().Dx()-96, 4)
	}

	flushScreenshots(screen, g.cfg.ScreenshotDir, s.takeScreenshots())
}

// drawFloor draws a grid on the y = 0 plane.
func (g *Game) drawFloor(c *Canvas) {
	c.SetAlpha(0.6)
	c.SetStrokeColor(floorColor)
	c.SetLineWidth(1)
	c.BeginPath()
	for v := -floorExtent; v <= floorExtent; v += floorStep {
		g.segment(c, mgl64.Vec3{v, 0, -floorExtent}, mgl64.Vec3{v, 0, floorExtent})
		g.segment(c, mgl64.Vec3{-floorExtent, 0, v}, mgl64.Vec3{floorExtent, 0, v})
	}
	c.Stroke()
	c.SetAlpha(1)
}

// drawBoards outlines every Ready board, near or far.
func (g *Game) drawBoards(c *Canvas) {
	c.SetStrokeColor(boardColor)
	c.SetLineWidth(1)
	c.BeginPath()
	for _, a := range g.Exhibition.Artworks() {
		q, ok := a.Node().Anchor().Corners()
		if !ok {
			continue
		}
		g.segment(c, q.A, q.B)
		g.segment(c, q.B, q.C)
		g.segment(c, q.C, q.D)
		g.segment(c, q.D, q.A)
	}
	c.Stroke()
	c.SetLineWidth(1.5)
}

// segment adds the part of p0-p1 in front of the near plane to the path.
func (g *Game) segment(c *Canvas, p0, p1 mgl64.Vec3) {
	cam := g.Exhibition.Camera
	eye, fwd := cam.Position(), cam.WorldDirection()
	d0 := p0.Sub(eye).Dot(fwd) - cam.Near
	d1 := p1.Sub(eye).Dot(fwd) - cam.Near
	if d0 < 0 && d1 < 0 {
		return
	}
	if d0 < 0 {
		p0 = p0.Add(p1.Sub(p0).Mul(d0 / (d0 - d1)))
	} else if d1 < 0 {
		p1 = p1.Add(p0.Sub(p1).Mul(d1 / (d1 - d0)))
	}
	centre := g.Exhibition.Surface.Centre()
	a := Project(p0, cam, centre)
	b := Project(p1, cam, centre)
	if math.IsNaN(a.X+a.Y+b.X+b.Y) {
		return
	}
	c.MoveTo(a.X, a.Y)
	c.LineTo(b.X, b.Y)
}

// drawMenu shows the open artwork's details in a side panel.
func (g *Game) drawMenu(c *Canvas) {
	a := g.Exhibition.ArtworkMenu()
	if a == nil {
		return
	}
	w := float64(g.width)
	h := float64(g.height)
	x := w - menuWidth

	c.SetAlpha(1)
	c.SetFillColor(menuColor)
	c.BeginPath()
	c.MoveTo(x, 0)
	c.LineTo(w, 0)
	c.LineTo(w, h)
	c.LineTo(x, h)
	c.ClosePath()
	c.Fill()

	c.SetFillColor(ColorWhite)
	y := menuPadding + menuLineHeight
	for _, line := range []string{a.Data.Title, a.Data.Subtitle, a.Data.Desc, a.Data.Link} {
		if line == "" {
			continue
		}
		c.FillText(line, x+menuPadding, y)
		y += menuLineHeight
	}
}
