package source

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Mode selects whether a procedural design gets its opaque background.
type Mode string

const (
	// ModeFull draws the design on its opaque background color
	ModeFull Mode = "full"
	// ModeForeground draws the same geometry on a fully transparent canvas
	ModeForeground Mode = "foreground"
)

// Design names understood by NewProceduralSource
const (
	DesignTrend = "trend"
	DesignChart = "chart"
)

// design describes fixed geometry in its own unit square of designSize units.
type design struct {
	designSize float64
	background color.RGBA
	draw       func(c *canvas)
}

var designs = map[string]design{
	DesignTrend: {
		designSize: 1024,
		background: color.RGBA{15, 23, 42, 255},
		draw:       drawTrend,
	},
	DesignChart: {
		designSize: 32,
		background: color.RGBA{255, 255, 255, 255},
		draw:       drawChart,
	},
}

// Designs returns the available design names.
func Designs() []string {
	return []string{DesignTrend, DesignChart}
}

// ProceduralSource draws a placeholder icon from primitive shapes instead of
// reading a file.
type ProceduralSource struct {
	name   string
	design design
	mode   Mode
}

// NewProceduralSource returns the named design in the given mode.
func NewProceduralSource(designName string, mode Mode) (*ProceduralSource, error) {
	d, ok := designs[strings.ToLower(designName)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown design %q", ErrInvalidSource, designName)
	}
	switch mode {
	case ModeFull, ModeForeground:
	case "":
		mode = ModeFull
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidSource, mode)
	}
	return &ProceduralSource{
		name:   fmt.Sprintf("%s-%s", strings.ToLower(designName), mode),
		design: d,
		mode:   mode,
	}, nil
}

// Name returns the source name
func (s *ProceduralSource) Name() string {
	return s.name
}

// Mode returns the background mode
func (s *ProceduralSource) Mode() Mode {
	return s.mode
}

// DesignSize returns the native size of the design in pixels.
func (s *ProceduralSource) DesignSize() int {
	return int(s.design.designSize)
}

// Render draws the design scaled to size x size.
func (s *ProceduralSource) Render(size int) (image.Image, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if s.mode == ModeFull {
		draw.Draw(img, img.Bounds(), &image.Uniform{s.design.background}, image.Point{}, draw.Src)
	}

	c := newCanvas(img, float64(size)/s.design.designSize)
	s.design.draw(c)
	return img, nil
}

// canvas scales design units to pixels and draws with rasterx.
type canvas struct {
	scale   float64
	filler  *rasterx.Filler
	stroker *rasterx.Stroker
}

func newCanvas(img *image.RGBA, scale float64) *canvas {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return &canvas{
		scale:   scale,
		filler:  rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
		stroker: rasterx.NewStroker(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
	}
}

func (c *canvas) point(x, y float64) fixed.Point26_6 {
	return rasterx.ToFixedP(x*c.scale, y*c.scale)
}

func (c *canvas) fillCircle(cx, cy, r float64, fill color.Color) {
	c.filler.Clear()
	c.filler.SetColor(fill)
	rasterx.AddCircle(cx*c.scale, cy*c.scale, r*c.scale, c.filler)
	c.filler.Draw()
}

// strokeCircleInside draws an outline of the given width inside the circle edge.
func (c *canvas) strokeCircleInside(cx, cy, r, width float64, stroke color.Color) {
	w := width * c.scale
	c.stroker.Clear()
	c.stroker.SetStroke(fixed.Int26_6(w*64), 4<<6, nil, nil, nil, rasterx.Round)
	c.stroker.SetColor(stroke)
	rasterx.AddCircle(cx*c.scale, cy*c.scale, r*c.scale-w/2, c.stroker)
	c.stroker.Draw()
}

// fillRect fills the pixel-inclusive rectangle [x0,x1] x [y0,y1] in design units.
func (c *canvas) fillRect(x0, y0, x1, y1 float64, fill color.Color) {
	c.filler.Clear()
	c.filler.SetColor(fill)
	rasterx.AddRect(x0*c.scale, y0*c.scale, (x1+1)*c.scale, (y1+1)*c.scale, 0, c.filler)
	c.filler.Draw()
}

func (c *canvas) fillPolygon(points [][2]float64, fill color.Color) {
	if len(points) < 3 {
		return
	}
	c.filler.Clear()
	c.filler.SetColor(fill)
	c.filler.Start(c.point(points[0][0], points[0][1]))
	for _, p := range points[1:] {
		c.filler.Line(c.point(p[0], p[1]))
	}
	c.filler.Stop(true)
	c.filler.Draw()
}

// drawTrend is a blue disc with a light rim and a green rising arrow.
func drawTrend(c *canvas) {
	const (
		center = 512.0
		radius = 300.0
	)
	c.fillCircle(center, center, radius, color.RGBA{59, 130, 246, 255})
	c.strokeCircleInside(center, center, radius, 20, color.RGBA{147, 197, 253, 255})
	c.fillPolygon([][2]float64{
		{center - 150, center + 50},
		{center - 50, center - 50},
		{center + 50, center - 100},
		{center + 150, center - 150},
		{center + 100, center - 200},
		{center + 200, center - 250},
		{center + 150, center - 200},
		{center + 50, center - 150},
		{center - 50, center - 100},
		{center - 150, center},
	}, color.RGBA{34, 197, 94, 255})
}

// drawChart is three rising bars.
func drawChart(c *canvas) {
	c.fillRect(4, 20, 8, 28, color.RGBA{0, 123, 255, 255})
	c.fillRect(12, 15, 16, 28, color.RGBA{40, 167, 69, 255})
	c.fillRect(20, 10, 24, 28, color.RGBA{255, 193, 7, 255})
}
