// Package raster implements the Canvas port on top of fogleman/gg, drawing
// into an in-memory RGBA image that the window (or the PNG exporter) displays.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

const defaultFont = "10px sans"

// state is the part of the drawing state gg does not expose.
type state struct {
	fill color.Color
}

// Canvas is a gg-backed canvas.
//
// Thread-safety: drawing calls and Snapshot may come from different
// goroutines; every method takes the canvas lock.
type Canvas struct {
	mu     sync.Mutex
	logger *slog.Logger

	img   *image.RGBA
	dc    *gg.Context
	state state
	stack []state

	ttf   *truetype.Font
	faces map[float64]font.Face
}

// New creates a transparent canvas of the given size.
func New(width, height int) (*Canvas, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in font: %w", err)
	}

	c := &Canvas{
		logger: logger.NewDiscardLogger(),
		ttf:    ttf,
		faces:  make(map[float64]font.Face),
	}
	c.reset(width, height)
	return c, nil
}

// SetLogger sets the logger used to report rejected styles and fonts.
func (c *Canvas) SetLogger(l *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l.With(slog.String("component", "raster-canvas"))
}

// reset recreates the image and the gg context. Caller must hold c.mu.
func (c *Canvas) reset(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	c.dc = gg.NewContextForRGBA(c.img)
	c.stack = nil
	c.state = state{fill: color.Black}
	c.dc.SetColor(color.Black)
	c.applyFont(defaultFont)
}

// Resize changes the canvas size, dropping its content and drawing state.
// Calling it with the current size is a no-op.
func (c *Canvas) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.img.Bounds()
	if b.Dx() == max(width, 1) && b.Dy() == max(height, 1) {
		return
	}
	c.reset(width, height)
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// Depth returns the number of unmatched Save calls.
func (c *Canvas) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

func (c *Canvas) Width() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.img.Bounds().Dx())
}

func (c *Canvas) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.img.Bounds().Dy())
}

func (c *Canvas) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.Push()
	c.stack = append(c.stack, c.state)
}

// Restore pops the last saved state. gg panics on an empty stack, so an
// unbalanced Restore is ignored here.
func (c *Canvas) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.stack)
	if n == 0 {
		return
	}
	c.dc.Pop()
	c.state = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

func (c *Canvas) Translate(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.Translate(x, y)
}

func (c *Canvas) Rotate(angle float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.Rotate(angle)
}

func (c *Canvas) SetFillStyle(style string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	col, err := ParseColor(style)
	if err != nil {
		c.logger.Debug("ignoring fill style", slog.Any("error", err))
		return
	}
	c.state.fill = col
	c.dc.SetFillStyle(gg.NewSolidPattern(col))
}

func (c *Canvas) SetStrokeStyle(style string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	col, err := ParseColor(style)
	if err != nil {
		c.logger.Debug("ignoring stroke style", slog.Any("error", err))
		return
	}
	c.dc.SetStrokeStyle(gg.NewSolidPattern(col))
}

func (c *Canvas) SetLineWidth(width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width > 0 {
		c.dc.SetLineWidth(width)
	}
}

func (c *Canvas) SetFont(f string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyFont(f)
}

// applyFont switches to the face for f, caching faces by size.
// Caller must hold c.mu.
func (c *Canvas) applyFont(f string) {
	size, err := ParseFontSize(f)
	if err != nil {
		c.logger.Debug("ignoring font", slog.Any("error", err))
		return
	}

	face, ok := c.faces[size]
	if !ok {
		face = truetype.NewFace(c.ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		c.faces[size] = face
	}
	c.dc.SetFontFace(face)
}

func (c *Canvas) FillRect(x, y, width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dc.DrawRectangle(x, y, width, height)
	c.dc.Fill()
}

// ClearRect makes the pixels under the rectangle transparent. Under a rotation
// the cleared area is the bounding box of the transformed rectangle.
func (c *Canvas) ClearRect(x, y, width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [][2]float64{{x, y}, {x + width, y}, {x, y + height}, {x + width, y + height}} {
		tx, ty := c.dc.TransformPoint(p[0], p[1])
		minX, maxX = math.Min(minX, tx), math.Max(maxX, tx)
		minY, maxY = math.Min(minY, ty), math.Max(maxY, ty)
	}

	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) BeginPath() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.ClearPath()
}

func (c *Canvas) ClosePath() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.ClosePath()
}

func (c *Canvas) Arc(x, y, radius, startAngle, endAngle float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.DrawArc(x, y, radius, startAngle, endAngle)
}

// Stroke strokes the current path, keeping it like the browser canvas does.
func (c *Canvas) Stroke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.StrokePreserve()
}

// FillText draws text in the fill colour. gg renders text with its single
// colour slot, so the call is wrapped in a push/pop.
func (c *Canvas) FillText(text string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dc.Push()
	c.dc.SetColor(c.state.fill)
	c.dc.DrawString(text, x, y)
	c.dc.Pop()
}

// Verify interface implementation at compile time.
var _ ports.Canvas = (*Canvas)(nil)
