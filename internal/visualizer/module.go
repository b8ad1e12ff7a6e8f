package visualizer

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Module is a rendering strategy driven once per frame.
//
// Update receives the frame time in seconds, the shared context and the
// spectrum of the current frame. Modules repaint the whole frame themselves and
// may change the canvas transform and styles freely: the visualizer restores
// the drawing state after every frame.
type Module interface {
	Update(t float64, ctx *Context, freqs *domain.FrequencyBuffer)
}

// Factory builds a module bound to a context and the analyser FFT size.
type Factory func(ctx *Context, fftSize int) Module

// Context is what every module sees of the visualizer.
// Width and Height are refreshed from the canvas before each frame and stay
// fixed while the frame is drawn.
type Context struct {
	Width  float64
	Height float64
	Canvas ports.Canvas
}

func newContext(c ports.Canvas) *Context {
	ctx := &Context{Canvas: c}
	ctx.refresh()
	return ctx
}

func (c *Context) refresh() {
	c.Width = c.Canvas.Width()
	c.Height = c.Canvas.Height()
}

// Clear wipes the whole canvas to transparent.
func (c *Context) Clear() {
	c.Canvas.ClearRect(0, 0, c.Width, c.Height)
}

// CenterX returns the horizontal centre of the canvas.
func (c *Context) CenterX() float64 { return c.Width / 2 }

// CenterY returns the vertical centre of the canvas.
func (c *Context) CenterY() float64 { return c.Height / 2 }
