package modules

import (
	"math"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
)

const (
	// Auto-rotation wraps the sweep back to rotateBase once it passes
	// rotateCeiling degrees.
	rotateCeiling = 100000
	rotateBase    = 720

	ringMargin    = 40
	ringMinRadius = 20
	minBarLength  = 5
)

// CircularOptions configures a CircularBars module.
type CircularOptions struct {
	Amount         int
	Inward         bool
	TotalAngle     float64 // degrees swept by the fan
	AutoRotate     bool
	PrimaryColor   string // ring
	SecondaryColor string // bars
	Background     string
}

// DefaultCircularOptions returns the stock CircularBars look.
func DefaultCircularOptions() CircularOptions {
	return CircularOptions{
		Amount:         100,
		TotalAngle:     360,
		PrimaryColor:   "#ba88bf",
		SecondaryColor: "#ba88bf",
		Background:     "#001027",
	}
}

// CircularBars draws a fan of radial bars around the canvas centre, one bar
// per bin, and a ring whose radius follows the mean loudness.
type CircularBars struct {
	CircularOptions
}

// NewCircularBars creates the module with default options.
func NewCircularBars(ctx *visualizer.Context, fftSize int) visualizer.Module {
	return CircularFactory(DefaultCircularOptions())(ctx, fftSize)
}

// CircularFactory returns a factory building CircularBars with opts.
func CircularFactory(opts CircularOptions) visualizer.Factory {
	return func(_ *visualizer.Context, _ int) visualizer.Module {
		return &CircularBars{CircularOptions: opts}
	}
}

// RingRadius maps a mean magnitude to the ring radius for a fan of the given
// radius. The result stays within [20, radius-40]; the lower bound wins when
// the two conflict.
func RingRadius(mean, radius float64) float64 {
	return math.Max(math.Min(mean/255*radius, radius-ringMargin), ringMinRadius)
}

// BarLength returns the drawn length of a bar for magnitude v.
func BarLength(v uint8) float64 {
	return math.Max(float64(v)/2, minBarLength)
}

func (m *CircularBars) Update(_ float64, ctx *visualizer.Context, freqs *domain.FrequencyBuffer) {
	c := ctx.Canvas
	w, h := ctx.Width, ctx.Height
	cx, cy := ctx.CenterX(), ctx.CenterY()

	radius := w / 8
	lineWidth := w / 300
	height := w / 200
	intrude := w / 100

	ctx.Clear()
	c.SetFillStyle(m.Background)
	c.FillRect(0, 0, w, h)

	if m.Amount <= 0 {
		return
	}
	step := m.TotalAngle * (math.Pi / 180) / float64(m.Amount)

	c.SetFillStyle(m.SecondaryColor)
	c.SetStrokeStyle(m.PrimaryColor)

	c.Translate(cx, cy)
	for i := 0; i < m.Amount; i++ {
		c.Rotate(step)
		x := radius
		if m.Inward {
			x = -radius
		}
		if i != 0 && i%3 == 0 {
			x -= intrude
		}
		c.FillRect(x, -height/2, BarLength(freqs.At(i)), height)
	}
	c.Translate(-cx, -cy)

	mean := freqs.Mean(m.Amount)

	c.Translate(cx, cy)
	c.BeginPath()
	c.Arc(0, 0, RingRadius(mean, radius), 0, 2*math.Pi)
	c.ClosePath()
	c.SetLineWidth(lineWidth)
	c.Stroke()
	c.Translate(-cx, -cy)

	if m.AutoRotate {
		m.TotalAngle++
		if m.TotalAngle > rotateCeiling {
			m.TotalAngle = rotateBase
		}
	}
}

var _ visualizer.Module = (*CircularBars)(nil)
