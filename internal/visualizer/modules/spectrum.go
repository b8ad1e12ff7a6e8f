package modules

import (
	"math"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/mathutil"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
)

// SpectrumOptions configures a SpectrumBars module.
type SpectrumOptions struct {
	Bars           int
	PrimaryColor   string // bar colour at silence
	SecondaryColor string // bar colour at full scale
	CapColor       string
	Background     string
	CapHeight      float64
	CapFalloff     float64 // pixels per frame the cap falls
	MinGap         float64
	Padding        float64
}

// DefaultSpectrumOptions returns the stock SpectrumBars look.
func DefaultSpectrumOptions() SpectrumOptions {
	return SpectrumOptions{
		Bars:           64,
		PrimaryColor:   "#ba88bf",
		SecondaryColor: "#b8ff88",
		CapColor:       "#ffffff",
		Background:     "#001027",
		CapHeight:      2,
		CapFalloff:     2,
		MinGap:         2,
		Padding:        10,
	}
}

// SpectrumBars draws a linear bar spectrum with logarithmic bin grouping and
// falling caps.
type SpectrumBars struct {
	SpectrumOptions

	primary   uint32
	secondary uint32
	caps      []float64

	// layout cache, recalculated when the canvas size or Bars changes
	lastW, lastH float64
	barWidth     float64
	gap          float64
	startX       float64
	effectiveH   float64
}

// NewSpectrumBars creates the module with default options.
func NewSpectrumBars(ctx *visualizer.Context, fftSize int) visualizer.Module {
	return SpectrumFactory(DefaultSpectrumOptions())(ctx, fftSize)
}

// SpectrumFactory returns a factory building SpectrumBars with opts.
// Unparseable colours fall back to the defaults.
func SpectrumFactory(opts SpectrumOptions) visualizer.Factory {
	return func(_ *visualizer.Context, _ int) visualizer.Module {
		def := DefaultSpectrumOptions()
		if opts.Bars <= 0 {
			opts.Bars = def.Bars
		}
		m := &SpectrumBars{
			SpectrumOptions: opts,
			caps:            make([]float64, opts.Bars),
		}
		var err error
		if m.primary, err = mathutil.ParseHex(opts.PrimaryColor); err != nil {
			m.primary = mathutil.MustParseHex(def.PrimaryColor)
		}
		if m.secondary, err = mathutil.ParseHex(opts.SecondaryColor); err != nil {
			m.secondary = mathutil.MustParseHex(def.SecondaryColor)
		}
		return m
	}
}

// BarHeights groups bins into bars on a logarithmic scale and scales the loudest
// bin of each group to maxHeight. Bin 0 (DC) is skipped.
func BarHeights(freqs *domain.FrequencyBuffer, bars int, maxHeight float64) []float64 {
	heights := make([]float64, bars)
	n := freqs.Len()
	if n < 2 || bars <= 0 {
		return heights
	}

	octaves := math.Log2(float64(n))
	b0 := 1
	for x := 0; x < bars; x++ {
		b1 := n - 1
		if bars > 1 {
			b1 = int(math.Pow(2, float64(x)*octaves/float64(bars-1)))
		}
		b1 = min(max(b1, b0), n-1)

		var peak uint8
		for b := b0; b <= b1; b++ {
			peak = max(peak, freqs.At(b))
		}

		heights[x] = mathutil.Clamp(float64(peak)/255*maxHeight, 0, maxHeight)
		b0 = b1 + 1
	}
	return heights
}

func (m *SpectrumBars) layout(w, h float64) {
	m.lastW, m.lastH = w, h

	effectiveW := w - 2*m.Padding
	m.effectiveH = h - m.Padding
	if effectiveW <= 0 || m.effectiveH <= 0 {
		m.barWidth = 0
		return
	}

	n := float64(m.Bars)
	m.barWidth = math.Max(math.Floor((effectiveW-(n-1)*m.MinGap)/n), 1)

	m.gap = m.MinGap
	if m.Bars > 1 {
		m.gap = math.Max(math.Floor((effectiveW-m.barWidth*n)/(n-1)), m.MinGap)
	}

	used := n*m.barWidth + (n-1)*m.gap
	m.startX = m.Padding + math.Floor((effectiveW-used)/2)
}

func (m *SpectrumBars) Update(_ float64, ctx *visualizer.Context, freqs *domain.FrequencyBuffer) {
	c := ctx.Canvas
	w, h := ctx.Width, ctx.Height

	c.SetFillStyle(m.Background)
	c.FillRect(0, 0, w, h)

	if m.Bars <= 0 {
		return
	}
	if len(m.caps) != m.Bars {
		m.caps = make([]float64, m.Bars)
		m.lastW, m.lastH = 0, 0
	}
	if m.lastW != w || m.lastH != h {
		m.layout(w, h)
	}
	if m.barWidth == 0 {
		return
	}

	heights := BarHeights(freqs, m.Bars, m.effectiveH)
	for i, barH := range heights {
		if barH > m.caps[i] {
			m.caps[i] = barH
		} else {
			m.caps[i] = math.Max(m.caps[i]-m.CapFalloff, 0)
		}

		x := m.startX + float64(i)*(m.barWidth+m.gap)
		col := mathutil.InterpColor(m.primary, m.secondary, barH/m.effectiveH)
		c.SetFillStyle(mathutil.HexColor(col))
		c.FillRect(x, h, m.barWidth, -barH)

		if m.caps[i] > 0 {
			c.SetFillStyle(m.CapColor)
			c.FillRect(x, h-m.caps[i]-m.CapHeight, m.barWidth, m.CapHeight)
		}
	}
}

// Caps returns the current cap heights.
func (m *SpectrumBars) Caps() []float64 {
	out := make([]float64, len(m.caps))
	copy(out, m.caps)
	return out
}

var _ visualizer.Module = (*SpectrumBars)(nil)
