package visualizer

import (
	"strconv"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// DefaultSampleRate is the rate the analyzer assumes when labelling bins.
const DefaultSampleRate = 44100

// Analyzer is the debug overlay: one labelled bar per bin, used to find which
// bins a module should react to.
type Analyzer struct {
	// BarWidth is the width of each bar.
	BarWidth float64
	// Spacing is the gap between bars.
	Spacing float64
	// X and Y offset the chart from the bottom-left corner.
	X, Y float64
	// FreqOffset is the first bin shown.
	FreqOffset int
	// Threshold is the magnitude marked by the cap; bars reaching it switch
	// to SecondaryColor.
	Threshold float64
	// ThresholdHeight is the height of the cap.
	ThresholdHeight float64

	PrimaryColor   string
	SecondaryColor string

	// SampleRate is used for the Hz labels only. It is not read back
	// from the audio source.
	SampleRate float64

	fftSize int
}

// NewAnalyzer creates the overlay with its default tuning.
func NewAnalyzer(_ *Context, fftSize int) *Analyzer {
	return &Analyzer{
		BarWidth:        25,
		Spacing:         3,
		Threshold:       255,
		ThresholdHeight: 2,
		PrimaryColor:    "#b8ff88",
		SecondaryColor:  "#b0b0b0",
		SampleRate:      DefaultSampleRate,
		fftSize:         fftSize,
	}
}

// AnalyzerModule runs the overlay as the active module. Unlike the overlay it
// repaints the whole frame before drawing the bars.
type AnalyzerModule struct {
	*Analyzer

	// Background fills the frame before the chart is drawn.
	Background string
}

// NewAnalyzerModule lets the overlay run as the active module.
func NewAnalyzerModule(ctx *Context, fftSize int) Module {
	return &AnalyzerModule{
		Analyzer:   NewAnalyzer(ctx, fftSize),
		Background: "#000000",
	}
}

// Update clears the frame, fills the background and draws the chart.
func (m *AnalyzerModule) Update(t float64, ctx *Context, freqs *domain.FrequencyBuffer) {
	ctx.Clear()
	ctx.Canvas.SetFillStyle(m.Background)
	ctx.Canvas.FillRect(0, 0, ctx.Width, ctx.Height)
	m.Analyzer.Update(t, ctx, freqs)
}

// FFTSize returns the window size the Hz labels are computed with.
func (a *Analyzer) FFTSize() int {
	return a.fftSize
}

// BinFrequency estimates the centre frequency of bin in Hz.
func (a *Analyzer) BinFrequency(bin int) float64 {
	if a.fftSize <= 0 {
		return 0
	}
	return a.SampleRate / float64(a.fftSize) * float64(bin)
}

// BarCount returns how many bars fit on a canvas of the given width.
func (a *Analyzer) BarCount(width float64) int {
	step := a.BarWidth + a.Spacing
	if step <= 0 {
		return 0
	}
	amount := (width-a.X)/step - 2
	if amount <= 0 {
		return 0
	}
	n := int(amount)
	if float64(n) < amount {
		n++
	}
	return n
}

func (a *Analyzer) Update(_ float64, ctx *Context, freqs *domain.FrequencyBuffer) {
	c := ctx.Canvas
	step := a.BarWidth + a.Spacing
	baseY := ctx.Height - a.Y
	labelY := ctx.Height - a.Threshold - a.ThresholdHeight

	for i := 0; i < a.BarCount(ctx.Width); i++ {
		bin := i + a.FreqOffset
		mag := float64(freqs.At(bin))

		x := float64(i)*step + a.BarWidth/2 + a.X
		labelX := x + a.BarWidth/2 - 10

		c.SetFont("12px sans")
		c.SetFillStyle(a.PrimaryColor)
		c.FillText(strconv.Itoa(int(mag)), labelX, labelY-10)
		c.FillText(strconv.Itoa(bin), labelX, labelY-30)

		hzY := labelY - 50
		if i%2 != 0 {
			hzY = labelY - 60
		}
		c.SetFont("8px sans")
		c.FillText(strconv.FormatFloat(a.BinFrequency(bin), 'f', 0, 64)+"hz", labelX, hzY)

		if mag >= a.Threshold {
			c.SetFillStyle(a.SecondaryColor)
		} else {
			c.SetFillStyle(a.PrimaryColor)
		}
		c.FillRect(x, baseY, a.BarWidth, -mag)

		c.SetFillStyle(a.SecondaryColor)
		c.FillRect(x, baseY-a.Threshold, a.BarWidth, a.ThresholdHeight)
	}
}

var _ Module = (*Analyzer)(nil)
