package raster

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ba88bf", color.NRGBA{0xba, 0x88, 0xbf, 0xff}},
		{"#FFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 0xff}},
		{"rgba(10, 20, 30, 0.5)", color.NRGBA{10, 20, 30, 128}},
		{"rgba(300, -5, 30, 7)", color.NRGBA{255, 0, 30, 255}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.in, err)
			continue
		}
		if color.NRGBAModel.Convert(got) != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColor_Keywords(t *testing.T) {
	white, err := ParseColor("White")
	if err != nil {
		t.Fatalf("ParseColor(White) error: %v", err)
	}
	if r, g, b, a := white.RGBA(); r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("white = %v", white)
	}

	none, err := ParseColor("transparent")
	if err != nil {
		t.Fatalf("ParseColor(transparent) error: %v", err)
	}
	if _, _, _, a := none.RGBA(); a != 0 {
		t.Errorf("transparent has alpha %d", a)
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "rgb(1, 2)", "rgba(a, b, c, d)", "chartreuse-ish"} {
		if _, err := ParseColor(in); !errors.Is(err, domain.ErrInvalidColor) {
			t.Errorf("ParseColor(%q) = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestParseFontSize(t *testing.T) {
	if got, _ := ParseFontSize("12px sans"); got != 12 {
		t.Errorf("12px = %v", got)
	}
	if got, _ := ParseFontSize("15pt sans"); math.Abs(got-20) > 1e-9 {
		t.Errorf("15pt = %v, want 20", got)
	}
	if _, err := ParseFontSize("bold sans"); err == nil {
		t.Error("expected error for missing size")
	}
	if _, err := ParseFontSize("-3px sans"); err == nil {
		t.Error("expected error for negative size")
	}
}

func newCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := New(w, h)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.Snapshot().RGBAAt(x, y)
}

func TestCanvas_FillAndClear(t *testing.T) {
	c := newCanvas(t, 20, 10)
	if c.Width() != 20 || c.Height() != 10 {
		t.Fatalf("size = %vx%v", c.Width(), c.Height())
	}

	c.SetFillStyle("#ff0000")
	c.FillRect(0, 0, 20, 10)
	if got := pixel(c, 5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel after fill = %v", got)
	}

	c.ClearRect(0, 0, 10, 10)
	if got := pixel(c, 5, 5); got.A != 0 {
		t.Errorf("pixel after clear = %v", got)
	}
	if got := pixel(c, 15, 5); got.R != 255 {
		t.Errorf("pixel outside clear = %v", got)
	}
}

func TestCanvas_SaveRestore(t *testing.T) {
	c := newCanvas(t, 20, 10)

	c.Save()
	c.Translate(10, 0)
	c.SetFillStyle("#0000ff")
	c.FillRect(0, 0, 5, 5)
	c.Restore()

	c.FillRect(0, 0, 5, 5)

	if got := pixel(c, 12, 2); got.B != 255 {
		t.Errorf("translated rect pixel = %v", got)
	}
	if got := pixel(c, 2, 2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("fill style leaked past Restore: %v", got)
	}
	if c.Depth() != 0 {
		t.Errorf("Depth() = %d", c.Depth())
	}
}

func TestCanvas_UnbalancedRestore(t *testing.T) {
	c := newCanvas(t, 4, 4)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Restore on empty stack panicked: %v", r)
		}
	}()
	c.Restore()
	c.Restore()
}

func TestCanvas_InvalidStyleIgnored(t *testing.T) {
	c := newCanvas(t, 4, 4)
	c.SetFillStyle("#00ff00")
	c.SetFillStyle("no-such-colour")
	c.FillRect(0, 0, 4, 4)

	if got := pixel(c, 1, 1); got.G != 255 {
		t.Errorf("pixel = %v, want green", got)
	}
}

func TestCanvas_NegativeHeight(t *testing.T) {
	c := newCanvas(t, 10, 10)
	c.SetFillStyle("white")
	c.FillRect(2, 10, 4, -5)

	if got := pixel(c, 3, 8); got.A != 255 {
		t.Errorf("bar drawn upward missing: %v", got)
	}
	if got := pixel(c, 3, 2); got.A != 0 {
		t.Errorf("bar too tall: %v", got)
	}
}

func TestCanvas_StrokeArc(t *testing.T) {
	c := newCanvas(t, 20, 20)
	c.SetStrokeStyle("white")
	c.SetLineWidth(2)
	c.BeginPath()
	c.Arc(10, 10, 6, 0, 2*math.Pi)
	c.ClosePath()
	c.Stroke()

	if got := pixel(c, 16, 10); got.A == 0 {
		t.Error("ring pixel not drawn")
	}
	if got := pixel(c, 10, 10); got.A != 0 {
		t.Errorf("ring centre drawn: %v", got)
	}
}

func TestCanvas_FillText(t *testing.T) {
	c := newCanvas(t, 60, 30)
	c.SetFont("15pt sans")
	c.SetFillStyle("white")
	c.FillText("88", 5, 25)

	img := c.Snapshot()
	inked := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("FillText drew nothing")
	}
}

func TestCanvas_Resize(t *testing.T) {
	c := newCanvas(t, 10, 10)
	c.SetFillStyle("white")
	c.FillRect(0, 0, 10, 10)
	c.Save()

	c.Resize(10, 10)
	if c.Depth() != 1 {
		t.Error("same-size Resize must keep state")
	}

	c.Resize(30, 20)
	if c.Width() != 30 || c.Height() != 20 {
		t.Errorf("size after Resize = %vx%v", c.Width(), c.Height())
	}
	if c.Depth() != 0 {
		t.Errorf("Depth() after Resize = %d", c.Depth())
	}
	if got := pixel(c, 1, 1); got.A != 0 {
		t.Errorf("content survived Resize: %v", got)
	}
}
