// Package mathutil holds the numeric and colour helpers shared by visualizer modules.
// All functions are pure.
package mathutil

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

const (
	interpMask1 = 0xff00ff
	interpMask2 = 0x00ff00
)

// RGBA formats a CSS rgba() colour string. The colour channels are truncated
// toward zero and alpha is clamped to [0, 1].
func RGBA(r, g, b, a float64) string {
	a = Clamp(a, 0, 1)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", int(r), int(g), int(b), strconv.FormatFloat(a, 'f', -1, 64))
}

// RGB is RGBA with full opacity.
func RGB(r, g, b float64) string {
	return RGBA(r, g, b, 1)
}

// Lerp interpolates linearly between start and end.
func Lerp(start, end, amt float64) float64 {
	return (1-amt)*start + amt*end
}

// InterpColor blends two 0xRRGGBB colours. frac is clamped to [0, 1];
// 0 yields a, 1 yields b.
func InterpColor(a, b uint32, frac float64) uint32 {
	frac = Clamp(frac, 0, 1)
	f2 := int64(256 * frac)
	f1 := 256 - f2

	ai, bi := int64(a), int64(b)
	rb := (((ai&interpMask1)*f1 + (bi&interpMask1)*f2) >> 8) & interpMask1
	g := (((ai&interpMask2)*f1 + (bi&interpMask2)*f2) >> 8) & interpMask2
	return uint32(rb | g)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// HexColor formats a 0xRRGGBB value as "#rrggbb".
func HexColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}

// ParseHex converts "#rrggbb" into a 0xRRGGBB value.
func ParseHex(s string) (uint32, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// MustParseHex is ParseHex for compile-time constants. It panics on malformed input.
func MustParseHex(s string) uint32 {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
