package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// ParseColor converts a CSS colour string into a color.Color.
// Supported forms: "#rgb", "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)" and
// the SVG colour keywords ("white", "transparent", ...).
func ParseColor(style string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(style))

	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, style)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil

	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseFunctional(s, style)

	case s == "transparent":
		return color.Transparent, nil
	}

	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, style)
}

func parseFunctional(s, original string) (color.Color, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, original)
	}

	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, original)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, original)
		}
		ch[i] = uint8(min(max(v, 0), 255))
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidColor, original)
		}
		alpha = min(max(a, 0), 1)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(alpha*255 + 0.5)}, nil
}

// ParseFontSize extracts the pixel size from a CSS font shorthand such as
// "12px sans" or "15pt sans". Points are converted at 96 DPI.
func ParseFontSize(font string) (float64, error) {
	for _, field := range strings.Fields(font) {
		var unit string
		var scale float64
		switch {
		case strings.HasSuffix(field, "px"):
			unit, scale = "px", 1
		case strings.HasSuffix(field, "pt"):
			unit, scale = "pt", 96.0/72.0
		default:
			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSuffix(field, unit), 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid font size %q", font)
		}
		return v * scale, nil
	}
	return 0, fmt.Errorf("no font size in %q", font)
}
