package ports

// Canvas is the immediate-mode 2D drawing collaborator.
//
// The method set follows the HTML canvas 2D context: styles are CSS colour
// strings ("#001027", "rgba(255, 0, 0, 0.5)"), fonts are CSS shorthand ("12px
// sans"), angles are radians, and Save/Restore push and pop the whole drawing
// state (transform, styles, line width, font). Restore without a matching Save
// is a no-op. Invalid style strings leave the current style unchanged.
type Canvas interface {
	// Width returns the drawable width in pixels.
	Width() float64

	// Height returns the drawable height in pixels.
	Height() float64

	Save()
	Restore()

	Translate(x, y float64)
	Rotate(angle float64)

	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(width float64)
	SetFont(font string)

	// FillRect fills a rectangle with the fill style. Negative sizes extend
	// the rectangle left or up from (x, y).
	FillRect(x, y, width, height float64)

	// ClearRect resets the pixels covered by the rectangle to transparent.
	ClearRect(x, y, width, height float64)

	BeginPath()
	ClosePath()
	Arc(x, y, radius, startAngle, endAngle float64)
	Stroke()

	// FillText draws text with its alphabetic baseline at y.
	FillText(text string, x, y float64)
}
