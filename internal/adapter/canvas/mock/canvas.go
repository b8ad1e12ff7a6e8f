// Package mock provides a recording Canvas for tests.
package mock

import (
	"math"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Matrix is a 2D affine transform [a c e; b d f; 0 0 1], laid out like the
// canvas setTransform(a, b, c, d, e, f) arguments.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the untransformed matrix.
var Identity = Matrix{A: 1, D: 1}

// Multiply returns m·n (n applied first).
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps a point through the matrix.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Near reports whether every component of m is within eps of n.
func (m Matrix) Near(n Matrix, eps float64) bool {
	return math.Abs(m.A-n.A) <= eps && math.Abs(m.B-n.B) <= eps &&
		math.Abs(m.C-n.C) <= eps && math.Abs(m.D-n.D) <= eps &&
		math.Abs(m.E-n.E) <= eps && math.Abs(m.F-n.F) <= eps
}

// State is the drawing state captured by Save.
type State struct {
	Transform   Matrix
	FillStyle   string
	StrokeStyle string
	LineWidth   float64
	Font        string
}

func defaultState() State {
	return State{
		Transform:   Identity,
		FillStyle:   "#000000",
		StrokeStyle: "#000000",
		LineWidth:   1,
		Font:        "10px sans",
	}
}

// Call is one recorded drawing operation.
type Call struct {
	Op    string
	Args  []float64
	Text  string
	State State // drawing state at the time of the call
}

// Canvas records every call made against it and tracks the drawing state
// stack the way a browser 2D context does.
type Canvas struct {
	mu     sync.Mutex
	width  float64
	height float64
	state  State
	stack  []State
	calls  []Call

	// OnCall, when set, runs after each recorded call (outside the lock).
	OnCall func(Call)
}

// NewCanvas creates a recording canvas of the given size.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{width: width, height: height, state: defaultState()}
}

// Resize changes the reported dimensions.
func (c *Canvas) Resize(width, height float64) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

func (c *Canvas) record(op, text string, args ...float64) {
	c.mu.Lock()
	call := Call{Op: op, Args: args, Text: text, State: c.state}
	c.calls = append(c.calls, call)
	hook := c.OnCall
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
}

func (c *Canvas) Width() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *Canvas) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func (c *Canvas) Save() {
	c.mu.Lock()
	c.stack = append(c.stack, c.state)
	c.mu.Unlock()
	c.record("Save", "")
}

func (c *Canvas) Restore() {
	c.mu.Lock()
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
	c.mu.Unlock()
	c.record("Restore", "")
}

func (c *Canvas) Translate(x, y float64) {
	c.mu.Lock()
	c.state.Transform = c.state.Transform.Multiply(Matrix{A: 1, D: 1, E: x, F: y})
	c.mu.Unlock()
	c.record("Translate", "", x, y)
}

func (c *Canvas) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	c.mu.Lock()
	c.state.Transform = c.state.Transform.Multiply(Matrix{A: cos, B: sin, C: -sin, D: cos})
	c.mu.Unlock()
	c.record("Rotate", "", angle)
}

func (c *Canvas) SetFillStyle(style string) {
	c.mu.Lock()
	c.state.FillStyle = style
	c.mu.Unlock()
	c.record("SetFillStyle", style)
}

func (c *Canvas) SetStrokeStyle(style string) {
	c.mu.Lock()
	c.state.StrokeStyle = style
	c.mu.Unlock()
	c.record("SetStrokeStyle", style)
}

func (c *Canvas) SetLineWidth(width float64) {
	c.mu.Lock()
	c.state.LineWidth = width
	c.mu.Unlock()
	c.record("SetLineWidth", "", width)
}

func (c *Canvas) SetFont(font string) {
	c.mu.Lock()
	c.state.Font = font
	c.mu.Unlock()
	c.record("SetFont", font)
}

func (c *Canvas) FillRect(x, y, width, height float64) {
	c.record("FillRect", "", x, y, width, height)
}

func (c *Canvas) ClearRect(x, y, width, height float64) {
	c.record("ClearRect", "", x, y, width, height)
}

func (c *Canvas) BeginPath() { c.record("BeginPath", "") }

func (c *Canvas) ClosePath() { c.record("ClosePath", "") }

func (c *Canvas) Arc(x, y, radius, startAngle, endAngle float64) {
	c.record("Arc", "", x, y, radius, startAngle, endAngle)
}

func (c *Canvas) Stroke() { c.record("Stroke", "") }

func (c *Canvas) FillText(text string, x, y float64) {
	c.record("FillText", text, x, y)
}

// Calls returns a copy of the recorded calls.
func (c *Canvas) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallsOf returns the recorded calls with the given op.
func (c *Canvas) CallsOf(op string) []Call {
	var out []Call
	for _, call := range c.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// CountOp returns how many times op was called.
func (c *Canvas) CountOp(op string) int {
	return len(c.CallsOf(op))
}

// Reset forgets recorded calls. The drawing state is kept.
func (c *Canvas) Reset() {
	c.mu.Lock()
	c.calls = nil
	c.mu.Unlock()
}

// Transform returns the current transform.
func (c *Canvas) Transform() Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Transform
}

// State returns the current drawing state.
func (c *Canvas) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsIdentity reports whether the current transform is the identity.
func (c *Canvas) IsIdentity() bool {
	return c.Transform().Near(Identity, 1e-9)
}

// Depth returns the number of unmatched Save calls.
func (c *Canvas) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

// TransformPoint maps a user-space point through the current transform.
func (c *Canvas) TransformPoint(x, y float64) (float64, float64) {
	return c.Transform().Apply(x, y)
}

// Verify interface implementation at compile time.
var _ ports.Canvas = (*Canvas)(nil)
