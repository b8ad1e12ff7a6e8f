package domain

// FrequencyBuffer is a fixed-capacity sequence of per-bin magnitudes in [0,255].
//
// The length never changes after construction. The audio side overwrites the
// contents in place once per frame through Bytes; modules only read it through
// At, which makes indexing past the configured resolution return silence
// instead of panicking.
type FrequencyBuffer struct {
	bins []uint8
}

// NewFrequencyBuffer creates a buffer holding n bins. Negative sizes yield an
// empty buffer.
func NewFrequencyBuffer(n int) *FrequencyBuffer {
	if n < 0 {
		n = 0
	}
	return &FrequencyBuffer{bins: make([]uint8, n)}
}

// Len returns the number of bins.
func (b *FrequencyBuffer) Len() int {
	return len(b.bins)
}

// At returns the magnitude of bin i, or 0 when i is outside the buffer.
func (b *FrequencyBuffer) At(i int) uint8 {
	if i < 0 || i >= len(b.bins) {
		return 0
	}
	return b.bins[i]
}

// Bytes exposes the backing storage so an analyser can fill it in place.
// Callers other than the audio collaborator must treat it as read-only.
func (b *FrequencyBuffer) Bytes() []byte {
	return b.bins
}

// Mean returns the arithmetic mean of the first n bins. Bins past the end of
// the buffer count as silence, so the divisor is always n.
func (b *FrequencyBuffer) Mean(n int) float64 {
	if n <= 0 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		sum += int(b.At(i))
	}
	return float64(sum) / float64(n)
}
