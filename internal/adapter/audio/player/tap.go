package player

import (
	"io"
	"sync"
)

// pcmWriter receives the PCM the output consumes.
type pcmWriter interface {
	WritePCM16(data []byte, channels int)
}

// tap forwards every byte the output reads to the analyser, keeping partial
// frames until the rest arrives.
type tap struct {
	r        io.Reader
	w        pcmWriter
	channels int

	mu    sync.Mutex
	carry []byte
	read  int64
	eof   bool
}

func newTap(r io.Reader, w pcmWriter, channels int) *tap {
	return &tap{r: r, w: w, channels: channels}
}

func (t *tap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.read += int64(n)
	if err == io.EOF {
		t.eof = true
	}
	if n == 0 || t.w == nil {
		return n, err
	}

	data := p[:n]
	if len(t.carry) > 0 {
		data = append(t.carry, data...)
	}
	frame := t.channels * bytesPerSample
	whole := len(data) - len(data)%frame
	t.w.WritePCM16(data[:whole], t.channels)
	t.carry = append(t.carry[:0:0], data[whole:]...)
	return n, err
}

// EOF reports whether the decoder has been drained.
func (t *tap) EOF() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.eof
}

// BytesRead returns the number of PCM bytes handed to the output so far.
func (t *tap) BytesRead() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read
}
