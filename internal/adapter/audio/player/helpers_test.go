package player

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writeWAV writes a 16-bit PCM WAV file and returns its path.
func writeWAV(t *testing.T, name string, rate, channels int, samples []int16) string {
	t.Helper()

	le := binary.LittleEndian
	dataLen := uint32(len(samples) * 2)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, le, uint32(16))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(channels))
	_ = binary.Write(&buf, le, uint32(rate))
	_ = binary.Write(&buf, le, uint32(rate*channels*2))
	_ = binary.Write(&buf, le, uint16(channels*2))
	_ = binary.Write(&buf, le, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, le, dataLen)
	_ = binary.Write(&buf, le, samples)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// fakeSink drains its reader while playing, the way a sound card would.
type fakeSink struct {
	r io.Reader

	mu      sync.Mutex
	playing bool

	closed chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newFakeSink(_ int, r io.Reader) (sink, error) {
	s := &fakeSink{r: r, closed: make(chan struct{}), exited: make(chan struct{})}
	go s.loop()
	return s, nil
}

func (s *fakeSink) loop() {
	defer close(s.exited)

	buf := make([]byte, 256)
	for {
		select {
		case <-s.closed:
			return
		default:
		}

		if !s.IsPlaying() {
			time.Sleep(time.Millisecond)
			continue
		}
		if _, err := s.r.Read(buf); err != nil {
			s.mu.Lock()
			s.playing = false
			s.mu.Unlock()
			<-s.closed
			return
		}
	}
}

func (s *fakeSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
}

func (s *fakeSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

func (s *fakeSink) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *fakeSink) Close() error {
	s.once.Do(func() { close(s.closed) })
	<-s.exited
	return nil
}

// recorder collects what a tap forwards.
type recorder struct {
	mu     sync.Mutex
	writes [][]byte
}

func (r *recorder) WritePCM16(data []byte, channels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, append([]byte(nil), data...))
}

func (r *recorder) bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []byte
	for _, w := range r.writes {
		out = append(out, w...)
	}
	return out
}
