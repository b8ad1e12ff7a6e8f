package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// Decoders convert every format to interleaved signed 16-bit little-endian PCM.
const bytesPerSample = 2

// decoder is implemented by all format-specific decoders.
type decoder interface {
	io.Reader
	SampleRate() int
	Channels() int
	// Length returns the decoded size in bytes, or 0 when unknown.
	Length() int64
	Format() string
}

// SupportedExtensions lists the file extensions the player can decode.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupported reports whether the file extension of path can be decoded.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (decoder, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
}

// pending holds converted bytes that did not fit the caller's buffer.
type pending struct {
	buf []byte
}

// drain copies buffered bytes into p and reports how many were copied.
func (q *pending) drain(p []byte) int {
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n
}

// fill copies raw into p, keeping the remainder for the next Read.
func (q *pending) fill(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		q.buf = raw[n:]
	}
	return n
}

func putSample(dst []byte, v int) {
	binary.LittleEndian.PutUint16(dst, uint16(int16(max(min(v, 32767), -32768))))
}

// --- MP3 ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) Channels() int              { return 2 }
func (d *mp3Decoder) Length() int64              { return max(d.dec.Length(), 0) }
func (d *mp3Decoder) Format() string             { return "mp3" }

// --- WAV ---

type wavDecoder struct {
	r          io.Reader
	q          pending
	sampleRate int
	channels   int
	bitDepth   int
	length     int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", domain.ErrUnsupportedFormat)
	}
	// FwdToPCM leaves f positioned at the first PCM byte.
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", domain.ErrUnsupportedFormat, bitDepth)
	}

	srcSampleSize := int64(bitDepth / 8)
	return &wavDecoder{
		r:          io.LimitReader(f, dec.PCMLen()),
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   bitDepth,
		length:     dec.PCMLen() / srcSampleSize * bytesPerSample,
	}, nil
}

// wavSample converts one little-endian WAV sample to 16 bits.
func wavSample(src []byte, bitDepth int) int {
	switch bitDepth {
	case 8:
		return (int(src[0]) - 128) << 8 // 8-bit WAV is unsigned
	case 16:
		return int(int16(binary.LittleEndian.Uint16(src)))
	case 24:
		s := int32(src[0]) | int32(src[1])<<8 | int32(src[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xFFFFFF
		}
		return int(s >> 8)
	default:
		return int(int32(binary.LittleEndian.Uint32(src)) >> 16)
	}
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.q.buf) > 0 {
		return d.q.drain(p), nil
	}

	srcSize := d.bitDepth / 8
	src := make([]byte, max(len(p)/bytesPerSample, 1)*srcSize)
	n, err := io.ReadFull(d.r, src)
	samples := n / srcSize
	if samples == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*bytesPerSample)
	for i := 0; i < samples; i++ {
		putSample(raw[i*bytesPerSample:], wavSample(src[i*srcSize:], d.bitDepth))
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return d.q.fill(p, raw), err
}

func (d *wavDecoder) SampleRate() int { return d.sampleRate }
func (d *wavDecoder) Channels() int   { return d.channels }
func (d *wavDecoder) Length() int64   { return d.length }
func (d *wavDecoder) Format() string  { return "wav" }

// --- FLAC ---

type flacDecoder struct {
	stream     *flac.Stream
	q          pending
	sampleRate int
	channels   int
	bps        int
	length     int64
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
		length:     int64(info.NSamples) * int64(channels) * bytesPerSample,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.q.buf) > 0 {
		return d.q.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*bytesPerSample)
	for i := 0; i < n; i++ {
		for ch := 0; ch < d.channels; ch++ {
			s := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				s >>= d.bps - 16
			} else {
				s <<= 16 - d.bps
			}
			putSample(raw[(i*d.channels+ch)*bytesPerSample:], s)
		}
	}
	return d.q.fill(p, raw), nil
}

func (d *flacDecoder) SampleRate() int { return d.sampleRate }
func (d *flacDecoder) Channels() int   { return d.channels }
func (d *flacDecoder) Length() int64   { return d.length }
func (d *flacDecoder) Format() string  { return "flac" }

// --- OGG Vorbis ---

type oggDecoder struct {
	reader *oggvorbis.Reader
	q      pending
	length int64
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		reader: reader,
		length: max(reader.Length(), 0) * int64(reader.Channels()) * bytesPerSample,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.q.buf) > 0 {
		return d.q.drain(p), nil
	}

	samples := make([]float32, max(len(p)/bytesPerSample, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*bytesPerSample)
	for i, s := range samples[:n] {
		putSample(raw[i*bytesPerSample:], int(max(min(s, 1), -1)*32767))
	}
	return d.q.fill(p, raw), err
}

func (d *oggDecoder) SampleRate() int { return d.reader.SampleRate() }
func (d *oggDecoder) Channels() int   { return d.reader.Channels() }
func (d *oggDecoder) Length() int64   { return d.length }
func (d *oggDecoder) Format() string  { return "ogg" }

// --- channel layout ---

// stereo duplicates every mono sample so the output always has two channels.
type stereo struct {
	decoder
	q pending
}

// toStereo adapts dec to the two-channel output. Layouts with more than two
// channels are rejected.
func toStereo(dec decoder) (decoder, error) {
	switch dec.Channels() {
	case 2:
		return dec, nil
	case 1:
		return &stereo{decoder: dec}, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", domain.ErrUnsupportedFormat, dec.Channels())
	}
}

func (s *stereo) Read(p []byte) (int, error) {
	if len(s.q.buf) > 0 {
		return s.q.drain(p), nil
	}

	mono := make([]byte, max(len(p)/2/bytesPerSample, 1)*bytesPerSample)
	n, err := s.decoder.Read(mono)
	n -= n % bytesPerSample

	raw := make([]byte, n*2)
	for i := 0; i < n; i += bytesPerSample {
		copy(raw[2*i:], mono[i:i+bytesPerSample])
		copy(raw[2*i+bytesPerSample:], mono[i:i+bytesPerSample])
	}
	return s.q.fill(p, raw), err
}

func (s *stereo) Channels() int { return 2 }
func (s *stereo) Length() int64 { return s.decoder.Length() * 2 }
