// Package player implements ports.AudioSource on top of oto. Decoded PCM is
// written to the sound card and, through a tap, to a SpectrumAnalyser.
package player

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tejashwikalptaru/govis/internal/adapter/audio/analyser"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

const (
	// DefaultSampleRate is the rate assumed when no track supplies one.
	DefaultSampleRate = 44100

	outputChannels      = 2
	defaultPollInterval = 50 * time.Millisecond
)

// Options configures a Player.
type Options struct {
	// SampleRate fixes the output device rate. Zero lets the first loaded
	// track choose it. Once the rate is set, tracks at another rate are
	// rejected with domain.ErrSampleRateMismatch.
	SampleRate int

	// PollInterval is how often end of track is checked.
	PollInterval time.Duration
}

// sink is the audio output a Player writes decoded PCM to. *oto.Player
// satisfies it.
type sink interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

type sinkFactory func(sampleRate int, r io.Reader) (sink, error)

var (
	otoCtx     *oto.Context
	otoRate    int
	otoOnce    sync.Once
	otoInitErr error
)

// initOto creates the process-wide oto context. oto allows one context per
// process, so the first rate requested wins.
func initOto(sampleRate int) (*oto.Context, int, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	return otoCtx, otoRate, otoInitErr
}

func newOtoSink(sampleRate int, r io.Reader) (sink, error) {
	ctx, rate, err := initOto(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	if rate != sampleRate {
		return nil, fmt.Errorf("%w: device runs at %d Hz", domain.ErrSampleRateMismatch, rate)
	}
	return ctx.NewPlayer(r), nil
}

// session is one loaded track.
type session struct {
	track  domain.Track
	stream *Stream
	tap    *tap
	out    sink
	done   chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup
}

func (s *session) close() error {
	close(s.stop)
	s.wg.Wait()
	s.out.Pause()
	err := s.out.Close()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	return err
}

// Player plays audio files through oto and feeds an analyser.
type Player struct {
	logger       *slog.Logger
	analyser     *analyser.Analyser
	pollInterval time.Duration
	newSink      sinkFactory

	// ops serializes Load, Stop and Close.
	ops sync.Mutex
	// sampleRate is the output rate, zero until the first sink opens. Guarded by ops.
	sampleRate int

	mu     sync.Mutex
	cur    *session
	status domain.PlaybackStatus
	idle   chan struct{}
	closed bool
}

var _ ports.AudioSource = (*Player)(nil)

// New creates a Player feeding a.
func New(logger *slog.Logger, a *analyser.Analyser, opts Options) *Player {
	if opts.SampleRate < 0 {
		opts.SampleRate = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Player{
		logger:       logger.With(slog.String("component", "player")),
		analyser:     a,
		sampleRate:   opts.SampleRate,
		pollInterval: opts.PollInterval,
		newSink:      newOtoSink,
		idle:         make(chan struct{}),
	}
}

// Load opens filePath, replacing any loaded track.
func (p *Player) Load(filePath string) (domain.Track, error) {
	if filePath == "" {
		return domain.Track{}, domain.ErrInvalidFilePath
	}

	p.ops.Lock()
	defer p.ops.Unlock()

	if p.isClosed() {
		return domain.Track{}, domain.ErrNotInitialized
	}
	p.release()

	s, err := p.open(filePath)
	if err != nil {
		p.logger.Error("failed to load track", slog.String("path", filePath), slog.Any("error", err))
		return domain.Track{}, err
	}

	p.mu.Lock()
	p.cur = s
	p.status = domain.StatusStopped
	p.mu.Unlock()

	s.wg.Add(1)
	go p.monitor(s)

	p.logger.Info("track loaded",
		slog.String("path", filePath),
		slog.String("format", s.track.Format),
		slog.Int("sample_rate", s.track.SampleRate),
		slog.Duration("duration", s.track.Duration))
	return s.track, nil
}

func (p *Player) open(filePath string) (*session, error) {
	stream, err := OpenStream(filePath)
	if err != nil {
		return nil, err
	}

	track := stream.Track
	if p.sampleRate != 0 && track.SampleRate != p.sampleRate {
		_ = stream.Close()
		return nil, domain.NewAudioSourceError("load", filePath,
			fmt.Sprintf("track is %d Hz, output is %d Hz", track.SampleRate, p.sampleRate),
			domain.ErrSampleRateMismatch)
	}

	var w pcmWriter
	if p.analyser != nil {
		w = p.analyser
	}
	t := newTap(stream, w, outputChannels)
	out, err := p.newSink(track.SampleRate, t)
	if err != nil {
		_ = stream.Close()
		return nil, domain.NewAudioSourceError("load", filePath, "cannot open output", err)
	}
	if p.sampleRate == 0 {
		p.logger.Info("output rate selected", slog.Int("sample_rate", track.SampleRate))
		p.sampleRate = track.SampleRate
	}

	return &session{
		track:  track,
		stream: stream,
		tap:    t,
		out:    out,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}, nil
}

// monitor closes the session's done channel once the decoder is drained
// and the output has played what it buffered.
func (p *Player) monitor(s *session) {
	defer s.wg.Done()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		if !s.tap.EOF() || s.out.IsPlaying() {
			continue
		}

		p.mu.Lock()
		finished := p.cur == s && p.status == domain.StatusPlaying
		if finished {
			p.status = domain.StatusStopped
		}
		p.mu.Unlock()

		if finished {
			p.logger.Debug("track finished", slog.String("path", s.track.FilePath))
			close(s.done)
			return
		}
	}
}

// Play starts or resumes the loaded track.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.ErrNotInitialized
	}
	if p.cur == nil {
		return domain.ErrNoTrackLoaded
	}
	if p.status == domain.StatusPlaying {
		return nil
	}
	select {
	case <-p.cur.done:
		return domain.NewAudioSourceError("play", p.cur.track.FilePath, "track already finished", nil)
	default:
	}
	p.cur.out.Play()
	p.status = domain.StatusPlaying
	return nil
}

// Pause pauses the loaded track.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur == nil {
		return domain.ErrNoTrackLoaded
	}
	if p.status != domain.StatusPlaying {
		return nil
	}
	p.cur.out.Pause()
	p.status = domain.StatusPaused
	return nil
}

// Stop stops playback and releases the loaded track.
func (p *Player) Stop() error {
	p.ops.Lock()
	defer p.ops.Unlock()
	return p.release()
}

// release closes the current session. The caller holds p.ops.
func (p *Player) release() error {
	p.mu.Lock()
	s := p.cur
	p.cur = nil
	p.status = domain.StatusStopped
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	if p.analyser != nil {
		p.analyser.Reset()
	}
	if err := s.close(); err != nil {
		p.logger.Warn("failed to release track", slog.String("path", s.track.FilePath), slog.Any("error", err))
		return err
	}
	return nil
}

// Status returns the playback status.
func (p *Player) Status() domain.PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Done returns a channel closed when the loaded track ends. With nothing
// loaded the channel never closes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur == nil {
		return p.idle
	}
	return p.cur.done
}

// Analyser returns the analyser fed by the player.
func (p *Player) Analyser() ports.SpectrumAnalyser {
	if p.analyser == nil {
		return nil
	}
	return p.analyser
}

// Close releases the loaded track. The player cannot be used afterwards.
func (p *Player) Close() error {
	p.ops.Lock()
	defer p.ops.Unlock()

	if p.isClosed() {
		return nil
	}
	err := p.release()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.logger.Debug("player closed")
	return err
}

func (p *Player) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
