// Package bell plays the short alert tone for rejected input.
//
// PortAudio drives the output:
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio
package bell

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/window"
	"go.uber.org/zap"
)

const (
	sampleRate = 44100
	toneHz     = 440
	toneSecs   = 0.08
	toneGain   = 0.6
)

// Device rings on demand. Close releases the audio stream.
type Device interface {
	Ring()
	Close() error
}

// New opens the default output device. When no audio is available the
// returned device is silent and the editor keeps working.
func New(logger *zap.Logger) Device {
	dev, err := newSpeaker(logger)
	if err != nil {
		logger.Warn("audio unavailable, bell disabled", zap.Error(err))
		return &nullDevice{logger: logger}
	}
	return dev
}

// speaker holds an open output stream that normally plays silence.
// Ring rewinds the tone; the callback plays it out and returns to
// silence.
type speaker struct {
	stream *portaudio.Stream
	tone   []float32
	pos    atomic.Int64
	logger *zap.Logger
}

func newSpeaker(logger *zap.Logger) (*speaker, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	s := &speaker{
		tone:   synthTone(sampleRate),
		logger: logger,
	}
	s.pos.Store(int64(len(s.tone)))

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	params := portaudio.HighLatencyParameters(nil, host.DefaultOutputDevice)
	params.Output.Channels = 1
	params.SampleRate = sampleRate

	stream, err := portaudio.OpenStream(params, s.playCallback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	s.stream = stream
	logger.Debug("bell ready")
	return s, nil
}

// playCallback runs on the audio thread. It must not block.
func (s *speaker) playCallback(out []float32) {
	p := s.pos.Load()
	for i := range out {
		if p < int64(len(s.tone)) {
			out[i] = s.tone[p]
			p++
		} else {
			out[i] = 0
		}
	}
	s.pos.Store(p)
}

// Ring rewinds the tone. Ringing while a ring plays restarts it.
func (s *speaker) Ring() {
	s.pos.Store(0)
}

// Close stops the stream and tears PortAudio down.
func (s *speaker) Close() error {
	if err := s.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	return portaudio.Terminate()
}

// synthTone builds the bell sample: a sine burst under a Hamming
// envelope so it starts and ends without clicks.
func synthTone(rate int) []float32 {
	n := int(float64(rate) * toneSecs)
	env := window.Hamming(n)
	tone := make([]float32, n)
	for i := range tone {
		phase := 2 * math.Pi * toneHz * float64(i) / float64(rate)
		tone[i] = float32(toneGain * env[i] * math.Sin(phase))
	}
	return tone
}

// nullDevice swallows rings, complaining once.
type nullDevice struct {
	logger *zap.Logger
	once   sync.Once
}

func (d *nullDevice) Ring() {
	d.once.Do(func() {
		d.logger.Warn("bell rung but audio is disabled")
	})
}

func (d *nullDevice) Close() error { return nil }
