// Package briefing produces and plays the spoken summary of active tasks.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rashmika0907/zentask/internal/genai"
	"github.com/rashmika0907/zentask/internal/model"
)

var (
	// ErrNoBriefing is the generic failure the caller surfaces; the
	// underlying cause is logged, not returned. Never retried.
	ErrNoBriefing = errors.New("could not generate briefing")

	// ErrBusy is returned while a briefing request is already in flight.
	ErrBusy = errors.New("a briefing is already in flight")
)

// Sink plays decoded audio samples at the declared sample rate.
// Implementations: WAVSink
type Sink interface {
	Play(samples []float32, sampleRate int) error
}

// Options configures a Briefer.
type Options struct {
	Model      string
	Voice      string
	SampleRate int
}

// Briefer runs the briefing workflow: narration, TTS round trip, PCM
// decode, playback.
type Briefer struct {
	gen  genai.Generator
	sink Sink
	opts Options

	busy atomic.Bool
}

// NewBriefer creates a briefing workflow over gen and sink.
func NewBriefer(gen genai.Generator, sink Sink, opts Options) *Briefer {
	if opts.SampleRate == 0 {
		opts.SampleRate = 24000
	}
	return &Briefer{gen: gen, sink: sink, opts: opts}
}

// SampleRate returns the PCM sample rate briefings are synthesized at.
func (b *Briefer) SampleRate() int {
	return b.opts.SampleRate
}

// Generate builds the narration for tasks, requests synthesized speech,
// decodes the payload, and plays it through the sink. It returns the
// decoded samples so callers can also stream them.
func (b *Briefer) Generate(ctx context.Context, tasks []model.Task) ([]float32, error) {
	if !b.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer b.busy.Store(false)

	narration, active := Narration(tasks)
	log.Printf("Generating briefing for %d active tasks", active)

	resp, err := b.gen.Generate(ctx, genai.Request{
		Model:    b.opts.Model,
		Prompt:   prompt(narration),
		Modality: genai.ModalityAudio,
		Speech:   &genai.SpeechConfig{Voice: b.opts.Voice},
	})
	if err != nil {
		log.Printf("Warning: briefing request failed: %v", err)
		return nil, ErrNoBriefing
	}
	if resp.Kind != genai.KindAudio || len(resp.Audio) == 0 {
		log.Printf("Warning: briefing response carried no audio payload")
		return nil, ErrNoBriefing
	}

	samples := DecodePCM16(resp.Audio)
	if b.sink != nil {
		if err := b.sink.Play(samples, b.opts.SampleRate); err != nil {
			log.Printf("Warning: briefing playback failed: %v", err)
			return nil, ErrNoBriefing
		}
	}
	return samples, nil
}

// WAVSink writes each briefing to a timestamped WAV file in a directory.
type WAVSink struct {
	Dir string
}

// Play renders the samples as a WAV file under the sink directory.
func (s *WAVSink) Play(samples []float32, sampleRate int) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create briefing directory: %w", err)
	}
	name := fmt.Sprintf("briefing-%s.wav", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, EncodeWAV(samples, sampleRate), 0644); err != nil {
		return fmt.Errorf("failed to write briefing file: %w", err)
	}
	return nil
}
