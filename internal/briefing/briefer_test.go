package briefing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rashmika0907/zentask/internal/genai"
	"github.com/rashmika0907/zentask/internal/model"
)

var ErrMockService = errors.New("mock AI service error")

// MockGenerator implements genai.Generator for testing.
type MockGenerator struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, req genai.Request) (*genai.Response, error)
	CallCount    int
	LastRequest  genai.Request
	Fail         bool
	Release      chan struct{}
}

func (m *MockGenerator) Generate(ctx context.Context, req genai.Request) (*genai.Response, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastRequest = req
	release := m.Release
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	if m.Fail {
		return nil, ErrMockService
	}
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &genai.Response{Kind: genai.KindAudio, Audio: []byte{0x00, 0x40, 0x00, 0xc0}}, nil
}

// MockSink records playback for testing.
type MockSink struct {
	Samples    []float32
	SampleRate int
	Fail       bool
	PlayCount  int
}

func (s *MockSink) Play(samples []float32, sampleRate int) error {
	s.PlayCount++
	if s.Fail {
		return errors.New("mock playback error")
	}
	s.Samples = samples
	s.SampleRate = sampleRate
	return nil
}

func TestBriefer_Generate(t *testing.T) {
	ctx := context.Background()
	tasks := []model.Task{
		{Title: "A", Status: model.StatusTodo, Priority: model.PriorityHigh},
	}

	t.Run("Given an audio response When Generate Then samples are decoded and played", func(t *testing.T) {
		gen := &MockGenerator{}
		sink := &MockSink{}
		b := NewBriefer(gen, sink, Options{Model: "tts", Voice: "Kore", SampleRate: 24000})

		samples, err := b.Generate(ctx, tasks)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		// Mock returns 4 PCM bytes = 2 samples: 16384 and -16384
		if len(samples) != 2 || samples[0] != 0.5 || samples[1] != -0.5 {
			t.Errorf("unexpected samples: %v", samples)
		}
		if sink.PlayCount != 1 || sink.SampleRate != 24000 {
			t.Errorf("expected one playback at 24000, got count=%d rate=%d", sink.PlayCount, sink.SampleRate)
		}
		if gen.LastRequest.Modality != genai.ModalityAudio {
			t.Error("expected an audio-modality request")
		}
	})

	t.Run("Given a service failure When Generate Then ErrNoBriefing and a single attempt", func(t *testing.T) {
		gen := &MockGenerator{Fail: true}
		sink := &MockSink{}
		b := NewBriefer(gen, sink, Options{Model: "tts"})

		_, err := b.Generate(ctx, tasks)
		if !errors.Is(err, ErrNoBriefing) {
			t.Errorf("expected ErrNoBriefing, got %v", err)
		}
		if gen.CallCount != 1 {
			t.Errorf("expected exactly 1 attempt, got %d", gen.CallCount)
		}
		if sink.PlayCount != 0 {
			t.Error("expected no playback on failure")
		}
	})

	t.Run("Given a playback failure When Generate Then ErrNoBriefing", func(t *testing.T) {
		gen := &MockGenerator{}
		sink := &MockSink{Fail: true}
		b := NewBriefer(gen, sink, Options{Model: "tts"})

		_, err := b.Generate(ctx, tasks)
		if !errors.Is(err, ErrNoBriefing) {
			t.Errorf("expected ErrNoBriefing, got %v", err)
		}
	})

	t.Run("Given a briefing in flight When Generate again Then ErrBusy", func(t *testing.T) {
		release := make(chan struct{})
		gen := &MockGenerator{Release: release}
		b := NewBriefer(gen, &MockSink{}, Options{Model: "tts"})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Generate(context.Background(), tasks)
		}()
		for {
			gen.mu.Lock()
			started := gen.CallCount > 0
			gen.mu.Unlock()
			if started {
				break
			}
			time.Sleep(time.Millisecond)
		}

		_, err := b.Generate(context.Background(), tasks)
		if !errors.Is(err, ErrBusy) {
			t.Errorf("expected ErrBusy, got %v", err)
		}

		close(release)
		wg.Wait()
	})
}

func TestWAVSink_Play(t *testing.T) {
	t.Run("Given samples When Play Then a WAV file appears in the directory", func(t *testing.T) {
		dir := t.TempDir()
		sink := &WAVSink{Dir: filepath.Join(dir, "briefings")}

		if err := sink.Play([]float32{0, 0.5, -0.5}, 24000); err != nil {
			t.Fatalf("Play failed: %v", err)
		}

		entries, err := os.ReadDir(filepath.Join(dir, "briefings"))
		if err != nil {
			t.Fatalf("failed to read sink directory: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 briefing file, got %d", len(entries))
		}

		data, err := os.ReadFile(filepath.Join(dir, "briefings", entries[0].Name()))
		if err != nil {
			t.Fatalf("failed to read briefing file: %v", err)
		}
		if len(data) != 44+6 {
			t.Errorf("expected 50-byte WAV for 3 samples, got %d", len(data))
		}
	})
}
