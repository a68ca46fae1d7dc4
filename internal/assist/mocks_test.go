package assist

import (
	"context"
	"errors"
	"sync"

	"github.com/rashmika0907/zentask/internal/genai"
)

// ErrMockService is the error injected by the failing mock.
var ErrMockService = errors.New("mock AI service error")

// MockGenerator implements genai.Generator for testing.
type MockGenerator struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, req genai.Request) (*genai.Response, error)
	CallCount    int
	LastRequest  genai.Request
	Fail         bool

	// Release, when set, blocks Generate until closed. Used for
	// single-flight tests.
	Release chan struct{}
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
	return &genai.Response{Kind: genai.KindText, Text: "ok"}, nil
}
