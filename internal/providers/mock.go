package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockTextGenerator is a TextGenerator for testing.
type MockTextGenerator struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	ResponseText string

	// State
	requestCount atomic.Int64
}

// NewMockTextGenerator creates a mock text generator with sensible defaults.
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{
		ResponseText: "Once upon a time there was a mock story. It had a happy ending.",
	}
}

// Name returns the provider identifier.
func (m *MockTextGenerator) Name() string {
	return MockName
}

// RequestCount returns the number of Generate calls so far.
func (m *MockTextGenerator) RequestCount() int64 {
	return m.requestCount.Load()
}

// Generate returns the configured response or failure.
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.requestCount.Add(1)

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Latency):
		}
	}
	if m.ShouldFail {
		return "", fmt.Errorf("mock text generation failure")
	}
	return m.ResponseText, nil
}

// MockImageCall records one call to a mock image backend.
type MockImageCall struct {
	Prompt     string
	OutputPath string
	InputPaths []string // edit calls only
}

// MockImageGenerator is an ImageGenerator (and ImageEditor) for testing.
type MockImageGenerator struct {
	// Configurable behavior
	EditSupported bool
	Latency       time.Duration
	// FailOn returns an error for paths that should fail; nil means all
	// calls succeed.
	FailOn func(outputPath string) error

	// State
	mu            sync.Mutex
	generateCalls []MockImageCall
	editCalls     []MockImageCall
}

// NewMockImageGenerator creates a mock image generator. Edit capability is
// off by default; set EditSupported to model a gpt-image style backend.
func NewMockImageGenerator() *MockImageGenerator {
	return &MockImageGenerator{}
}

// Name returns the provider identifier.
func (m *MockImageGenerator) Name() string {
	return MockName
}

// SupportsEdit reports the configured capability.
func (m *MockImageGenerator) SupportsEdit() bool {
	return m.EditSupported
}

// GenerateCalls returns a copy of recorded generate calls.
func (m *MockImageGenerator) GenerateCalls() []MockImageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockImageCall, len(m.generateCalls))
	copy(out, m.generateCalls)
	return out
}

// EditCalls returns a copy of recorded edit calls.
func (m *MockImageGenerator) EditCalls() []MockImageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockImageCall, len(m.editCalls))
	copy(out, m.editCalls)
	return out
}

// Generate writes a stub image file and records the call.
func (m *MockImageGenerator) Generate(ctx context.Context, prompt, outputPath, size string) (string, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, MockImageCall{Prompt: prompt, OutputPath: outputPath})
	m.mu.Unlock()

	return m.render(ctx, outputPath)
}

// Edit writes a stub image file and records the call with its inputs.
func (m *MockImageGenerator) Edit(ctx context.Context, prompt string, inputImagePaths []string, outputPath string) (string, error) {
	m.mu.Lock()
	m.editCalls = append(m.editCalls, MockImageCall{Prompt: prompt, OutputPath: outputPath, InputPaths: inputImagePaths})
	m.mu.Unlock()

	return m.render(ctx, outputPath)
}

func (m *MockImageGenerator) render(ctx context.Context, outputPath string) (string, error) {
	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Latency):
		}
	}
	if m.FailOn != nil {
		if err := m.FailOn(outputPath); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, []byte("mock image bytes"), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Verify interfaces
var (
	_ TextGenerator = (*MockTextGenerator)(nil)
	_ ImageEditor   = (*MockImageGenerator)(nil)
)
