// Package providers wraps the external generative backends: a text backend
// that writes story prose and an image backend that illustrates pages.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TextGenerator produces story prose from a prompt.
type TextGenerator interface {
	// Name returns the provider identifier.
	Name() string

	// Generate returns the generated prose or an error.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator renders an illustration from a text prompt alone.
// Implementations must be safe for concurrent use.
type ImageGenerator interface {
	// Name returns the provider identifier.
	Name() string

	// SupportsEdit reports whether the backend can composite reference
	// images into a scene. Callers must check this before asserting
	// ImageEditor.
	SupportsEdit() bool

	// Generate writes image bytes to outputPath (creating parent
	// directories) and returns the final path, which may differ from
	// outputPath when the configured output format forces an extension.
	Generate(ctx context.Context, prompt, outputPath, size string) (string, error)
}

// ImageEditor extends ImageGenerator with reference-image compositing.
// Only backends advertising edit capability implement it; generate-only
// backends omit the method entirely.
type ImageEditor interface {
	ImageGenerator

	// Edit composites the input reference images into a new scene guided
	// by the prompt, writing the result to outputPath.
	Edit(ctx context.Context, prompt string, inputImagePaths []string, outputPath string) (string, error)
}

// ImageOptions holds per-instance image backend settings. Unset values fall
// back to backend defaults.
type ImageOptions struct {
	Model             string
	Quality           string // output fidelity tier
	Style             string // stylistic hint (dall-e only)
	OutputFormat      string // file extension/encoding; forces the output extension
	OutputCompression int    // 0-100 for lossy formats; negative = unset
	MaxRetries        int
	Timeout           time.Duration

	// Test hooks
	BaseURL    string
	HTTPClient *http.Client
}

// NewImageGenerator creates an image backend for the given provider and
// model. Model prefixes select the implementation: gpt-image models support
// generate and edit, dall-e models generate only.
func NewImageGenerator(provider, apiKey string, opts ImageOptions) (ImageGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key for image provider %q", provider)
	}

	switch provider {
	case "openai":
		model := strings.ToLower(opts.Model)
		switch {
		case strings.HasPrefix(model, "gpt-image"):
			return NewGPTImageClient(apiKey, opts), nil
		case strings.HasPrefix(model, "dall-e"):
			return NewDallEClient(apiKey, opts), nil
		default:
			return nil, fmt.Errorf("unknown openai image model %q", opts.Model)
		}
	default:
		return nil, fmt.Errorf("unsupported image provider %q", provider)
	}
}
