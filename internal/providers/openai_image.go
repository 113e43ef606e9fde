package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	GPTImageName         = "openai-gpt-image"
	gptImageDefaultModel = "gpt-image-1"
	gptImageDefaultSize  = "1536x1024"

	DallEName         = "openai-dall-e"
	dallEDefaultModel = "dall-e-3"
	dallEDefaultSize  = "1024x1024"
)

func newOpenAIClient(apiKey string, opts ImageOptions) openai.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(maxRetries),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	return openai.NewClient(clientOpts...)
}

// forceExtension adjusts the output path's extension when a configured
// output format demands one.
func forceExtension(outputPath, format string) string {
	if format == "" {
		return outputPath
	}
	want := "." + strings.ToLower(format)
	if strings.EqualFold(filepath.Ext(outputPath), want) {
		return outputPath
	}
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + want
}

// writeImage decodes base64 image data and writes it to path, creating
// parent directories.
func writeImage(b64 string, path string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("failed to decode image data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// GPTImageClient generates and edits images with OpenAI gpt-image models.
type GPTImageClient struct {
	client openai.Client
	model  string
	opts   ImageOptions
}

// NewGPTImageClient creates a gpt-image client.
func NewGPTImageClient(apiKey string, opts ImageOptions) *GPTImageClient {
	if opts.Model == "" {
		opts.Model = gptImageDefaultModel
	}
	return &GPTImageClient{
		client: newOpenAIClient(apiKey, opts),
		model:  opts.Model,
		opts:   opts,
	}
}

// Name returns the provider identifier.
func (c *GPTImageClient) Name() string {
	return GPTImageName
}

// SupportsEdit reports that gpt-image models can composite reference images.
func (c *GPTImageClient) SupportsEdit() bool {
	return true
}

// Generate renders an image from the prompt and saves it to outputPath.
func (c *GPTImageClient) Generate(ctx context.Context, prompt, outputPath, size string) (string, error) {
	if size == "" {
		size = gptImageDefaultSize
	}

	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(c.model),
		Size:   openai.ImageGenerateParamsSize(size),
	}
	if c.opts.Quality != "" {
		params.Quality = openai.ImageGenerateParamsQuality(c.opts.Quality)
	}
	if c.opts.OutputFormat != "" {
		params.OutputFormat = openai.ImageGenerateParamsOutputFormat(strings.ToLower(c.opts.OutputFormat))
		outputPath = forceExtension(outputPath, c.opts.OutputFormat)
	}
	if c.opts.OutputCompression >= 0 {
		params.OutputCompression = openai.Int(int64(c.opts.OutputCompression))
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return "", fmt.Errorf("gpt-image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("gpt-image generation returned no image data")
	}

	if err := writeImage(resp.Data[0].B64JSON, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Edit composites the reference images into a new scene guided by the prompt.
func (c *GPTImageClient) Edit(ctx context.Context, prompt string, inputImagePaths []string, outputPath string) (string, error) {
	if len(inputImagePaths) == 0 {
		return "", fmt.Errorf("edit requires at least one input image")
	}

	var files []io.Reader
	var closers []*os.File
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()
	for _, p := range inputImagePaths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("failed to open reference image %s: %w", p, err)
		}
		closers = append(closers, f)
		files = append(files, openai.File(f, filepath.Base(p), imageContentType(p)))
	}

	params := openai.ImageEditParams{
		Image:  openai.ImageEditParamsImageUnion{OfFileArray: files},
		Prompt: prompt,
		Model:  openai.ImageModel(c.model),
	}
	if c.opts.Quality != "" {
		params.Quality = openai.ImageEditParamsQuality(c.opts.Quality)
	}
	if c.opts.OutputFormat != "" {
		params.OutputFormat = openai.ImageEditParamsOutputFormat(strings.ToLower(c.opts.OutputFormat))
		outputPath = forceExtension(outputPath, c.opts.OutputFormat)
	}
	if c.opts.OutputCompression >= 0 {
		params.OutputCompression = openai.Int(int64(c.opts.OutputCompression))
	}

	resp, err := c.client.Images.Edit(ctx, params)
	if err != nil {
		return "", fmt.Errorf("gpt-image edit failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("gpt-image edit returned no image data")
	}

	if err := writeImage(resp.Data[0].B64JSON, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// DallEClient generates images with OpenAI DALL-E models. DALL-E has no
// image edit endpoint compatible with multi-reference compositing, so it
// advertises generate-only capability.
type DallEClient struct {
	client openai.Client
	model  string
	opts   ImageOptions
}

// NewDallEClient creates a DALL-E client.
func NewDallEClient(apiKey string, opts ImageOptions) *DallEClient {
	if opts.Model == "" {
		opts.Model = dallEDefaultModel
	}
	return &DallEClient{
		client: newOpenAIClient(apiKey, opts),
		model:  opts.Model,
		opts:   opts,
	}
}

// Name returns the provider identifier.
func (c *DallEClient) Name() string {
	return DallEName
}

// SupportsEdit reports that DALL-E cannot composite reference images.
func (c *DallEClient) SupportsEdit() bool {
	return false
}

// Generate renders an image from the prompt and saves it to outputPath.
func (c *DallEClient) Generate(ctx context.Context, prompt, outputPath, size string) (string, error) {
	if size == "" {
		size = dallEDefaultSize
	}

	params := openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	}
	if c.opts.Quality != "" {
		params.Quality = openai.ImageGenerateParamsQuality(c.opts.Quality)
	}
	if c.opts.Style != "" {
		params.Style = openai.ImageGenerateParamsStyle(c.opts.Style)
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return "", fmt.Errorf("dall-e generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("dall-e generation returned no image data")
	}

	if err := writeImage(resp.Data[0].B64JSON, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// Verify interfaces
var (
	_ ImageEditor    = (*GPTImageClient)(nil)
	_ ImageGenerator = (*DallEClient)(nil)
)
