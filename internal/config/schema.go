package config

// Config holds storybook configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Text   TextProviderCfg  `mapstructure:"text" yaml:"text"`
	Image  ImageProviderCfg `mapstructure:"image" yaml:"image"`
	Output OutputCfg        `mapstructure:"output" yaml:"output"`
}

// TextProviderCfg configures the story text backend.
type TextProviderCfg struct {
	Provider       string `mapstructure:"provider" yaml:"provider"`               // "gemini"
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`         // Transport retry attempts
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
}

// ImageProviderCfg configures the page illustration backend.
type ImageProviderCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // "openai"
	Model    string `mapstructure:"model" yaml:"model"`       // "gpt-image-1", "dall-e-3", ...
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)

	// Optional generation knobs. Unset values fall back to backend defaults.
	Quality           string `mapstructure:"quality" yaml:"quality"`                       // "low", "medium", "high" (gpt-image) or "standard", "hd" (dall-e)
	Style             string `mapstructure:"style" yaml:"style"`                           // dall-e only: "vivid" or "natural"
	Size              string `mapstructure:"size" yaml:"size"`                             // e.g. "1536x1024"
	OutputFormat      string `mapstructure:"output_format" yaml:"output_format"`           // "png", "jpeg", "webp"; forces file extension
	OutputCompression int    `mapstructure:"output_compression" yaml:"output_compression"` // 0-100 for lossy formats; -1 = unset

	MaxRetries     int `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputCfg controls where books are written.
type OutputCfg struct {
	// BaseDir overrides the default {home}/output location when set.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Text: TextProviderCfg{
			Provider:       "gemini",
			Model:          "gemini-2.5-pro-preview-03-25",
			APIKey:         "${GEMINI_API_KEY}",
			MaxRetries:     3,
			TimeoutSeconds: 300,
		},
		Image: ImageProviderCfg{
			Provider:          "openai",
			Model:             "gpt-image-1",
			APIKey:            "${OPENAI_API_KEY}",
			Size:              "1536x1024",
			OutputCompression: -1,
			MaxRetries:        3,
			TimeoutSeconds:    300,
		},
		Output: OutputCfg{},
	}
}
