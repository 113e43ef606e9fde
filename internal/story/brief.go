package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidBrief is returned when a story brief fails validation.
var ErrInvalidBrief = errors.New("invalid story brief")

const (
	// MinPages and MaxPages bound the requested book length.
	MinPages = 4
	MaxPages = 20

	// DefaultPages is used when the brief omits story_length_pages.
	DefaultPages = 8
)

// Character describes one recurring character in the story.
// Immutable once loaded; read-only for all downstream components.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// ImagePath optionally points at a reference image used to keep the
	// character visually consistent across pages.
	ImagePath string `json:"image_path,omitempty"`
}

// Location describes the story's setting.
type Location struct {
	Setting string   `json:"setting"`
	Details []string `json:"details,omitempty"`
}

// Brief is the structured story request: who, where, what, and how long.
type Brief struct {
	Characters       []Character `json:"characters"`
	Theme            string      `json:"theme"`
	AgeRange         string      `json:"age_range"`
	Location         Location    `json:"location"`
	StoryLengthPages int         `json:"story_length_pages"`
	ImageStyle       string      `json:"image_style"`
}

// Validate checks the brief's invariants. It is called on every load path so
// an invalid brief rejects the run before any backend call is made.
func (b *Brief) Validate() error {
	if len(b.Characters) == 0 {
		return fmt.Errorf("%w: at least one character is required", ErrInvalidBrief)
	}
	for i, c := range b.Characters {
		if c.Name == "" {
			return fmt.Errorf("%w: character %d has no name", ErrInvalidBrief, i)
		}
	}
	if b.Theme == "" {
		return fmt.Errorf("%w: theme is required", ErrInvalidBrief)
	}
	if b.AgeRange == "" {
		return fmt.Errorf("%w: age_range is required", ErrInvalidBrief)
	}
	if b.Location.Setting == "" {
		return fmt.Errorf("%w: location.setting is required", ErrInvalidBrief)
	}
	if b.ImageStyle == "" {
		return fmt.Errorf("%w: image_style is required", ErrInvalidBrief)
	}
	if b.StoryLengthPages < MinPages || b.StoryLengthPages > MaxPages {
		return fmt.Errorf("%w: story_length_pages must be between %d and %d, got %d",
			ErrInvalidBrief, MinPages, MaxPages, b.StoryLengthPages)
	}
	return nil
}

// LoadBrief reads and validates a story brief from a JSON file.
func LoadBrief(path string) (*Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story brief: %w", err)
	}
	return ParseBrief(data)
}

// ParseBrief decodes and validates a story brief from JSON bytes.
// The document is checked against the brief JSON schema before decoding so
// structural errors are reported with schema paths.
func ParseBrief(data []byte) (*Brief, error) {
	if err := validateBriefSchema(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBrief, err)
	}

	var b Brief
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBrief, err)
	}
	if b.StoryLengthPages == 0 {
		b.StoryLengthPages = DefaultPages
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
