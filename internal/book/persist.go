package book

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drewdresser/storybook-creator/internal/story"
)

const (
	storyFileName    = "story.txt"
	manifestFileName = "pages_manifest.json"
)

// ManifestEntry is one page record in pages_manifest.json. ImageFilename is
// the base filename only, never a full path, so the manifest stays portable;
// it is null exactly when the page has no image.
type ManifestEntry struct {
	Page          int     `json:"page"`
	Text          string  `json:"text"`
	ImagePrompt   string  `json:"image_prompt"`
	ImageFilename *string `json:"image_filename"`
}

// PersistMetadata writes story.txt and pages_manifest.json to the book's
// output directory. Failures here do not roll back page images already on
// disk; the caller logs and continues.
func PersistMetadata(b *story.Book) error {
	if err := writeStoryFile(b); err != nil {
		return err
	}
	if err := writeManifest(b); err != nil {
		return err
	}
	return nil
}

// writeStoryFile writes the title header, the serialized brief, and the full
// story text, in that fixed order.
func writeStoryFile(b *story.Book) error {
	briefJSON, err := json.MarshalIndent(b.Brief, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize story brief: %w", err)
	}

	content := fmt.Sprintf("Title: %s\n\n--- Story Config ---\n%s\n\n--- Full Story Text ---\n%s",
		b.Title, briefJSON, b.FullStory)

	path := filepath.Join(b.OutputDir, storyFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", storyFileName, err)
	}
	return nil
}

// writeManifest writes the ordered page manifest.
func writeManifest(b *story.Book) error {
	entries := make([]ManifestEntry, len(b.Pages))
	for i, p := range b.Pages {
		entry := ManifestEntry{
			Page:        p.PageNumber,
			Text:        p.Text,
			ImagePrompt: p.ImagePrompt,
		}
		if p.ImagePath != "" {
			name := filepath.Base(p.ImagePath)
			entry.ImageFilename = &name
		}
		entries[i] = entry
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize page manifest: %w", err)
	}

	path := filepath.Join(b.OutputDir, manifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestFileName, err)
	}
	return nil
}

// LoadManifest reads a pages_manifest.json back into entries.
func LoadManifest(dir string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestFileName, err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestFileName, err)
	}
	return entries, nil
}
