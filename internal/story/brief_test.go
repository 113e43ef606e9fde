package story

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

const validBriefJSON = `{
  "characters": [
    {"name": "Luna", "description": "a curious grey cat"},
    {"name": "Max", "description": "a loyal golden retriever", "image_path": "refs/max.png"}
  ],
  "theme": "friendship and courage",
  "age_range": "4-6",
  "location": {"setting": "a sunny meadow", "details": ["a winding creek", "an old oak tree"]},
  "story_length_pages": 6,
  "image_style": "soft watercolor"
}`

func TestParseBrief(t *testing.T) {
	t.Run("valid brief", func(t *testing.T) {
		b, err := ParseBrief([]byte(validBriefJSON))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(b.Characters) != 2 {
			t.Errorf("expected 2 characters, got %d", len(b.Characters))
		}
		if b.Characters[0].Name != "Luna" {
			t.Errorf("expected first character Luna, got %s", b.Characters[0].Name)
		}
		if b.StoryLengthPages != 6 {
			t.Errorf("expected 6 pages, got %d", b.StoryLengthPages)
		}
		if b.Location.Setting != "a sunny meadow" {
			t.Errorf("unexpected setting: %s", b.Location.Setting)
		}
	})

	t.Run("defaults page count", func(t *testing.T) {
		b, err := ParseBrief([]byte(`{
			"characters": [{"name": "Luna", "description": "a cat"}],
			"theme": "kindness",
			"age_range": "4-6",
			"location": {"setting": "a meadow"},
			"image_style": "watercolor"
		}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.StoryLengthPages != DefaultPages {
			t.Errorf("expected default %d pages, got %d", DefaultPages, b.StoryLengthPages)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		if _, err := ParseBrief([]byte("{not json")); !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})

	t.Run("rejects missing characters", func(t *testing.T) {
		_, err := ParseBrief([]byte(`{
			"characters": [],
			"theme": "kindness",
			"age_range": "4-6",
			"location": {"setting": "a meadow"},
			"image_style": "watercolor"
		}`))
		if !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})

	t.Run("rejects out-of-range page count", func(t *testing.T) {
		for _, pages := range []int{1, 3, 21, 100} {
			_, err := ParseBrief([]byte(`{
				"characters": [{"name": "Luna", "description": "a cat"}],
				"theme": "kindness",
				"age_range": "4-6",
				"location": {"setting": "a meadow"},
				"story_length_pages": ` + strconv.Itoa(pages) + `,
				"image_style": "watercolor"
			}`))
			if !errors.Is(err, ErrInvalidBrief) {
				t.Errorf("pages=%d: expected ErrInvalidBrief, got %v", pages, err)
			}
		}
	})

	t.Run("rejects missing theme", func(t *testing.T) {
		_, err := ParseBrief([]byte(`{
			"characters": [{"name": "Luna", "description": "a cat"}],
			"age_range": "4-6",
			"location": {"setting": "a meadow"},
			"image_style": "watercolor"
		}`))
		if !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})
}

func TestBrief_Validate(t *testing.T) {
	valid := func() *Brief {
		return &Brief{
			Characters:       []Character{{Name: "Luna", Description: "a cat"}},
			Theme:            "kindness",
			AgeRange:         "4-6",
			Location:         Location{Setting: "a meadow"},
			StoryLengthPages: 8,
			ImageStyle:       "watercolor",
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid brief rejected: %v", err)
	}

	t.Run("unnamed character", func(t *testing.T) {
		b := valid()
		b.Characters = append(b.Characters, Character{Description: "nameless"})
		if err := b.Validate(); !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})

	t.Run("missing image style", func(t *testing.T) {
		b := valid()
		b.ImageStyle = ""
		if err := b.Validate(); !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})

	t.Run("missing setting", func(t *testing.T) {
		b := valid()
		b.Location.Setting = ""
		if err := b.Validate(); !errors.Is(err, ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})
}

func TestLoadBrief(t *testing.T) {
	t.Run("loads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brief.json")
		if err := os.WriteFile(path, []byte(validBriefJSON), 0o644); err != nil {
			t.Fatal(err)
		}

		b, err := LoadBrief(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Theme != "friendship and courage" {
			t.Errorf("unexpected theme: %s", b.Theme)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadBrief(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
