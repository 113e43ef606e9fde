package creator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drewdresser/storybook-creator/internal/book"
	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/story"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBrief(pages int, characters ...story.Character) *story.Brief {
	if len(characters) == 0 {
		characters = []story.Character{
			{Name: "Luna", Description: "a curious grey cat"},
			{Name: "Max", Description: "a loyal golden retriever"},
		}
	}
	return &story.Brief{
		Characters:       characters,
		Theme:            "friendship",
		AgeRange:         "4-6",
		Location:         story.Location{Setting: "a sunny meadow"},
		StoryLengthPages: pages,
		ImageStyle:       "soft watercolor",
	}
}

// twoParagraphStory has 8 sentences across 2 paragraphs, so a 4-page target
// forces the sentence-splitting branch into exactly 4 chunks.
const twoParagraphStory = "Luna woke early in the meadow. She saw a shiny map. " +
	"Max sniffed the morning air. They decided to follow the map together.\n\n" +
	"The path wound past the creek. Max found a hidden bridge. " +
	"Luna crossed it bravely. They reached home before sunset, happy and tired."

func TestCreator_New(t *testing.T) {
	t.Run("rejects nil brief", func(t *testing.T) {
		_, err := New(Config{Text: providers.NewMockTextGenerator(), Logger: testLogger()})
		if !errors.Is(err, story.ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
	})

	t.Run("rejects invalid brief before any backend call", func(t *testing.T) {
		b := testBrief(4)
		b.Theme = ""
		text := providers.NewMockTextGenerator()
		_, err := New(Config{Brief: b, Text: text, Logger: testLogger()})
		if !errors.Is(err, story.ErrInvalidBrief) {
			t.Errorf("expected ErrInvalidBrief, got %v", err)
		}
		if text.RequestCount() != 0 {
			t.Errorf("text backend called %d times during validation", text.RequestCount())
		}
	})

	t.Run("requires text generator", func(t *testing.T) {
		if _, err := New(Config{Brief: testBrief(4), Logger: testLogger()}); err == nil {
			t.Error("expected error for missing text generator")
		}
	})
}

func TestCreator_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("end-to-end with one failed image", func(t *testing.T) {
		text := providers.NewMockTextGenerator()
		text.ResponseText = twoParagraphStory

		image := providers.NewMockImageGenerator()
		image.FailOn = func(outputPath string) error {
			if strings.HasSuffix(outputPath, "page_03.png") {
				return fmt.Errorf("simulated image failure")
			}
			return nil
		}

		c, err := New(Config{
			Brief:         testBrief(4),
			Text:          text,
			Image:         image,
			OutputBaseDir: t.TempDir(),
			Logger:        testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}

		b, err := c.CreateBook(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(b.Pages) != 4 {
			t.Fatalf("expected 4 pages, got %d", len(b.Pages))
		}

		withImages := 0
		for i, p := range b.Pages {
			if p.PageNumber != i+1 {
				t.Errorf("page at index %d has number %d", i, p.PageNumber)
			}
			if p.ImagePath != "" {
				withImages++
			} else if p.ImagePrompt == "" {
				t.Errorf("failed page %d lost its prompt", p.PageNumber)
			}
		}
		if withImages != 3 {
			t.Errorf("expected 3 pages with images, got %d", withImages)
		}

		// Metadata persisted alongside the images.
		if _, err := os.Stat(filepath.Join(b.OutputDir, "story.txt")); err != nil {
			t.Errorf("story.txt missing: %v", err)
		}
		entries, err := book.LoadManifest(b.OutputDir)
		if err != nil {
			t.Fatalf("manifest missing: %v", err)
		}
		if len(entries) != 4 {
			t.Fatalf("expected 4 manifest entries, got %d", len(entries))
		}
		nullCount := 0
		for _, e := range entries {
			if e.ImageFilename == nil {
				nullCount++
			}
		}
		if nullCount != 1 {
			t.Errorf("expected exactly 1 null image_filename, got %d", nullCount)
		}
	})

	t.Run("edit mode for pages mentioning character with reference image", func(t *testing.T) {
		ref := filepath.Join(t.TempDir(), "luna.png")
		if err := os.WriteFile(ref, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}

		text := providers.NewMockTextGenerator()
		// Luna appears only in the first paragraph's sentences.
		text.ResponseText = "Luna woke early today. Luna saw a map. Luna smiled wide. Luna set off quickly.\n\n" +
			"The meadow was quiet. The creek burbled past. A bridge appeared ahead. Home was close by now."

		image := providers.NewMockImageGenerator()
		image.EditSupported = true

		c, err := New(Config{
			Brief:         testBrief(4, story.Character{Name: "Luna", Description: "a grey cat", ImagePath: ref}),
			Text:          text,
			Image:         image,
			OutputBaseDir: t.TempDir(),
			Logger:        testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := c.CreateBook(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		edits := image.EditCalls()
		gens := image.GenerateCalls()
		if len(edits) != 2 {
			t.Errorf("expected 2 edit calls for Luna pages, got %d", len(edits))
		}
		if len(gens) != 2 {
			t.Errorf("expected 2 generate calls for Luna-free pages, got %d", len(gens))
		}
		for _, call := range edits {
			if len(call.InputPaths) != 1 || call.InputPaths[0] != ref {
				t.Errorf("edit call missing reference image: %v", call.InputPaths)
			}
		}
	})

	t.Run("text backend failure is fatal", func(t *testing.T) {
		text := providers.NewMockTextGenerator()
		text.ShouldFail = true

		c, err := New(Config{
			Brief:         testBrief(4),
			Text:          text,
			Image:         providers.NewMockImageGenerator(),
			OutputBaseDir: t.TempDir(),
			Logger:        testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := c.CreateBook(ctx); !errors.Is(err, ErrTextGeneration) {
			t.Errorf("expected ErrTextGeneration, got %v", err)
		}
	})

	t.Run("degenerate story text is fatal", func(t *testing.T) {
		text := providers.NewMockTextGenerator()
		text.ResponseText = "Too short."

		c, err := New(Config{
			Brief:         testBrief(4),
			Text:          text,
			Image:         providers.NewMockImageGenerator(),
			OutputBaseDir: t.TempDir(),
			Logger:        testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := c.CreateBook(ctx); !errors.Is(err, ErrTextGeneration) {
			t.Errorf("expected ErrTextGeneration, got %v", err)
		}
	})

	t.Run("nil image backend produces text-only book", func(t *testing.T) {
		text := providers.NewMockTextGenerator()
		text.ResponseText = twoParagraphStory

		c, err := New(Config{
			Brief:         testBrief(4),
			Text:          text,
			OutputBaseDir: t.TempDir(),
			Logger:        testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}

		b, err := c.CreateBook(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(b.Pages) != 4 {
			t.Fatalf("expected 4 pages, got %d", len(b.Pages))
		}
		for _, p := range b.Pages {
			if p.ImagePath != "" {
				t.Errorf("expected no image for page %d", p.PageNumber)
			}
		}
	})
}
