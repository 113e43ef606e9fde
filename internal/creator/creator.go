// Package creator orchestrates the full book pipeline: story text
// generation, segmentation, concurrent page illustration, assembly, and
// persistence.
package creator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/drewdresser/storybook-creator/internal/book"
	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/segment"
	"github.com/drewdresser/storybook-creator/internal/story"
)

// ErrMissingCredential is returned when a required backend credential is
// absent. No backend call is made.
var ErrMissingCredential = errors.New("missing backend credential")

// ErrTextGeneration is returned when the text backend fails or returns
// degenerate output. The run aborts before segmentation.
var ErrTextGeneration = errors.New("story text generation failed")

// minStoryLength is the shortest generated text accepted as a story.
const minStoryLength = 50

// Config configures a new Creator.
type Config struct {
	Brief *story.Brief
	Text  providers.TextGenerator

	// Image may be nil; the book is then produced text-only.
	Image providers.ImageGenerator

	// OutputBaseDir is where book directories are created.
	OutputBaseDir string

	// ImageSize is the requested illustration size, e.g. "1536x1024".
	ImageSize string

	// ExportPDF additionally assembles page images into book.pdf.
	ExportPDF bool

	Logger *slog.Logger
}

// Creator sequences the book pipeline. Backend clients are constructed once
// and shared read-only across all page tasks.
type Creator struct {
	brief     *story.Brief
	text      providers.TextGenerator
	image     providers.ImageGenerator
	segmenter *segment.Engine
	baseDir   string
	imageSize string
	exportPDF bool
	logger    *slog.Logger
}

// New creates a Creator. The brief is validated up front so an invalid run
// is rejected before any backend call.
func New(cfg Config) (*Creator, error) {
	if cfg.Brief == nil {
		return nil, fmt.Errorf("%w: brief is required", story.ErrInvalidBrief)
	}
	if err := cfg.Brief.Validate(); err != nil {
		return nil, err
	}
	if cfg.Text == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Image == nil {
		logger.Warn("no image backend configured, pages will be text-only")
	}

	return &Creator{
		brief:     cfg.Brief,
		text:      cfg.Text,
		image:     cfg.Image,
		segmenter: segment.NewEngine(logger),
		baseDir:   cfg.OutputBaseDir,
		imageSize: cfg.ImageSize,
		exportPDF: cfg.ExportPDF,
		logger:    logger,
	}, nil
}

// CreateBook runs the pipeline end-to-end and returns the assembled book.
// The caller receives either a complete Book (possibly with pages lacking
// images) or an error, never a partially-constructed Book.
func (c *Creator) CreateBook(ctx context.Context) (*story.Book, error) {
	runID := uuid.New().String()
	logger := c.logger.With("run_id", runID)

	logger.Info("generating story text", "provider", c.text.Name())
	fullStory, err := c.text.Generate(ctx, c.storyPrompt())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTextGeneration, err)
	}
	fullStory = strings.TrimSpace(fullStory)
	if len(fullStory) < minStoryLength {
		return nil, fmt.Errorf("%w: generated text is too short (%d chars)", ErrTextGeneration, len(fullStory))
	}
	logger.Info("story text generated", "chars", len(fullStory))

	pageTexts := c.segmenter.Split(fullStory, c.brief.StoryLengthPages)
	if len(pageTexts) == 0 {
		return nil, fmt.Errorf("%w: no pages could be extracted from the generated text", ErrTextGeneration)
	}

	assembler := book.NewAssembler(book.AssemblerConfig{
		Brief:     c.brief,
		Image:     c.image,
		ImageSize: c.imageSize,
		BaseDir:   c.baseDir,
		Logger:    logger,
	})
	b, err := assembler.Assemble(ctx, fullStory, pageTexts)
	if err != nil {
		return nil, err
	}

	// Persistence is best-effort: the page images and text already exist on
	// disk, so a manifest failure degrades the run rather than failing it.
	if err := book.PersistMetadata(b); err != nil {
		logger.Error("failed to persist book metadata", "error", err)
	}

	if c.exportPDF {
		if pdfPath, err := book.ExportPDF(b); err != nil {
			logger.Error("failed to export book PDF", "error", err)
		} else {
			logger.Info("exported book PDF", "path", pdfPath)
		}
	}

	logger.Info("book created", "title", b.Title, "pages", len(b.Pages), "output_dir", b.OutputDir)
	return b, nil
}

// storyPrompt builds the text backend prompt from the brief.
func (c *Creator) storyPrompt() string {
	var chars strings.Builder
	for _, ch := range c.brief.Characters {
		fmt.Fprintf(&chars, "- %s: %s\n", ch.Name, ch.Description)
	}

	location := c.brief.Location.Setting
	if len(c.brief.Location.Details) > 0 {
		location = fmt.Sprintf("%s, featuring %s.", location, strings.Join(c.brief.Location.Details, ", "))
	}

	return fmt.Sprintf(
		"Write a children's story suitable for the age range %s.\n"+
			"Theme: %s\n"+
			"Characters:\n%s"+
			"Location: %s\n"+
			"The story should be engaging, positive, and approximately %d short paragraphs long (each paragraph will be a page).\n"+
			"Ensure the story has a clear beginning, middle, and a gentle resolution or end.\n"+
			"Use simple language appropriate for the age group.\n"+
			"Focus on the interactions between the characters and their environment."+
			"Do NOT include page numbers or explicit page breaks like '[Page X]' in the output. Just write the story text continuously.",
		c.brief.AgeRange,
		c.brief.Theme,
		chars.String(),
		location,
		c.brief.StoryLengthPages,
	)
}
