package book

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/story"
)

// titleMaxLength bounds the sanitized book title used in the output path.
const titleMaxLength = 30

// Assembler fans out one page worker per chunk, joins at a barrier, and
// builds the Book aggregate.
type Assembler struct {
	brief   *story.Brief
	worker  *PageWorker
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// AssemblerConfig configures a new Assembler.
type AssemblerConfig struct {
	Brief *story.Brief

	// Image may be nil for the text-only degraded mode.
	Image providers.ImageGenerator

	// ImageSize is passed through to the page workers.
	ImageSize string

	// BaseDir is the directory books are written under; each run gets
	// <BaseDir>/<timestamp>/<sanitized title>.
	BaseDir string

	Logger *slog.Logger

	// Now overrides the clock (tests). Defaults to time.Now.
	Now func() time.Time
}

// NewAssembler creates a book assembler.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Assembler{
		brief: cfg.Brief,
		worker: NewPageWorker(PageWorkerConfig{
			Brief:     cfg.Brief,
			Image:     cfg.Image,
			ImageSize: cfg.ImageSize,
			Logger:    logger,
		}),
		baseDir: cfg.BaseDir,
		logger:  logger,
		now:     now,
	}
}

// Assemble runs all page workers concurrently and collects the finished
// pages into a Book. Individual image failures never cancel sibling pages;
// the barrier waits for every page to settle.
func (a *Assembler) Assemble(ctx context.Context, fullStory string, pageTexts []string) (*story.Book, error) {
	title := a.deriveTitle(fullStory)
	outputDir := filepath.Join(a.baseDir, a.now().Format("20060102_150405"), title)
	if err := EnsureDir(outputDir); err != nil {
		return nil, err
	}
	a.logger.Info("assembling book", "title", title, "output_dir", outputDir, "pages", len(pageTexts))

	// One task per page; results arrive in completion order.
	results := make(chan story.Page, len(pageTexts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range pageTexts {
		pageNumber := i + 1
		g.Go(func() error {
			results <- a.worker.Run(gctx, text, pageNumber, outputDir, pageTexts)
			return nil
		})
	}
	// Workers capture failures as image-less pages, so the barrier join
	// always succeeds.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("page fan-out failed: %w", err)
	}
	close(results)

	pages := make([]story.Page, 0, len(pageTexts))
	for p := range results {
		pages = append(pages, p)
	}
	// Completion order is unspecified; persistence and display depend on
	// page order.
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].PageNumber < pages[j].PageNumber
	})

	return &story.Book{
		Title:     title,
		Brief:     a.brief,
		FullStory: fullStory,
		OutputDir: outputDir,
		Pages:     pages,
	}, nil
}

// deriveTitle takes the story's first sentence sanitized to a bounded
// filesystem-safe token, falling back to the first character's name.
func (a *Assembler) deriveTitle(fullStory string) string {
	firstSentence, _, _ := strings.Cut(fullStory, ".")
	title := SanitizeFilename(firstSentence, titleMaxLength)
	if title == "" {
		title = "Story_" + a.brief.Characters[0].Name
	}
	return title
}
