package book

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/story"
)

// PageWorker executes one page end-to-end: plan the image request, dispatch
// it to the image backend, and produce a page record. It never fails for a
// failed image step; failure degrades to a text-only page.
type PageWorker struct {
	planner   *Planner
	image     providers.ImageGenerator // nil when no backend is configured
	imageSize string
	logger    *slog.Logger
}

// PageWorkerConfig configures a new PageWorker.
type PageWorkerConfig struct {
	Brief *story.Brief

	// Image may be nil; the worker then produces text-only pages since the
	// story has value without illustrations.
	Image providers.ImageGenerator

	// ImageSize is the requested generation size, e.g. "1536x1024".
	ImageSize string

	Logger *slog.Logger
}

// NewPageWorker creates a page worker.
func NewPageWorker(cfg PageWorkerConfig) *PageWorker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PageWorker{
		planner:   NewPlanner(cfg.Brief, logger),
		image:     cfg.Image,
		imageSize: cfg.ImageSize,
		logger:    logger,
	}
}

// Run produces the Page for one text chunk. The image prompt is recorded on
// the page even when the backend call fails, for diagnostics.
func (w *PageWorker) Run(ctx context.Context, pageText string, pageNumber int, outputDir string, pageTexts []string) story.Page {
	if w.image == nil {
		w.logger.Warn("image backend not configured, producing text-only page",
			"page", pageNumber,
		)
		return story.Page{PageNumber: pageNumber, Text: pageText}
	}

	req := w.planner.Plan(pageText, pageNumber, pageTexts, w.image.SupportsEdit())
	requestID := uuid.New().String()

	// Deterministic target filename; the backend may adjust the extension
	// when a configured output format demands one.
	outputPath := filepath.Join(outputDir, fmt.Sprintf("page_%02d.png", pageNumber))

	imagePath, err := w.dispatch(ctx, req, outputPath)
	if err != nil {
		w.logger.Error("image step failed for page",
			"page", pageNumber,
			"request_id", requestID,
			"mode", req.Mode,
			"prompt", req.Prompt,
			"error", err,
		)
		return story.Page{
			PageNumber:  pageNumber,
			Text:        pageText,
			ImagePrompt: req.Prompt,
		}
	}

	w.logger.Info("generated page image",
		"page", pageNumber,
		"request_id", requestID,
		"mode", req.Mode,
		"path", imagePath,
	)
	return story.Page{
		PageNumber:  pageNumber,
		Text:        pageText,
		ImagePath:   imagePath,
		ImagePrompt: req.Prompt,
	}
}

func (w *PageWorker) dispatch(ctx context.Context, req ImageRequest, outputPath string) (string, error) {
	if req.Mode == ModeEdit {
		editor, ok := w.image.(providers.ImageEditor)
		if !ok {
			return "", fmt.Errorf("backend %s advertises edit capability but does not implement it", w.image.Name())
		}
		return editor.Edit(ctx, req.Prompt, req.ReferenceImages, outputPath)
	}
	return w.image.Generate(ctx, req.Prompt, outputPath, w.imageSize)
}
