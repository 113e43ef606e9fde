package book

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/story"
)

func TestPageWorker_Run(t *testing.T) {
	ctx := context.Background()
	pageTexts := []string{"Luna ran home.", "Max chased a ball."}

	t.Run("successful image", func(t *testing.T) {
		dir := t.TempDir()
		mock := providers.NewMockImageGenerator()
		w := NewPageWorker(PageWorkerConfig{Brief: testBrief(), Image: mock, Logger: testLogger()})

		page := w.Run(ctx, pageTexts[0], 1, dir, pageTexts)
		if page.PageNumber != 1 {
			t.Errorf("expected page 1, got %d", page.PageNumber)
		}
		if page.ImagePath == "" {
			t.Fatal("expected image path")
		}
		if !strings.HasSuffix(page.ImagePath, "page_01.png") {
			t.Errorf("unexpected image filename: %s", page.ImagePath)
		}
		if page.ImagePrompt == "" {
			t.Error("expected recorded prompt")
		}
	})

	t.Run("image failure degrades to text-only page", func(t *testing.T) {
		dir := t.TempDir()
		mock := providers.NewMockImageGenerator()
		mock.FailOn = func(string) error { return fmt.Errorf("backend down") }
		w := NewPageWorker(PageWorkerConfig{Brief: testBrief(), Image: mock, Logger: testLogger()})

		page := w.Run(ctx, pageTexts[0], 1, dir, pageTexts)
		if page.ImagePath != "" {
			t.Errorf("expected no image path, got %s", page.ImagePath)
		}
		if page.ImagePrompt == "" {
			t.Error("expected prompt recorded even on failure")
		}
		if page.Text != pageTexts[0] {
			t.Errorf("unexpected page text: %q", page.Text)
		}
	})

	t.Run("nil image backend yields text-only page", func(t *testing.T) {
		w := NewPageWorker(PageWorkerConfig{Brief: testBrief(), Logger: testLogger()})

		page := w.Run(ctx, pageTexts[1], 2, t.TempDir(), pageTexts)
		if page.PageNumber != 2 || page.Text != pageTexts[1] {
			t.Errorf("unexpected page: %+v", page)
		}
		if page.ImagePath != "" {
			t.Errorf("expected no image path, got %s", page.ImagePath)
		}
	})

	t.Run("edit mode dispatches to editor with references", func(t *testing.T) {
		dir := t.TempDir()
		ref := writeRefImage(t, dir, "luna.png")
		brief := testBrief(story.Character{Name: "Luna", Description: "a grey cat", ImagePath: ref})

		mock := providers.NewMockImageGenerator()
		mock.EditSupported = true
		w := NewPageWorker(PageWorkerConfig{Brief: brief, Image: mock, Logger: testLogger()})

		page := w.Run(ctx, "Luna ran home.", 1, dir, []string{"Luna ran home."})
		if page.ImagePath == "" {
			t.Fatal("expected image path")
		}

		edits := mock.EditCalls()
		if len(edits) != 1 {
			t.Fatalf("expected 1 edit call, got %d", len(edits))
		}
		if len(edits[0].InputPaths) != 1 || edits[0].InputPaths[0] != ref {
			t.Errorf("expected reference %s passed to edit, got %v", ref, edits[0].InputPaths)
		}
		if len(mock.GenerateCalls()) != 0 {
			t.Errorf("expected no generate calls, got %d", len(mock.GenerateCalls()))
		}
	})

	t.Run("zero-padded filenames", func(t *testing.T) {
		dir := t.TempDir()
		mock := providers.NewMockImageGenerator()
		w := NewPageWorker(PageWorkerConfig{Brief: testBrief(), Image: mock, Logger: testLogger()})

		page := w.Run(ctx, "Some text.", 12, dir, []string{"Some text."})
		if !strings.HasSuffix(page.ImagePath, "page_12.png") {
			t.Errorf("unexpected filename for page 12: %s", page.ImagePath)
		}
	})
}
