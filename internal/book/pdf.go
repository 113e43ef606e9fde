package book

import (
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/drewdresser/storybook-creator/internal/story"
)

const pdfFileName = "book.pdf"

// ExportPDF assembles the book's page images, in page order, into a single
// book.pdf alongside the other artifacts. Pages without images are skipped;
// a book with no images at all is not exportable.
func ExportPDF(b *story.Book) (string, error) {
	var images []string
	for _, p := range b.Pages {
		if p.ImagePath != "" {
			images = append(images, p.ImagePath)
		}
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no page images to export")
	}

	outFile := filepath.Join(b.OutputDir, pdfFileName)
	if err := api.ImportImagesFile(images, outFile, nil, nil); err != nil {
		return "", fmt.Errorf("failed to build %s: %w", pdfFileName, err)
	}
	return outFile, nil
}
