package book

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeFilename converts free text into a filesystem-safe token,
// truncated to maxLength.
func SanitizeFilename(text string, maxLength int) string {
	text = invalidFilenameChars.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, "_")
	text = strings.Trim(text, "_")
	if len(text) > maxLength {
		text = text[:maxLength]
	}
	return text
}

// EnsureDir creates a directory (including parents) if it doesn't exist.
// Safe to call redundantly from concurrent page tasks.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
