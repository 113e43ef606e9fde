// Package segment divides continuous generated prose into the fixed number
// of pages a book requests.
package segment

import (
	"log/slog"
	"strings"
)

// Engine splits story text into page-sized chunks.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a segmentation engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Split divides fullText into at most targetPages chunks. It returns exactly
// targetPages chunks unless the input has fewer extractable units; it never
// returns more.
//
// Paragraphs are the preferred unit. When the text is too coarse (at most
// targetPages/2 paragraphs) it falls back to grouping sentences; when too
// fine (more than targetPages*1.5 paragraphs) it merges the shortest
// paragraphs into their neighbors until the count fits.
func (e *Engine) Split(fullText string, targetPages int) []string {
	paragraphs := splitParagraphs(fullText)

	switch {
	case float64(len(paragraphs)) <= float64(targetPages)/2:
		e.logger.Warn("too few paragraphs, falling back to sentence splitting",
			"paragraphs", len(paragraphs),
			"target_pages", targetPages,
		)
		paragraphs = groupSentences(fullText, targetPages)

	case float64(len(paragraphs)) > float64(targetPages)*1.5:
		e.logger.Warn("more paragraphs than expected, merging shortest",
			"paragraphs", len(paragraphs),
			"target_pages", targetPages,
		)
		paragraphs = mergeShortest(paragraphs, targetPages)
	}

	if len(paragraphs) > targetPages {
		paragraphs = paragraphs[:targetPages]
	}

	e.logger.Info("split story into pages", "pages", len(paragraphs))
	return paragraphs
}

// splitParagraphs breaks text on blank-line boundaries, dropping empties.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// groupSentences re-derives page chunks from sentences when paragraph
// structure is too coarse. Sentences are bucketed evenly, and the first
// targetPages buckets become the pages.
func groupSentences(text string, targetPages int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	// Floor the bucket size at 1 so a story with few sentences still splits.
	perPage := len(sentences) / targetPages
	if perPage < 1 {
		perPage = 1
	}

	var pages []string
	for i := 0; i < len(sentences); i += perPage {
		end := i + perPage
		if end > len(sentences) {
			end = len(sentences)
		}
		pages = append(pages, strings.Join(sentences[i:end], " "))
	}

	if len(pages) > targetPages {
		pages = pages[:targetPages]
	}
	return pages
}

// splitSentences splits on sentence-terminal punctuation, keeping the
// terminator attached. Text with no terminators yields one giant sentence.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s+".")
	}
	return sentences
}

// mergeShortest repeatedly folds the globally shortest paragraph into its
// previous neighbor (or the next, when it is first) until the count reaches
// targetPages or a single paragraph remains. Ties break to the earliest
// index. This mirrors the historical behavior even though it can favor
// merging the same region repeatedly.
func mergeShortest(paragraphs []string, targetPages int) []string {
	merged := make([]string, len(paragraphs))
	copy(merged, paragraphs)

	for len(merged) > targetPages && len(merged) > 1 {
		shortest := 0
		for i, p := range merged {
			if len(p) < len(merged[shortest]) {
				shortest = i
			}
		}

		if shortest > 0 {
			merged[shortest-1] += "\n" + merged[shortest]
			merged = append(merged[:shortest], merged[shortest+1:]...)
		} else {
			merged[0] += "\n" + merged[1]
			merged = append(merged[:1], merged[2:]...)
		}
	}

	if len(merged) > targetPages {
		merged = merged[:targetPages]
	}
	return merged
}
