// Package book assembles story text and page illustrations into the final
// book artifact.
package book

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/drewdresser/storybook-creator/internal/story"
)

// ImageMode selects how a page illustration is produced.
type ImageMode string

const (
	// ModeGenerate produces an image from the prompt alone.
	ModeGenerate ImageMode = "generate"

	// ModeEdit composites character reference images into the scene.
	ModeEdit ImageMode = "edit"
)

// ImageRequest is the planned image backend call for one page.
type ImageRequest struct {
	Prompt          string
	Mode            ImageMode
	ReferenceImages []string
}

// Mentions returns the characters whose names appear in pageText as a
// case-insensitive substring, in roster order. A name occurring inside
// another word still counts; that looseness is deliberate.
func Mentions(pageText string, characters []story.Character) []story.Character {
	lower := strings.ToLower(pageText)
	var mentioned []story.Character
	for _, c := range characters {
		if strings.Contains(lower, strings.ToLower(c.Name)) {
			mentioned = append(mentioned, c)
		}
	}
	return mentioned
}

// Planner builds per-page image requests from the story brief.
type Planner struct {
	brief  *story.Brief
	logger *slog.Logger
}

// NewPlanner creates a page image planner.
func NewPlanner(brief *story.Brief, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{brief: brief, logger: logger}
}

// Plan decides the prompt, mode, and reference images for one page.
// canEdit reports whether the configured image backend supports edit mode;
// reference images without edit capability fall back to generate mode with a
// capability-mismatch log, never an error.
func (p *Planner) Plan(pageText string, pageNumber int, pageTexts []string, canEdit bool) ImageRequest {
	mentioned := Mentions(pageText, p.brief.Characters)
	characterDetails := describeCharacters(mentioned)
	p.logger.Info("planned page characters",
		"page", pageNumber,
		"characters", characterDetails,
	)

	var referenceImages []string
	for _, c := range mentioned {
		if c.ImagePath == "" {
			continue
		}
		if info, err := os.Stat(c.ImagePath); err != nil || info.IsDir() {
			p.logger.Warn("character reference image not found, generating without it",
				"page", pageNumber,
				"character", c.Name,
				"path", c.ImagePath,
			)
			continue
		}
		referenceImages = append(referenceImages, c.ImagePath)
	}

	basePrompt := p.basePrompt(pageText, pageTexts, characterDetails)

	if len(referenceImages) > 0 && canEdit {
		editPrompt := fmt.Sprintf(
			"%s Combine the character(s) from the input image(s) into the scene described above, "+
				"maintaining the overall style. Preserve the key characteristics of the characters "+
				"(as described: %s), but make them look like they are naturally part of the scene "+
				"depicted in the page text.",
			basePrompt, characterDetails,
		)
		return ImageRequest{
			Prompt:          editPrompt,
			Mode:            ModeEdit,
			ReferenceImages: referenceImages,
		}
	}

	if len(referenceImages) > 0 {
		p.logger.Warn("reference images available but image backend does not support editing, generating from descriptions",
			"page", pageNumber,
			"references", len(referenceImages),
		)
	}

	return ImageRequest{Prompt: basePrompt, Mode: ModeGenerate}
}

// basePrompt embeds the art style, setting, theme, age range, the whole
// story as context, the page text, and the mentioned character descriptions.
func (p *Planner) basePrompt(pageText string, pageTexts []string, characterDetails string) string {
	return fmt.Sprintf(
		"You will generate a page for a children's book. I'll give you some metadata, "+
			"the full text of the book, and the text for this specific page. \n"+
			"Style: %s. \n"+
			"Setting: %s. Theme: %s. \n"+
			"Age: %s. Story context: %s. \n"+
			"This specific page shows: %s. \n"+
			"Characters mentioned on this page (use descriptions): %s. \n"+
			"Incorporate the page text '%s' visually into the image using the Andika font "+
			"from Google Fonts, perhaps on a sign, scroll, or subtly in the background.",
		p.brief.ImageStyle,
		p.brief.Location.Setting,
		p.brief.Theme,
		p.brief.AgeRange,
		strings.Join(pageTexts, " "),
		pageText,
		characterDetails,
		pageText,
	)
}

// describeCharacters renders "name (description)" pairs, or an explicit
// marker when the page mentions nobody.
func describeCharacters(characters []story.Character) string {
	if len(characters) == 0 {
		return "None mentioned on this page."
	}
	parts := make([]string, len(characters))
	for i, c := range characters {
		parts[i] = fmt.Sprintf("%s (%s)", c.Name, c.Description)
	}
	return strings.Join(parts, ", ")
}
