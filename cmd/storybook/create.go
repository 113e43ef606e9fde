package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drewdresser/storybook-creator/internal/config"
	"github.com/drewdresser/storybook-creator/internal/creator"
	"github.com/drewdresser/storybook-creator/internal/home"
	"github.com/drewdresser/storybook-creator/internal/providers"
	"github.com/drewdresser/storybook-creator/internal/story"
)

var exportPDF bool

var createCmd = &cobra.Command{
	Use:   "create <brief.json>",
	Short: "Create an illustrated storybook from a story brief",
	Long: `Create generates story text from the brief, splits it into the requested
number of pages, illustrates each page concurrently, and writes the book
(page images, story.txt, pages_manifest.json) into a timestamped output
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		hd, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := hd.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		// Brief and credentials are checked before any backend call.
		brief, err := story.LoadBrief(args[0])
		if err != nil {
			return err
		}

		textKey := cfg.ResolvedTextAPIKey()
		if textKey == "" {
			return fmt.Errorf("%w: text provider %q has no API key (set %s)",
				creator.ErrMissingCredential, cfg.Text.Provider, cfg.Text.APIKey)
		}
		imageKey := cfg.ResolvedImageAPIKey()
		if cfg.Image.Provider != "" && imageKey == "" {
			return fmt.Errorf("%w: image provider %q has no API key (set %s)",
				creator.ErrMissingCredential, cfg.Image.Provider, cfg.Image.APIKey)
		}

		text, err := providers.NewGeminiClient(ctx, providers.GeminiConfig{
			APIKey:     textKey,
			Model:      cfg.Text.Model,
			MaxRetries: cfg.Text.MaxRetries,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		// A run without an image backend still produces a text-only book.
		var image providers.ImageGenerator
		if cfg.Image.Provider != "" {
			image, err = providers.NewImageGenerator(cfg.Image.Provider, imageKey, providers.ImageOptions{
				Model:             cfg.Image.Model,
				Quality:           cfg.Image.Quality,
				Style:             cfg.Image.Style,
				OutputFormat:      cfg.Image.OutputFormat,
				OutputCompression: cfg.Image.OutputCompression,
				MaxRetries:        cfg.Image.MaxRetries,
				Timeout:           time.Duration(cfg.Image.TimeoutSeconds) * time.Second,
			})
			if err != nil {
				return err
			}
		}

		outputBase := cfg.Output.BaseDir
		if outputBase == "" {
			outputBase = hd.OutputPath()
		}

		cr, err := creator.New(creator.Config{
			Brief:         brief,
			Text:          text,
			Image:         image,
			OutputBaseDir: outputBase,
			ImageSize:     cfg.Image.Size,
			ExportPDF:     exportPDF,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		book, err := cr.CreateBook(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Success! Book %q generated in %s\n", book.Title, book.OutputDir)
		fmt.Println("Each page image and the full story text/manifest are saved there.")
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVar(&exportPDF, "pdf", false, "additionally assemble page images into book.pdf")
}
