package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/media/ffmeta"
	"chapterize/internal/splitter"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		cuePath    string
		runID      string
		outputDir  string
		noCover    bool
		jsonOutput bool

		title    string
		author   string
		album    string
		narrator string
		genre    string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "split <audio-file>",
		Short: "Split an audiobook into per-chapter files",
		Long: `Split an audiobook into one file per chapter using stream copy.

Chapter boundaries come from a cue sheet (--cue), a specific saved run
(--run), or the most recent saved run for the file. Container tags are
carried onto every piece; the metadata flags override probed values.
Embedded cover art lands beside the pieces unless --no-cover is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}

			a, err := asset.Probe(cmd.Context(), cfg.FFprobeBinary(), source)
			if err != nil {
				return err
			}

			list, err := resolveChapterList(cmd.Context(), ctx, source, cuePath, runID)
			if err != nil {
				return err
			}
			if err := list.Verify(a.Duration); err != nil {
				return fmt.Errorf("saved chapters no longer match %s: %w", source, err)
			}

			metadata := ffmeta.Merge(ffmeta.FromTags(a.Tags), ffmeta.Metadata{
				Title:    title,
				Artist:   author,
				Album:    album,
				Narrator: narrator,
				Genre:    genre,
				Date:     date,
			})

			dir := outputDir
			if dir != "" {
				if dir, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			s := splitter.New(splitter.Options{
				FFmpegBinary: cfg.FFmpegBinary(),
				OutputDir:    dir,
				Metadata:     metadata,
				ShowProgress: stdoutIsTerminal() && !jsonOutput,
				ExtractCover: !noCover,
			}, logger)

			res, err := s.Split(cmd.Context(), a, list)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, struct {
					Source    string   `json:"source"`
					Outputs   []string `json:"outputs"`
					CoverPath string   `json:"cover_path,omitempty"`
				}{Source: source, Outputs: res.Pieces, CoverPath: res.CoverPath})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d chapter files:\n", len(res.Pieces))
			for _, path := range res.Pieces {
				fmt.Fprintf(out, "  %s\n", path)
			}
			if res.CoverPath != "" {
				fmt.Fprintf(out, "Cover art written to %s\n", res.CoverPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cuePath, "cue", "", "Read chapter boundaries from a cue sheet")
	cmd.Flags().StringVar(&runID, "run", "", "Use a specific saved run by ID")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the chapter files (default: beside the source)")
	cmd.Flags().BoolVar(&noCover, "no-cover", false, "Skip extracting embedded cover art")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a listing")
	cmd.Flags().StringVar(&title, "title", "", "Override the album title tag")
	cmd.Flags().StringVar(&author, "author", "", "Override the artist tag")
	cmd.Flags().StringVar(&album, "album", "", "Override the album tag")
	cmd.Flags().StringVar(&narrator, "narrator", "", "Override the narrator (composer) tag")
	cmd.Flags().StringVar(&genre, "genre", "", "Override the genre tag")
	cmd.Flags().StringVar(&date, "date", "", "Override the date tag")

	return cmd
}

// resolveChapterList loads boundaries from the cue sheet when given, from a
// specific run when given, and otherwise from the latest saved run for the
// source.
func resolveChapterList(ctx context.Context, cctx *commandContext, source, cuePath, runID string) (chapters.List, error) {
	if cuePath != "" {
		expanded, err := config.ExpandPath(cuePath)
		if err != nil {
			return nil, fmt.Errorf("resolve cue path: %w", err)
		}
		return loadCueChapters(expanded)
	}

	store, err := cctx.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if runID != "" {
		run, err := store.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("no saved run with id %s", runID)
		}
		return run.Chapters, nil
	}

	run, err := store.LatestForSource(ctx, source)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("no saved chapters for %s; run `chapterize detect` first or pass --cue", source)
	}
	return run.Chapters, nil
}

func loadCueChapters(path string) (chapters.List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue sheet: %w", err)
	}
	defer file.Close()

	_, list, err := chapters.ReadCueSheet(file)
	if err != nil {
		return nil, err
	}
	return list, nil
}
