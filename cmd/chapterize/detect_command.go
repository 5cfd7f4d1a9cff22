package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/snapshot"
)

type chapterReport struct {
	Index  int    `json:"index"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
	Source string `json:"source"`
}

type detectReport struct {
	Source   string          `json:"source"`
	Duration string          `json:"duration"`
	Method   string          `json:"method"`
	Language string          `json:"language"`
	RunID    string          `json:"run_id,omitempty"`
	CuePath  string          `json:"cue_path,omitempty"`
	Chapters []chapterReport `json:"chapters"`
}

func chapterReports(list chapters.List) []chapterReport {
	reports := make([]chapterReport, 0, len(list))
	for _, chapter := range list {
		reports = append(reports, chapterReport{
			Index:  chapter.Index,
			Start:  chapter.Start.Format(),
			End:    chapter.End.Format(),
			Label:  chapter.Label,
			Source: string(chapter.Source),
		})
	}
	return reports
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var (
		method     string
		language   string
		modelSize  string
		cuePath    string
		strict     bool
		noVAD      bool
		noEmbedded bool
		noSave     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "detect <audio-file>",
		Short: "Detect chapter boundaries in an audiobook",
		Long: `Detect chapter boundaries in an audiobook file.

Chaptered containers (m4b, m4a) with embedded markers short-circuit detection.
Plain containers run the configured strategy: keyword spotting over a
transcript, silence detection over the amplitude envelope, or the hybrid of
both. The resulting timeline is saved for later splitting unless --no-save
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			if !asset.Supported(source) {
				return fmt.Errorf("unsupported input %s (supported: %s)",
					filepath.Base(source), strings.Join(asset.SupportedExtensions, ", "))
			}

			settings := cfg.Detection
			if method != "" {
				settings.Method = method
			}
			if language != "" {
				settings.Language = language
			}
			if modelSize != "" {
				settings.ModelSize = modelSize
			}
			if strict {
				settings.HybridStrict = true
			}
			if noVAD {
				settings.VADFilter = false
			}

			pipeline, cleanup, err := ctx.newDetector(settings)
			if err != nil {
				return err
			}
			defer cleanup()

			a, err := asset.Probe(cmd.Context(), cfg.FFprobeBinary(), source)
			if err != nil {
				return err
			}

			if a.ChapterCapable() && len(a.EmbeddedChapters) > 0 {
				skip := noEmbedded
				if !skip && !settings.UseEmbedded && stdoutIsTerminal() && !jsonOutput {
					prompt := fmt.Sprintf("Found %d embedded chapters. Use them?", len(a.EmbeddedChapters))
					skip = !confirm(cmd, prompt, true)
				}
				if skip {
					a.EmbeddedChapters = nil
				}
			}

			list, err := pipeline.Detect(cmd.Context(), a)
			if err != nil {
				return err
			}

			report := detectReport{
				Source:   source,
				Duration: a.Duration.Format(),
				Method:   settings.Method,
				Language: settings.Language,
				Chapters: chapterReports(list),
			}

			if cue := resolveCuePath(cfg, source, cuePath); cue != "" {
				if err := writeCueFile(cue, source, list); err != nil {
					return err
				}
				report.CuePath = cue
			}

			if !noSave {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				report.RunID, err = store.SaveRun(cmd.Context(), snapshot.Run{
					SourcePath:      source,
					DurationSeconds: a.Duration.Seconds(),
					Method:          settings.Method,
					Language:        settings.Language,
					Chapters:        list,
				})
				if err != nil {
					return err
				}

				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				runCtx := services.WithRunID(services.WithAsset(cmd.Context(), source), report.RunID)
				logging.WithContext(runCtx, logger).Info("detection run saved",
					logging.String("method", settings.Method),
					logging.Int("chapters", len(list)))
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(chapterTableHeaders(), chapterTableRows(list), chapterTableAligns()))
			if report.CuePath != "" {
				fmt.Fprintf(out, "Cue sheet written to %s\n", report.CuePath)
			}
			if report.RunID != "" {
				fmt.Fprintf(out, "Saved as run %s\n", shortID(report.RunID))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "Detection method: keyword, silence, or hybrid")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Narration language")
	cmd.Flags().StringVar(&modelSize, "model-size", "", "Speech model size (tiny/base/small/medium/large)")
	cmd.Flags().StringVar(&cuePath, "cue", "", "Write a cue sheet to this path")
	cmd.Flags().BoolVar(&strict, "strict", false, "Drop silence intervals lacking keyword confirmation")
	cmd.Flags().BoolVar(&noVAD, "no-vad", false, "Transcribe everything instead of gating on voice activity")
	cmd.Flags().BoolVar(&noEmbedded, "no-embedded", false, "Ignore embedded chapter markers")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip saving the run to history")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")

	return cmd
}

// resolveCuePath picks the cue destination: the flag wins, then the
// configured path, then a sibling of the source when generation is enabled.
func resolveCuePath(cfg *config.Config, source, flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if !cfg.Cue.Generate {
		return ""
	}
	if cfg.Cue.Path != "" {
		return cfg.Cue.Path
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".cue"
}

func writeCueFile(path, source string, list chapters.List) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cue sheet: %w", err)
	}
	defer file.Close()
	if err := chapters.WriteCueSheet(file, filepath.Base(source), list); err != nil {
		return fmt.Errorf("write cue sheet: %w", err)
	}
	return nil
}
