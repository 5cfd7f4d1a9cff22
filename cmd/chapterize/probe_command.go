package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chapterize/internal/asset"
	"chapterize/internal/config"
	"chapterize/internal/media/ffmeta"
)

type probeReport struct {
	Source           string          `json:"source"`
	Container        string          `json:"container"`
	Duration         string          `json:"duration"`
	SampleRate       int             `json:"sample_rate"`
	Channels         int             `json:"channels"`
	ChapterCapable   bool            `json:"chapter_capable"`
	EmbeddedChapters int             `json:"embedded_chapters"`
	Metadata         ffmeta.Metadata `json:"metadata"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <audio-file>",
		Short: "Inspect an audiobook container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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

			report := probeReport{
				Source:           source,
				Container:        string(a.Container),
				Duration:         a.Duration.Format(),
				SampleRate:       a.SampleRate,
				Channels:         a.Channels,
				ChapterCapable:   a.ChapterCapable(),
				EmbeddedChapters: len(a.EmbeddedChapters),
				Metadata:         ffmeta.FromTags(a.Tags),
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}

			rows := [][]string{
				{"Source", report.Source},
				{"Container", report.Container},
				{"Duration", report.Duration},
				{"Sample rate", strconv.Itoa(report.SampleRate)},
				{"Channels", strconv.Itoa(report.Channels)},
				{"Chapter capable", yesNo(report.ChapterCapable)},
				{"Embedded chapters", strconv.Itoa(report.EmbeddedChapters)},
			}
			if report.Metadata.Title != "" {
				rows = append(rows, []string{"Title", report.Metadata.Title})
			}
			if report.Metadata.Artist != "" {
				rows = append(rows, []string{"Author", report.Metadata.Artist})
			}
			if report.Metadata.Narrator != "" {
				rows = append(rows, []string{"Narrator", report.Metadata.Narrator})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
