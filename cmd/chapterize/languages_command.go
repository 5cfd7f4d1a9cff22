package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/lexicon"
)

type languageReport struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	KeywordSpotting bool   `json:"keyword_spotting"`
}

func languageReports() []languageReport {
	codes := lexicon.Supported()
	reports := make([]languageReport, 0, len(codes))
	for _, code := range codes {
		_, hasVocab := lexicon.FeaturesFor(code)
		reports = append(reports, languageReport{
			Code:            code,
			Name:            lexicon.Display(code),
			KeywordSpotting: hasVocab,
		})
	}
	return reports
}

func newLanguagesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List supported narration languages",
		Long:        "List supported narration languages. Languages without a keyword vocabulary still transcribe but only support silence detection.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := languageReports()

			if jsonOutput {
				return writeJSON(cmd, reports)
			}

			rows := make([][]string, 0, len(reports))
			for _, report := range reports {
				rows = append(rows, []string{report.Code, report.Name, yesNo(report.KeywordSpotting)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Language", "Keyword Spotting"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
