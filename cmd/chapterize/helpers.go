package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"chapterize/internal/chapters"
	"chapterize/internal/snapshot"
)

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// confirm prompts on the command's streams and returns the answer. An empty
// answer takes the default.
func confirm(cmd *cobra.Command, prompt string, defaultYes bool) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s ", prompt, hint)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return defaultYes
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

func chapterTableHeaders() []string {
	return []string{"#", "Start", "End", "Length", "Source", "Title"}
}

func chapterTableAligns() []columnAlignment {
	return []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft}
}

func chapterTableRows(list chapters.List) [][]string {
	rows := make([][]string, 0, len(list))
	for _, chapter := range list {
		rows = append(rows, []string{
			strconv.Itoa(chapter.Index + 1),
			chapter.Start.Format(),
			chapter.End.Format(),
			formatSpan(chapter.Duration()),
			string(chapter.Source),
			chapter.Label,
		})
	}
	return rows
}

func runTableHeaders() []string {
	return []string{"ID", "Created", "Source", "Method", "Lang", "Chapters"}
}

func runTableRows(runs []*snapshot.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.SourcePath,
			run.Method,
			run.Language,
			strconv.Itoa(len(run.Chapters)),
		})
	}
	return rows
}

// shortID abbreviates a run UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSpan(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
