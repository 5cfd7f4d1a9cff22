// Package splitter cuts an asset into per-chapter files with ffmpeg stream
// copy, carrying track metadata onto every piece.
package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmeta"
	"chapterize/internal/services"
)

// Options configure one split run.
type Options struct {
	// FFmpegBinary is the transcoder command; "ffmpeg" when empty.
	FFmpegBinary string
	// OutputDir receives the pieces; the source's directory when empty.
	OutputDir string
	// Metadata is stamped onto every piece alongside the track number and
	// chapter title.
	Metadata ffmeta.Metadata
	// ShowProgress renders a progress bar. Callers gate this on a TTY.
	ShowProgress bool
	// ExtractCover pulls embedded cover art into the output directory
	// alongside the pieces. Sources without art are skipped.
	ExtractCover bool
}

// Result describes the files one split produced.
type Result struct {
	// Pieces holds the chapter files in chapter order.
	Pieces []string
	// CoverPath is the extracted cover art, empty when the source carries
	// none.
	CoverPath string
}

// Splitter performs stream-copy splits. Safe for one run at a time per
// output directory, enforced with a file lock.
type Splitter struct {
	opts   Options
	logger *slog.Logger

	// commandRunner and extractCover are replaceable in tests.
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
	extractCover  func(ctx context.Context, ffmpegBinary, source, dest string) error
}

// New builds a splitter.
func New(opts Options, logger *slog.Logger) *Splitter {
	return &Splitter{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "splitter"),
		commandRunner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
			return cmd.CombinedOutput()
		},
		extractCover: ffmeta.ExtractCoverArt,
	}
}

// Split writes one file per chapter and returns their paths in chapter
// order. The chapter list must already be verified against the asset.
func (s *Splitter) Split(ctx context.Context, a *asset.Asset, list chapters.List) (*Result, error) {
	if len(list) == 0 {
		return nil, services.Wrap(services.ErrValidation, "splitter", "split", "empty chapter list", nil)
	}

	outputDir := s.opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(a.Path)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "splitter", "split", "create output directory", err)
	}

	stem := strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))

	lock := flock.New(filepath.Join(outputDir, "."+stem+".chapterize.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "splitter", "split", "acquire work lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "splitter", "split",
			"another split is already running for this output", nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	var bar *progressbar.ProgressBar
	if s.opts.ShowProgress {
		bar = progressbar.NewOptions(len(list),
			progressbar.OptionSetDescription("splitting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	outputs := make([]string, 0, len(list))
	for _, chapter := range list {
		dest := filepath.Join(outputDir, pieceName(stem, chapter, filepath.Ext(a.Path)))
		if err := s.cutChapter(ctx, a.Path, dest, chapter, len(list)); err != nil {
			return nil, err
		}
		outputs = append(outputs, dest)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := verifyOutputs(outputs, len(list)); err != nil {
		return nil, err
	}

	result := &Result{Pieces: outputs}
	if s.opts.ExtractCover {
		dest := filepath.Join(outputDir, "cover.jpg")
		if err := s.extractCover(ctx, s.ffmpegBinary(), a.Path, dest); err != nil {
			s.logger.Debug("no cover art extracted", logging.Error(err))
		} else {
			result.CoverPath = dest
		}
	}

	s.logger.Info("split complete",
		logging.Int("chapters", len(outputs)),
		logging.String("output_dir", outputDir))
	return result, nil
}

func (s *Splitter) ffmpegBinary() string {
	if s.opts.FFmpegBinary != "" {
		return s.opts.FFmpegBinary
	}
	return "ffmpeg"
}

func (s *Splitter) cutChapter(ctx context.Context, source, dest string, chapter chapters.Chapter, total int) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", chapter.Start.Format(),
		"-to", chapter.End.Format(),
		"-i", source,
		"-map", "0:a",
		"-c", "copy",
		"-metadata", fmt.Sprintf("track=%d/%d", chapter.Index+1, total),
		"-metadata", fmt.Sprintf("title=%s", chapter.Label),
	}
	args = append(args, s.opts.Metadata.FFmpegArgs()...)
	args = append(args, dest)

	output, err := s.commandRunner(ctx, s.ffmpegBinary(), args...)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "splitter", "split",
			fmt.Sprintf("cut chapter %d: %s", chapter.Index+1, strings.TrimSpace(string(output))), err)
	}
	return nil
}

// pieceName builds "<stem> NN - <label><ext>" with the label made filesystem
// safe.
func pieceName(stem string, chapter chapters.Chapter, ext string) string {
	return fmt.Sprintf("%s %02d - %s%s", stem, chapter.Index+1, sanitizeLabel(chapter.Label), ext)
}

func sanitizeLabel(label string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, label)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "Untitled"
	}
	return cleaned
}

// verifyOutputs checks every expected piece landed on disk with content.
func verifyOutputs(outputs []string, want int) error {
	if len(outputs) != want {
		return services.Wrap(services.ErrInvariant, "splitter", "verify",
			fmt.Sprintf("produced %d pieces, expected %d", len(outputs), want), nil)
	}
	for _, path := range outputs {
		info, err := os.Stat(path)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "splitter", "verify",
				fmt.Sprintf("missing output %s", filepath.Base(path)), err)
		}
		if info.Size() == 0 {
			return services.Wrap(services.ErrExternalTool, "splitter", "verify",
				fmt.Sprintf("empty output %s", filepath.Base(path)), nil)
		}
	}
	return nil
}
