package detect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/transcribe"
)

// HybridReconciler confirms silence evidence with bounded transcription.
// Work scales with the silence interval count, not the asset duration: one
// transcription per interval, each at most twice the margin long.
type HybridReconciler struct {
	adapter      transcribe.Adapter
	spotter      *KeywordSpotter
	margin       time.Duration
	workers      int
	failureRatio float64
	strict       bool
	logger       *slog.Logger
}

// NewHybridReconciler wires the reconciler from a validated config.
func NewHybridReconciler(cfg Config, adapter transcribe.Adapter, spotter *KeywordSpotter, logger *slog.Logger) *HybridReconciler {
	return &HybridReconciler{
		adapter:      adapter,
		spotter:      spotter,
		margin:       cfg.HybridMargin,
		workers:      cfg.HybridWorkers,
		failureRatio: cfg.HybridFailureRatio,
		strict:       cfg.HybridStrict,
		logger:       logging.NewComponentLogger(logger, "hybrid-reconciler"),
	}
}

type windowResult struct {
	candidates []Candidate
	err        error
}

// Reconcile transcribes a window around each silence interval's midpoint and
// spots announcements in it. A confirmed interval upgrades to the keyword
// tier with the matched label; an unconfirmed one survives at the silence
// tier unless strict mode drops it. Window failures drop that interval only,
// until the failure ratio ceiling fails the whole run.
func (r *HybridReconciler) Reconcile(ctx context.Context, a *asset.Asset, intervals []Interval) ([]Candidate, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	results := make([]windowResult, len(intervals))
	jobs := make(chan int)

	workers := r.workers
	if workers > len(intervals) {
		workers = len(intervals)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.inspectWindow(ctx, a, intervals[idx])
			}
		}()
	}
	for idx := range intervals {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var candidates []Candidate
	failures := 0
	var firstErr error
	for idx, result := range results {
		if result.err != nil {
			failures++
			if firstErr == nil {
				firstErr = result.err
			}
			r.logger.Warn("window transcription failed, dropping interval",
				logging.String("midpoint", intervals[idx].Midpoint().Format()),
				logging.Error(result.err))
			continue
		}
		if len(result.candidates) > 0 {
			candidates = append(candidates, bestCandidate(result.candidates))
			continue
		}
		if !r.strict {
			candidates = append(candidates, Candidate{
				At:         intervals[idx].Midpoint(),
				Source:     chapters.SourceSilence,
				Confidence: ConfidenceSilence,
			})
		}
	}

	if failures > 0 && float64(failures)/float64(len(intervals)) > r.failureRatio {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "hybrid",
			fmt.Sprintf("%d of %d windows failed", failures, len(intervals)), firstErr)
	}
	return candidates, nil
}

func (r *HybridReconciler) inspectWindow(ctx context.Context, a *asset.Asset, iv Interval) windowResult {
	start, length := a.WindowAround(iv.Midpoint(), r.margin)
	stream, err := r.adapter.Stream(ctx, transcribe.Request{
		Source:   a.Path,
		Language: r.spotter.Language(),
		Profile:  transcribe.ProfileFull,
		Window:   &transcribe.Span{Start: start, Length: length},
	})
	if err != nil {
		return windowResult{err: err}
	}
	candidates, err := r.spotter.Scan(stream)
	if err != nil {
		return windowResult{err: err}
	}
	return windowResult{candidates: candidates}
}

func bestCandidate(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best
}
