package detect

import (
	"context"
	"errors"
	"log/slog"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/media/pcm"
	"chapterize/internal/services"
	"chapterize/internal/transcribe"
)

// State names a pipeline stage.
type State string

const (
	StateEmbeddedLookup State = "embedded-lookup"
	StateMethodRunning  State = "method-running"
	StateMerged         State = "merged"
	StateEmitted        State = "emitted"
	StateFailed         State = "failed"
)

// Transition records one state change for inspection after a run.
type Transition struct {
	To   State
	Note string
}

// Pipeline drives one detection run: embedded lookup, then the configured
// strategy, then merging. It either returns a fully verified chapter list or
// a typed error, never a partial timeline.
type Pipeline struct {
	cfg      Config
	embedded *EmbeddedExtractor
	adapter  transcribe.Adapter
	spotter  *KeywordSpotter
	silence  *SilenceDetector
	hybrid   *HybridReconciler
	merger   *Merger
	logger   *slog.Logger

	// envelope is replaceable in tests.
	envelope func(ctx context.Context, path string) (pcm.Envelope, error)

	transitions []Transition
}

// NewPipeline validates the config and wires the strategy components. The
// keyword spotter is built for every method except silence-only.
func NewPipeline(cfg Config, adapter transcribe.Adapter, ffmpegBinary string, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      cfg,
		embedded: NewEmbeddedExtractor(logger),
		adapter:  adapter,
		silence:  NewSilenceDetector(cfg.SilenceThresholdDB, cfg.MinSilence, logger),
		merger:   NewMerger(cfg, logger),
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		envelope: func(ctx context.Context, path string) (pcm.Envelope, error) {
			return pcm.StreamEnvelope(ctx, ffmpegBinary, path, pcm.DefaultHop)
		},
	}

	if cfg.Method != MethodSilence {
		spotter, err := NewKeywordSpotter(cfg.Language, cfg.ExtraExclusions, cfg.MaxTokenGap, logger)
		if err != nil {
			return nil, err
		}
		p.spotter = spotter
		if cfg.Method == MethodHybrid {
			p.hybrid = NewHybridReconciler(cfg, adapter, spotter, logger)
		}
	}
	return p, nil
}

// Transitions returns the state history of the most recent Detect call.
func (p *Pipeline) Transitions() []Transition {
	return p.transitions
}

func (p *Pipeline) enter(log *slog.Logger, state State, note string) {
	p.transitions = append(p.transitions, Transition{To: state, Note: note})
	log.Debug("pipeline state", logging.String("state", string(state)), logging.String("note", note))
}

// Detect runs the full pipeline for one asset.
func (p *Pipeline) Detect(ctx context.Context, a *asset.Asset) (chapters.List, error) {
	p.transitions = nil
	ctx = services.WithAsset(ctx, a.Path)
	ctx = services.WithStrategy(ctx, string(p.cfg.Method))
	log := logging.WithContext(ctx, p.logger)

	p.enter(log, StateEmbeddedLookup, "")
	if a.ChapterCapable() {
		list, err := p.embedded.Extract(a)
		if err == nil {
			p.enter(log, StateEmitted, "embedded markers")
			return list, nil
		}
		if !services.Recoverable(err) {
			p.enter(log, StateFailed, err.Error())
			return nil, err
		}
		if errors.Is(err, services.ErrNotFound) {
			log.Debug("no embedded markers, falling through")
		} else {
			log.Warn("embedded marker read failed, falling through", logging.Error(err))
		}
	}

	p.enter(log, StateMethodRunning, string(p.cfg.Method))
	candidates, err := p.runMethod(ctx, a)
	if err != nil {
		p.enter(log, StateFailed, err.Error())
		return nil, err
	}

	list, err := p.merger.Merge(candidates, a.Duration)
	if err != nil {
		p.enter(log, StateFailed, err.Error())
		return nil, err
	}
	p.enter(log, StateMerged, "")
	p.enter(log, StateEmitted, "")
	return list, nil
}

func (p *Pipeline) runMethod(ctx context.Context, a *asset.Asset) ([]Candidate, error) {
	switch p.cfg.Method {
	case MethodKeyword:
		profile := transcribe.ProfileFull
		if p.cfg.VADFilter {
			profile = transcribe.ProfileVADGated
		}
		stream, err := p.adapter.Stream(ctx, transcribe.Request{
			Source:   a.Path,
			Language: p.cfg.Language,
			Profile:  profile,
		})
		if err != nil {
			return nil, err
		}
		return p.spotter.Scan(stream)

	case MethodSilence:
		env, err := p.envelope(ctx, a.Path)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "detect", "silence",
				"envelope decode failed", err)
		}
		return p.silence.Scan(env), nil

	case MethodHybrid:
		env, err := p.envelope(ctx, a.Path)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "detect", "hybrid",
				"envelope decode failed", err)
		}
		intervals := p.silence.Intervals(env)
		return p.hybrid.Reconcile(ctx, a, intervals)

	default:
		return nil, services.Wrap(services.ErrConfiguration, "detect", "pipeline",
			"unknown method "+string(p.cfg.Method), nil)
	}
}
