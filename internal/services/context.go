package services

import "context"

type contextKey string

const (
	assetKey    contextKey = "asset"
	strategyKey contextKey = "strategy"
	runIDKey    contextKey = "run_id"
)

// WithAsset annotates context with the audio asset path under detection.
func WithAsset(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, assetKey, path)
}

// AssetFromContext extracts the asset path if present.
func AssetFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(assetKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithStrategy annotates context with the active detection strategy name.
func WithStrategy(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, strategyKey, name)
}

// StrategyFromContext returns the strategy name if present.
func StrategyFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(strategyKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with a detection run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
