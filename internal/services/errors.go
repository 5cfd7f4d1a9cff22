package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks collaborator failures: ffmpeg, ffprobe, or the
	// speech engine unavailable or crashing mid-stream.
	ErrExternalTool = errors.New("external tool error")
	// ErrNoSignal marks a strategy that ran to completion but produced zero
	// surviving boundary candidates.
	ErrNoSignal = errors.New("no detectable chapter signal")
	// ErrInvariant marks an internal defect: a merged chapter timeline that
	// fails its contiguity checks. Never auto-corrected.
	ErrInvariant = errors.New("chapter invariant violation")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks an absent optional resource, e.g. a chapter-capable
	// container without embedded markers. Distinct from a read failure.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether an error should fall through to the next
// configured detection strategy rather than abort the run. Embedded-lookup
// misses, collaborator failures, and no-signal results all continue down the
// method chain; invariant violations and bad input never do.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSignal) || errors.Is(err, ErrExternalTool)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
