package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := fmt.Errorf("exit status 1")
	err := Wrap(ErrExternalTool, "whisper", "transcribe", "engine crashed", inner)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("wrapped error does not match marker: %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("wrapped error lost inner cause: %v", err)
	}
	want := "external tool error: whisper: transcribe: engine crashed: exit status 1"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "silence", "scan", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Errorf("nil marker should default to ErrExternalTool, got %v", err)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", Wrap(ErrNotFound, "embedded", "lookup", "no markers", nil), true},
		{"no signal", Wrap(ErrNoSignal, "keyword", "scan", "zero candidates", nil), true},
		{"external tool", Wrap(ErrExternalTool, "ffprobe", "inspect", "crashed", nil), true},
		{"invariant", Wrap(ErrInvariant, "merger", "verify", "gap detected", nil), false},
		{"validation", Wrap(ErrValidation, "config", "check", "bad threshold", nil), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recoverable(tt.err); got != tt.want {
				t.Errorf("Recoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
