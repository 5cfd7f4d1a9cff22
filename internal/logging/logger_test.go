package logging

import (
	"context"
	"testing"

	"chapterize/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewAcceptsFormats(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		if _, err := New(Options{Format: format}); err != nil {
			t.Errorf("New(format=%q) failed: %v", format, err)
		}
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithAsset(context.Background(), "/books/novel.m4b")
	ctx = services.WithStrategy(ctx, "hybrid")
	ctx = services.WithRunID(ctx, "abc-123")

	fields := ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	keys := map[string]bool{}
	for _, f := range fields {
		keys[f.Key] = true
	}
	for _, want := range []string{FieldAsset, FieldStrategy, FieldRunID} {
		if !keys[want] {
			t.Errorf("missing field %q", want)
		}
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("WithContext returned nil logger")
	}
	logger.Info("must not panic")
}
