package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunFlushesTracesOnStartupError(t *testing.T) {
	t.Setenv("DB_URL", "postgres://%zz")

	flushed := false
	orig := setupTracing
	setupTracing = func(context.Context, string, string) (func(context.Context) error, error) {
		return func(context.Context) error {
			flushed = true
			return nil
		}, nil
	}
	defer func() { setupTracing = orig }()

	err := run()
	if err == nil || !strings.HasPrefix(err.Error(), "database:") {
		t.Fatalf("Expected database error, got %v", err)
	}
	if !flushed {
		t.Error("Expected trace provider to be shut down")
	}
}

func TestRunRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	called := false
	orig := setupTracing
	setupTracing = func(context.Context, string, string) (func(context.Context) error, error) {
		called = true
		return func(context.Context) error { return nil }, nil
	}
	defer func() { setupTracing = orig }()

	if err := run(); err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("Expected config error, got %v", err)
	}
	if called {
		t.Error("Tracing must not start without a valid config")
	}
}
