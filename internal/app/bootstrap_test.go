package app

import (
	"context"
	"testing"
	"time"
)

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll {
		t.Fatalf("mode want %s got %s", ModeAll, opts.Mode)
	}
	if opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout want 10s got %s", opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("logger should default to global sugared logger")
	}
}

func TestBuildRunnerRequiresConfig(t *testing.T) {
	if _, err := BuildRunner(Options{}); err == nil {
		t.Fatalf("expected error without config")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}
