package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	t.Setenv("JOBBOARD_LOG_LEVEL", "error")
	t.Setenv("JOBBOARD_STORE_DRIVER", "sqlite")
	t.Setenv("JOBBOARD_STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "jobs.db"))
	t.Setenv("JOBBOARD_EVENTS_NATS_URL", "nats://127.0.0.1:1")
	t.Setenv("JOBBOARD_EVENTS_TIMEOUT", "200ms")

	err := run()
	if err == nil || !strings.Contains(err.Error(), "event publisher") {
		t.Fatalf("run() = %v, want an event publisher error", err)
	}
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	t.Setenv("JOBBOARD_LOG_LEVEL", "chatty")

	err := run()
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("run() = %v, want a log_level error", err)
	}
}
