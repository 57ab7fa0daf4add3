package logger

import (
	"bytes"
	"os"
	"testing"
)

// capture redirects the logger into a buffer and restores defaults when
// the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose on after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("embedding batch %d", 7)

	if got := buf.String(); got != "[DEBUG] embedding batch 7\n" {
		t.Errorf("unexpected debug output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("embedding batch %d", 7)

	if buf.Len() > 0 {
		t.Errorf("expected no output without verbose, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Vectorize")

	if got := buf.String(); got != "\n=== Vectorize ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestSection_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Section("Vectorize")

	if buf.Len() > 0 {
		t.Errorf("expected no output without verbose, got %q", buf.String())
	}
}

func TestInfo(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Info("stored %d chunks", 42)

	if got := buf.String(); got != "[INFO] stored 42 chunks\n" {
		t.Errorf("unexpected info output: %q", got)
	}
}

func TestWarn(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Warn("batch 3 failed, rows stay zero")

	if got := buf.String(); got != "[WARN] batch 3 failed, rows stay zero\n" {
		t.Errorf("unexpected warn output: %q", got)
	}
}

func TestWarn_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Warn("batch 3 failed, rows stay zero")

	if got := buf.String(); got != "[WARN] batch 3 failed, rows stay zero\n" {
		t.Errorf("expected warning without verbose, got %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("worker %d", i)
			IsVerbose()
			Warn("worker %d", i)
			SetVerbose(false)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
