package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/lazyreg/internal/stress"
	"github.com/agbru/lazyreg/internal/ui"
)

func sampleResult() stress.Result {
	return stress.Result{
		Snapshot: stress.Snapshot{
			Gets:          2000,
			Constructions: 2,
			Failures:      4,
		},
		ExpectedConstructions: 2,
		ExpectedFailures:      4,
		Elapsed:               125 * time.Millisecond,
	}
}

func TestFormatQuietResult(t *testing.T) {
	got := FormatQuietResult(sampleResult())
	want := "gets=2000 constructions=2 failures=4 violations=0 elapsed=125ms"
	if got != want {
		t.Errorf("FormatQuietResult() = %q, want %q", got, want)
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	original := ui.GetCurrentTheme()
	ui.SetTheme("none")
	defer ui.SetCurrentTheme(original)

	t.Run("quiet mode", func(t *testing.T) {
		var out bytes.Buffer
		err := DisplayResultWithConfig(&out, sampleResult(), OutputConfig{Quiet: true})
		if err != nil {
			t.Fatalf("DisplayResultWithConfig() error = %v", err)
		}
		if got := strings.Count(out.String(), "\n"); got != 1 {
			t.Errorf("quiet output has %d lines, want 1:\n%s", got, out.String())
		}
		if !strings.Contains(out.String(), "gets=2000") {
			t.Errorf("quiet output missing counters: %s", out.String())
		}
	})

	t.Run("standard mode", func(t *testing.T) {
		var out bytes.Buffer
		err := DisplayResultWithConfig(&out, sampleResult(), OutputConfig{})
		if err != nil {
			t.Fatalf("DisplayResultWithConfig() error = %v", err)
		}
		if !strings.Contains(out.String(), "Stress Run Summary") {
			t.Errorf("output missing summary: %s", out.String())
		}
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results", "run.txt")
		var out bytes.Buffer
		err := DisplayResultWithConfig(&out, sampleResult(), OutputConfig{OutputFile: path})
		if err != nil {
			t.Fatalf("DisplayResultWithConfig() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading result file: %v", err)
		}
		if !strings.Contains(string(data), "# Lazy Registry Stress Result") {
			t.Errorf("file missing header:\n%s", data)
		}
		if !strings.Contains(string(data), "gets=2000") {
			t.Errorf("file missing counters:\n%s", data)
		}
		if !strings.Contains(out.String(), "Result saved to") {
			t.Errorf("output missing save confirmation: %s", out.String())
		}
	})
}

func TestWriteResultToFileNoPath(t *testing.T) {
	if err := WriteResultToFile(sampleResult(), OutputConfig{}); err != nil {
		t.Errorf("WriteResultToFile() with empty path error = %v", err)
	}
}
