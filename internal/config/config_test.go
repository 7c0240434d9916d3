package config

import (
	"errors"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/lazyreg/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("lazyreg", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", cfg.Iterations, DefaultIterations)
	}
	if cfg.Sink != DefaultSink {
		t.Errorf("Sink = %q, want %q", cfg.Sink, DefaultSink)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	args := []string{
		"-workers", "8",
		"-iterations", "50",
		"-keys", "2",
		"-failures", "1",
		"-timeout", "5s",
		"-sink", "buffer",
		"-q",
	}
	cfg, err := ParseConfig("lazyreg", args, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Workers != 8 || cfg.Iterations != 50 || cfg.Keys != 2 || cfg.Failures != 1 {
		t.Errorf("numeric flags not applied: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Sink != "buffer" || !cfg.Quiet {
		t.Errorf("string/bool flags not applied: %+v", cfg)
	}
}

func TestParseConfig_OutputFlag(t *testing.T) {
	cfg, err := ParseConfig("lazyreg", []string{"-output", "/tmp/report.txt"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Output != "/tmp/report.txt" {
		t.Errorf("Output = %q, want \"/tmp/report.txt\"", cfg.Output)
	}

	t.Setenv(EnvPrefix+"OUTPUT", "/tmp/env.txt")
	cfg, err = ParseConfig("lazyreg", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Output != "/tmp/env.txt" {
		t.Errorf("Output = %q, want env override \"/tmp/env.txt\"", cfg.Output)
	}
}

func TestParseConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvPrefix+"WORKERS", "3")
	t.Setenv(EnvPrefix+"SINK", "stderr")

	cfg, err := ParseConfig("lazyreg", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want env override 3", cfg.Workers)
	}
	if cfg.Sink != "stderr" {
		t.Errorf("Sink = %q, want env override \"stderr\"", cfg.Sink)
	}
}

func TestParseConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"WORKERS", "3")

	cfg, err := ParseConfig("lazyreg", []string{"-workers", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("Workers = %d, want CLI value 7", cfg.Workers)
	}
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero workers", []string{"-workers", "0"}},
		{"negative iterations", []string{"-iterations", "-1"}},
		{"zero keys", []string{"-keys", "0"}},
		{"negative failures", []string{"-failures", "-2"}},
		{"unknown sink", []string{"-sink", "nats"}},
		{"file sink without path", []string{"-sink", "file"}},
		{"tui with quiet", []string{"-tui", "-quiet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig("lazyreg", tt.args, io.Discard); err == nil {
				t.Errorf("ParseConfig(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestParseConfig_ValidationErrorType(t *testing.T) {
	_, err := ParseConfig("lazyreg", []string{"-workers", "0"}, io.Discard)

	var ve apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if ve.Field != "workers" {
		t.Errorf("Field = %q, want %q", ve.Field, "workers")
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		val      string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.val, tt.fallback); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.val, tt.fallback, got, tt.want)
		}
	}
}
