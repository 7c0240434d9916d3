package ui

import "testing"

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	tests := []struct {
		name     string
		theme    string
		wantName string
	}{
		{"Dark", "dark", "dark"},
		{"Light", "light", "light"},
		{"None", "none", "none"},
		{"Unknown defaults to dark", "solarized", "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.theme)
			if got := GetCurrentTheme().Name; got != tt.wantName {
				t.Errorf("GetCurrentTheme().Name = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestInitThemeRespectsNoColor(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	t.Run("flag disables colors", func(t *testing.T) {
		InitTheme(true)
		if got := GetCurrentTheme().Name; got != "none" {
			t.Errorf("theme = %q, want %q", got, "none")
		}
		if ColorError() != "" {
			t.Error("ColorError() should be empty with colors disabled")
		}
	})

	t.Run("NO_COLOR env disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if got := GetCurrentTheme().Name; got != "none" {
			t.Errorf("theme = %q, want %q", got, "none")
		}
	})
}

func TestGetCurrentTUITheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	SetTheme("none")
	if got := GetCurrentTUITheme(); got != NoColorTUITheme {
		t.Error("expected NoColorTUITheme when colors are disabled")
	}

	SetTheme("dark")
	if got := GetCurrentTUITheme(); got != DarkTUITheme {
		t.Error("expected DarkTUITheme for the dark theme")
	}
}
