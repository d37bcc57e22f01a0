package i18n

import (
	"strings"
	"testing"
)

func TestLocalizer_T(t *testing.T) {
	tests := []struct {
		name     string
		language string
		key      string
		contains string
	}{
		{
			name:     "English help text",
			language: "en",
			key:      "help.start",
			contains: "inline mode",
		},
		{
			name:     "German help text",
			language: "de",
			key:      "help.start",
			contains: "Inline-Modus",
		},
		{
			name:     "Unknown language falls back to English",
			language: "fr",
			key:      "help.start",
			contains: "inline mode",
		},
		{
			name:     "Unknown key returns the key",
			language: "en",
			key:      "no.such.key",
			contains: "no.such.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			localizer := NewLocalizer(tt.language)
			got := localizer.T(tt.key)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("T(%q) = %q, want it to contain %q", tt.key, got, tt.contains)
			}
		})
	}
}

func TestLocalizer_EmptyLanguageDefaults(t *testing.T) {
	localizer := NewLocalizer("")
	if got := localizer.T("help.start"); got == "help.start" {
		t.Error("T() returned the key; want the English default message")
	}
}
