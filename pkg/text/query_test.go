package text

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Trims and collapses whitespace", input: "  one   more\ttime ", expected: "one more time"},
		{name: "Newlines collapse", input: "one\nmore\ntime", expected: "one more time"},
		{name: "Fullwidth characters fold", input: "ＡＢＣ", expected: "ABC"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripQualifiers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Parenthetical removed", input: "Song X (Live at Budokan)", expected: "Song X"},
		{name: "Bracketed removed", input: "Song X [Remastered]", expected: "Song X"},
		{name: "Multiple qualifiers", input: "Song X (Deluxe) [2009]", expected: "Song X"},
		{name: "No qualifiers untouched", input: "Song X", expected: "Song X"},
		{name: "Interior parenthetical", input: "Song (feat. Y) X", expected: "Song X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripQualifiers(tt.input); got != tt.expected {
				t.Errorf("StripQualifiers(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFirstURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Bare URL",
			input:    "https://open.spotify.com/track/abc",
			expected: "https://open.spotify.com/track/abc",
		},
		{
			name:     "URL inside text",
			input:    "check this out https://youtu.be/xyz please",
			expected: "https://youtu.be/xyz",
		},
		{
			name:     "Trailing punctuation stripped",
			input:    "see https://youtu.be/xyz.",
			expected: "https://youtu.be/xyz",
		},
		{name: "No URL", input: "one more time daft punk", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstURL(tt.input); got != tt.expected {
				t.Errorf("FirstURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
