// Package text provides text normalization and URL extraction for inbound
// queries and outbound search terms.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	parensRegex     = regexp.MustCompile(`\([^(]*\)`)
	bracketsRegex   = regexp.MustCompile(`\[[^\[]*\]`)
)

// Normalize trims a query, applies NFKC normalization and collapses runs of
// whitespace. Search endpoints behave better on normalized input.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = norm.NFKC.String(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// StripQualifiers removes parenthetical and bracketed qualifiers such as
// "(Deluxe Edition)" or "[Remastered]" from a title. Used to build the
// relaxed second-stage search query when an exact query finds nothing.
func StripQualifiers(title string) string {
	title = parensRegex.ReplaceAllString(title, "")
	title = bracketsRegex.ReplaceAllString(title, "")
	return Normalize(title)
}

// FirstURL returns the first http(s) URL in the text, or "" if none.
func FirstURL(s string) string {
	match := urlRegex.FindString(s)
	return strings.TrimRight(match, ".,;:!?)")
}
