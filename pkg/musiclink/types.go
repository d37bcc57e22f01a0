// Package musiclink provides cross-service music link resolution: recognizing
// which streaming service a link belongs to, extracting canonical metadata
// from it, and finding equivalent links on every other configured service.
package musiclink

import (
	"errors"
	"fmt"
)

// CoverArt describes an album or track artwork image.
type CoverArt struct {
	URL    string
	Width  int
	Height int
}

// Song holds canonical track metadata extracted from a music service.
// Album may be empty when the source service does not expose it.
type Song struct {
	Title    string
	Artist   string
	Album    string
	CoverArt *CoverArt
}

// Display renders the song for presentation, "<artist> — <title>".
func (s *Song) Display() string {
	return fmt.Sprintf("%s — %s", s.Artist, s.Title)
}

// Art returns the song's cover art, if any.
func (s *Song) Art() *CoverArt { return s.CoverArt }

func (s *Song) item() {}

// Album holds canonical album metadata extracted from a music service.
// Artist may be empty only for albums derived from a YouTube playlist,
// where the uploader is not a reliable artist name.
type Album struct {
	Title    string
	Artist   string
	CoverArt *CoverArt
}

// Display renders the album for presentation, "<title> by <artist>".
func (a *Album) Display() string {
	return fmt.Sprintf("%s by %s", a.Title, a.Artist)
}

// Art returns the album's cover art, if any.
func (a *Album) Art() *CoverArt { return a.CoverArt }

func (a *Album) item() {}

// Item is the resolved metadata variant: either *Song or *Album. The item()
// marker keeps the set closed so branching code is a two-case type switch.
type Item interface {
	Display() string
	Art() *CoverArt
	item()
}

// ServiceLink is one service's equivalent link for a resolved item.
type ServiceLink struct {
	Service string
	URL     string
}

// Result combines a resolved item with the per-service links found for it.
// Links are in adapter iteration order; an empty slice is a valid outcome.
type Result struct {
	Item  Item
	Links []ServiceLink
}

var (
	// ErrUnsupportedLink indicates no configured adapter recognizes the link.
	// This is a normal outcome, not a failure.
	ErrUnsupportedLink = errors.New("no service recognizes this link")

	// ErrNoMatch indicates a reciprocal search returned zero results.
	ErrNoMatch = errors.New("no matching results")
)

// ExtractionError indicates a recognized link whose metadata could not be
// extracted: the remote call failed, the response was malformed, or a
// required field was absent.
type ExtractionError struct {
	Service string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: extracting metadata: %v", e.Service, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
