package musiclink

import (
	"context"
)

// Adapter is the per-service capability set. Every operation is independently
// fallible; the Resolver treats a failed call as "this service has no answer"
// rather than a request-level error, so one service being down or changed
// never prevents the others from answering.
type Adapter interface {
	// ServiceName returns the constant display label for the service.
	ServiceName() string

	// CanHandleLink reports whether the link belongs to this service.
	// Pure predicate on URL host/path; performs no network I/O.
	CanHandleLink(link string) bool

	// LinkIsSong classifies a link as song (true) or album (false) from its
	// URL shape alone; performs no network I/O.
	LinkIsSong(link string) bool

	// LinkToSong fetches and parses the link into canonical song metadata.
	LinkToSong(ctx context.Context, link string) (*Song, error)

	// LinkToAlbum fetches and parses the link into canonical album metadata.
	LinkToAlbum(ctx context.Context, link string) (*Album, error)

	// SongToLink searches the service for the song and returns the top
	// result's canonical URL, or ErrNoMatch.
	SongToLink(ctx context.Context, song *Song) (string, error)

	// AlbumToLink searches the service for the album and returns the top
	// result's canonical URL, or ErrNoMatch.
	AlbumToLink(ctx context.Context, album *Album) (string, error)
}

// Searcher is the optional free-text search capability. The Resolver uses
// the first configured adapter that implements it.
type Searcher interface {
	// Search returns items matching a free-text query, best match first.
	Search(ctx context.Context, query string) ([]Item, error)
}
