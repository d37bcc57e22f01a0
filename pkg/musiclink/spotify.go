package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"tunebridge/pkg/text"
)

const (
	// spotifyName is the display label for Spotify.
	spotifyName = "Spotify"
	// defaultSpotifySearchLimit caps free-text search hits returned per query.
	defaultSpotifySearchLimit = 5
)

// spotifyCatalog is the subset of the Spotify Web API client used by the
// adapter. Narrowed to an interface so tests can substitute a fake catalog.
type spotifyCatalog interface {
	GetTrack(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullTrack, error)
	GetAlbum(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullAlbum, error)
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// SpotifyConfig holds Spotify Web API credentials for the adapter.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	SearchLimit  int
}

// SpotifyAdapter handles Spotify links through the Web API using the OAuth
// client-credentials flow. It is also the free-text search adapter.
type SpotifyAdapter struct {
	api         spotifyCatalog
	searchLimit int
}

// NewSpotifyAdapter creates a Spotify adapter authenticated with the
// client-credentials flow. Token refresh is handled by the oauth2 transport.
func NewSpotifyAdapter(ctx context.Context, cfg SpotifyConfig) *SpotifyAdapter {
	authConfig := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSpotifySearchLimit
	}

	return &SpotifyAdapter{
		api:         spotify.New(authConfig.Client(ctx)),
		searchLimit: limit,
	}
}

// ServiceName returns the Spotify display label.
func (s *SpotifyAdapter) ServiceName() string { return spotifyName }

// CanHandleLink reports whether the link is a Spotify link.
func (s *SpotifyAdapter) CanHandleLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.ToLower(u.Hostname()) == "open.spotify.com"
}

// LinkIsSong classifies a Spotify link: /track/ paths are songs, everything
// else (album links) is not.
func (s *SpotifyAdapter) LinkIsSong(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/track/")
}

// LinkToSong fetches track metadata for a Spotify track link.
func (s *SpotifyAdapter) LinkToSong(ctx context.Context, link string) (*Song, error) {
	id, err := spotifyIDFromLink(link)
	if err != nil {
		return nil, &ExtractionError{Service: spotifyName, Err: err}
	}

	track, err := s.api.GetTrack(ctx, id)
	if err != nil {
		return nil, &ExtractionError{Service: spotifyName, Err: err}
	}
	if track.Name == "" || len(track.Artists) == 0 {
		return nil, &ExtractionError{
			Service: spotifyName,
			Err:     errors.New("track response missing name or artists"),
		}
	}

	return &Song{
		Title:    track.Name,
		Artist:   track.Artists[0].Name,
		Album:    track.Album.Name,
		CoverArt: spotifyArt(track.Album.Images),
	}, nil
}

// LinkToAlbum fetches album metadata for a Spotify album link.
func (s *SpotifyAdapter) LinkToAlbum(ctx context.Context, link string) (*Album, error) {
	id, err := spotifyIDFromLink(link)
	if err != nil {
		return nil, &ExtractionError{Service: spotifyName, Err: err}
	}

	album, err := s.api.GetAlbum(ctx, id)
	if err != nil {
		return nil, &ExtractionError{Service: spotifyName, Err: err}
	}
	if album.Name == "" || len(album.Artists) == 0 {
		return nil, &ExtractionError{
			Service: spotifyName,
			Err:     errors.New("album response missing name or artists"),
		}
	}

	return &Album{
		Title:    album.Name,
		Artist:   album.Artists[0].Name,
		CoverArt: spotifyArt(album.Images),
	}, nil
}

// SongToLink searches Spotify for the song and returns the top result's
// external URL. A structured field query runs first; a relaxed plain query
// is tried once when the structured query matches nothing.
func (s *SpotifyAdapter) SongToLink(ctx context.Context, song *Song) (string, error) {
	track, err := s.searchTrack(ctx, structuredQuery(song.Artist, "track", song.Title))
	if errors.Is(err, ErrNoMatch) {
		track, err = s.searchTrack(ctx, formatQuery(text.StripQualifiers(song.Title), song.Artist))
	}
	if err != nil {
		return "", err
	}

	link, ok := track.ExternalURLs["spotify"]
	if !ok {
		return "", errors.New("track result has no spotify URL")
	}
	return link, nil
}

// AlbumToLink searches Spotify for the album and returns the top result's
// external URL, with the same two-stage query strategy as SongToLink.
func (s *SpotifyAdapter) AlbumToLink(ctx context.Context, album *Album) (string, error) {
	hit, err := s.searchAlbum(ctx, structuredQuery(album.Artist, "album", album.Title))
	if errors.Is(err, ErrNoMatch) {
		hit, err = s.searchAlbum(ctx, formatQuery(text.StripQualifiers(album.Title), album.Artist))
	}
	if err != nil {
		return "", err
	}

	link, ok := hit.ExternalURLs["spotify"]
	if !ok {
		return "", errors.New("album result has no spotify URL")
	}
	return link, nil
}

// Search implements the free-text Searcher capability: top track hits for a
// query, each returned as a song item.
func (s *SpotifyAdapter) Search(ctx context.Context, query string) ([]Item, error) {
	results, err := s.api.Search(ctx, text.Normalize(query), spotify.SearchTypeTrack, spotify.Limit(s.searchLimit))
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil {
		return nil, nil
	}

	items := make([]Item, 0, len(results.Tracks.Tracks))
	for i := range results.Tracks.Tracks {
		track := &results.Tracks.Tracks[i]
		if track.Name == "" || len(track.Artists) == 0 {
			continue
		}
		items = append(items, &Song{
			Title:    track.Name,
			Artist:   track.Artists[0].Name,
			Album:    track.Album.Name,
			CoverArt: spotifyArt(track.Album.Images),
		})
	}
	return items, nil
}

func (s *SpotifyAdapter) searchTrack(ctx context.Context, query string) (*spotify.FullTrack, error) {
	results, err := s.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, ErrNoMatch
	}
	return &results.Tracks.Tracks[0], nil
}

func (s *SpotifyAdapter) searchAlbum(ctx context.Context, query string) (*spotify.SimpleAlbum, error) {
	results, err := s.api.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(1))
	if err != nil {
		return nil, err
	}
	if results.Albums == nil || len(results.Albums.Albums) == 0 {
		return nil, ErrNoMatch
	}
	return &results.Albums.Albums[0], nil
}

// spotifyIDFromLink extracts the track or album ID from the last URL path
// segment, tolerating locale prefixes like /intl-de/.
func spotifyIDFromLink(link string) (spotify.ID, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("no ID in Spotify URL path %q", u.Path)
	}
	return spotify.ID(parts[len(parts)-1]), nil
}

// spotifyArt converts the first (largest) album image into cover art.
func spotifyArt(images []spotify.Image) *CoverArt {
	if len(images) == 0 {
		return nil
	}
	img := images[0]
	if img.URL == "" || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	return &CoverArt{URL: img.URL, Width: int(img.Width), Height: int(img.Height)}
}

// structuredQuery builds a fielded Spotify search query, e.g.
// artist:"Daft Punk" track:"One More Time".
func structuredQuery(artist, field, value string) string {
	return fmt.Sprintf("artist:%q %s:%q", artist, field, value)
}
