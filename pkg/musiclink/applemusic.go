package musiclink

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tunebridge/pkg/text"
)

const (
	// iTunesSearchURL is the iTunes/Apple Music catalog search endpoint.
	iTunesSearchURL = "https://itunes.apple.com/search"
	// appleMusicName is the display label for Apple Music.
	appleMusicName = "Apple Music"

	defaultSearchCountry = "US"
	defaultSearchLang    = "en_us"
	defaultSearchLimit   = 50
	searchAPIVersion     = "2"
)

// iTunesSearchResponse is the iTunes search API response envelope.
type iTunesSearchResponse struct {
	ResultCount int                  `json:"resultCount"`
	Results     []iTunesSearchResult `json:"results"`
}

// iTunesSearchResult is a single search hit; only the view URLs are used.
type iTunesSearchResult struct {
	TrackViewURL      string `json:"trackViewUrl"`
	CollectionViewURL string `json:"collectionViewUrl"`
}

// appleMusicSchema is the subset of the ld+json block embedded in Apple
// Music pages that extraction relies on.
type appleMusicSchema struct {
	Name     string `json:"name"`
	ByArtist struct {
		Name string `json:"name"`
	} `json:"byArtist"`
}

// AppleMusicConfig holds catalog search parameters for the Apple Music adapter.
type AppleMusicConfig struct {
	Country     string
	Language    string
	SearchLimit int
}

// AppleMusicAdapter handles Apple Music links. Reciprocal lookup goes through
// the iTunes search API; metadata extraction scrapes the public page, which
// embeds an ld+json metadata block and OpenGraph tags.
type AppleMusicAdapter struct {
	client    *http.Client
	searchURL string
	country   string
	lang      string
	limit     int
}

// NewAppleMusicAdapter creates an Apple Music adapter.
func NewAppleMusicAdapter(cfg AppleMusicConfig) *AppleMusicAdapter {
	country := cfg.Country
	if country == "" {
		country = defaultSearchCountry
	}
	lang := cfg.Language
	if lang == "" {
		lang = defaultSearchLang
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return &AppleMusicAdapter{
		client:    newHTTPClient(),
		searchURL: iTunesSearchURL,
		country:   country,
		lang:      lang,
		limit:     limit,
	}
}

// ServiceName returns the Apple Music display label.
func (a *AppleMusicAdapter) ServiceName() string { return appleMusicName }

// CanHandleLink reports whether the link is an Apple Music link.
func (a *AppleMusicAdapter) CanHandleLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	// Support both music.apple.com and legacy itunes.apple.com.
	return hostname == "music.apple.com" || hostname == "itunes.apple.com"
}

// LinkIsSong classifies an Apple Music link: song links carry an ?i= track
// parameter or a /song/ path segment, album links do not.
func (a *AppleMusicAdapter) LinkIsSong(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Query().Get("i") != "" {
		return true
	}
	return strings.Contains(u.Path, "/song/")
}

// LinkToSong scrapes an Apple Music song page into canonical song metadata.
func (a *AppleMusicAdapter) LinkToSong(ctx context.Context, link string) (*Song, error) {
	page, err := fetchHTML(ctx, a.client, link, appleMusicName)
	if err != nil {
		return nil, &ExtractionError{Service: appleMusicName, Err: err}
	}

	var schema appleMusicSchema
	if err := extractLDJSON(page, &schema); err != nil {
		return nil, &ExtractionError{Service: appleMusicName, Err: err}
	}
	artist := html.UnescapeString(schema.ByArtist.Name)
	album := html.UnescapeString(schema.Name)

	title := a.extractSongTitle(page, artist)
	if title == "" || artist == "" {
		return nil, &ExtractionError{
			Service: appleMusicName,
			Err:     errors.New("song title or artist missing from page"),
		}
	}

	return &Song{
		Title:    title,
		Artist:   artist,
		Album:    album,
		CoverArt: extractOpenGraphArt(page),
	}, nil
}

// LinkToAlbum scrapes an Apple Music album page into canonical album metadata.
func (a *AppleMusicAdapter) LinkToAlbum(ctx context.Context, link string) (*Album, error) {
	page, err := fetchHTML(ctx, a.client, link, appleMusicName)
	if err != nil {
		return nil, &ExtractionError{Service: appleMusicName, Err: err}
	}

	var schema appleMusicSchema
	if err := extractLDJSON(page, &schema); err != nil {
		return nil, &ExtractionError{Service: appleMusicName, Err: err}
	}

	title := html.UnescapeString(schema.Name)
	artist := html.UnescapeString(schema.ByArtist.Name)
	if title == "" || artist == "" {
		return nil, &ExtractionError{
			Service: appleMusicName,
			Err:     errors.New("album title or artist missing from ld+json block"),
		}
	}

	return &Album{
		Title:    title,
		Artist:   artist,
		CoverArt: extractOpenGraphArt(page),
	}, nil
}

// SongToLink searches the iTunes catalog for the song and returns the top
// result's track URL.
func (a *AppleMusicAdapter) SongToLink(ctx context.Context, song *Song) (string, error) {
	result, err := a.search(ctx, formatQuery(song.Title, song.Artist), "song")
	if errors.Is(err, ErrNoMatch) {
		// Relaxed retry on empty results only.
		result, err = a.search(ctx, formatQuery(text.StripQualifiers(song.Title), song.Artist), "song")
	}
	if err != nil {
		return "", err
	}
	return result.TrackViewURL, nil
}

// AlbumToLink searches the iTunes catalog for the album and returns the top
// result's collection URL.
func (a *AppleMusicAdapter) AlbumToLink(ctx context.Context, album *Album) (string, error) {
	result, err := a.search(ctx, formatQuery(album.Title, album.Artist), "album")
	if errors.Is(err, ErrNoMatch) {
		result, err = a.search(ctx, formatQuery(text.StripQualifiers(album.Title), album.Artist), "album")
	}
	if err != nil {
		return "", err
	}
	return result.CollectionViewURL, nil
}

// search queries the iTunes search API for one entity kind and returns the
// top hit, or ErrNoMatch when the catalog has nothing.
func (a *AppleMusicAdapter) search(ctx context.Context, term, entity string) (*iTunesSearchResult, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("country", a.country)
	params.Set("limit", strconv.Itoa(a.limit))
	params.Set("lang", a.lang)
	params.Set("version", searchAPIVersion)
	params.Set("media", "music")
	params.Set("entity", entity)
	params.Set("explicit", "Yes")

	var resp iTunesSearchResponse
	if err := getJSON(ctx, a.client, a.searchURL, params, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCount < 1 || len(resp.Results) == 0 {
		return nil, ErrNoMatch
	}
	return &resp.Results[0], nil
}

// extractSongTitle pulls the track title out of the page's OpenGraph title
// region, "<track> by <artist> on Apple Music".
func (a *AppleMusicAdapter) extractSongTitle(page, artist string) string {
	title := extractMetaContent(page, "og:title")
	if title == "" {
		return ""
	}

	title = strings.TrimSuffix(title, " on Apple Music")
	if artist != "" {
		title = strings.TrimSuffix(title, " by "+artist)
	}
	return strings.TrimSpace(title)
}

// extractOpenGraphArt builds cover art from og:image tags, if complete.
func extractOpenGraphArt(page string) *CoverArt {
	imageURL := extractMetaContent(page, "og:image")
	if imageURL == "" {
		return nil
	}

	width, errW := strconv.Atoi(extractMetaContent(page, "og:image:width"))
	height, errH := strconv.Atoi(extractMetaContent(page, "og:image:height"))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return nil
	}

	return &CoverArt{URL: imageURL, Width: width, Height: height}
}

// formatQuery builds the plain "<title> <artist>" search term.
func formatQuery(title, artist string) string {
	return fmt.Sprintf("%s %s", title, artist)
}
