package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const (
	// youTubeSearchURL is the YouTube Data API v3 search endpoint.
	youTubeSearchURL = "https://www.googleapis.com/youtube/v3/search"
	// youTubePlaylistsURL is the YouTube Data API v3 playlists endpoint.
	youTubePlaylistsURL = "https://www.googleapis.com/youtube/v3/playlists"
	// youTubeOEmbedURL is the YouTube oEmbed endpoint used for song metadata.
	youTubeOEmbedURL = "https://www.youtube.com/oembed"
	// youTubeName is the display label for YouTube.
	youTubeName = "YouTube"
)

// youTubeSearchResponse is the Data API search/playlists response envelope.
type youTubeSearchResponse struct {
	Items []youTubeItem `json:"items"`
}

// youTubeItem is a single Data API item; search results carry IDs, playlist
// lookups carry a snippet.
type youTubeItem struct {
	ID struct {
		VideoID    string `json:"videoId"`
		PlaylistID string `json:"playlistId"`
	} `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
}

// youTubeOEmbedResponse is the oEmbed response for a watch page.
type youTubeOEmbedResponse struct {
	Title           string `json:"title"`
	AuthorName      string `json:"author_name"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
}

// YouTubeConfig holds the Data API key for the YouTube adapter.
type YouTubeConfig struct {
	APIKey string
}

// YouTubeAdapter handles YouTube links. Videos are songs, playlists stand in
// for albums. Song metadata comes from the oEmbed endpoint since the Data
// API does not expose track credits; playlist-derived albums keep an empty
// artist because the uploader is not a reliable artist name.
type YouTubeAdapter struct {
	client       *http.Client
	apiKey       string
	searchURL    string
	playlistsURL string
	oembedURL    string
}

// NewYouTubeAdapter creates a YouTube adapter.
func NewYouTubeAdapter(cfg YouTubeConfig) *YouTubeAdapter {
	return &YouTubeAdapter{
		client:       newHTTPClient(),
		apiKey:       cfg.APIKey,
		searchURL:    youTubeSearchURL,
		playlistsURL: youTubePlaylistsURL,
		oembedURL:    youTubeOEmbedURL,
	}
}

// ServiceName returns the YouTube display label.
func (y *YouTubeAdapter) ServiceName() string { return youTubeName }

// CanHandleLink reports whether the link is a YouTube link.
func (y *YouTubeAdapter) CanHandleLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return true
	}
	return false
}

// LinkIsSong classifies a YouTube link: watch pages are songs, playlists are
// albums. Short youtu.be links always point at a single video.
func (y *YouTubeAdapter) LinkIsSong(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	if strings.ToLower(u.Hostname()) == "youtu.be" {
		return true
	}
	return u.Path == "/watch"
}

// LinkToSong fetches watch-page metadata through the oEmbed endpoint and
// parses title and artist out of it.
func (y *YouTubeAdapter) LinkToSong(ctx context.Context, link string) (*Song, error) {
	videoID, err := y.videoID(link)
	if err != nil {
		return nil, &ExtractionError{Service: youTubeName, Err: err}
	}

	params := url.Values{}
	params.Set("url", videoLink(videoID))
	params.Set("format", "json")

	var oembed youTubeOEmbedResponse
	if err := getJSON(ctx, y.client, y.oembedURL, params, &oembed); err != nil {
		return nil, &ExtractionError{Service: youTubeName, Err: err}
	}

	title, artist := parseVideoTrackInfo(oembed.Title, oembed.AuthorName)
	if title == "" || artist == "" {
		return nil, &ExtractionError{
			Service: youTubeName,
			Err:     fmt.Errorf("video %q does not look like a song", oembed.Title),
		}
	}

	song := &Song{Title: title, Artist: artist}
	if oembed.ThumbnailURL != "" && oembed.ThumbnailWidth > 0 && oembed.ThumbnailHeight > 0 {
		song.CoverArt = &CoverArt{
			URL:    oembed.ThumbnailURL,
			Width:  oembed.ThumbnailWidth,
			Height: oembed.ThumbnailHeight,
		}
	}
	return song, nil
}

// LinkToAlbum treats a playlist link as an album and looks its title up via
// the Data API. The artist stays empty; playlists carry no reliable one.
func (y *YouTubeAdapter) LinkToAlbum(ctx context.Context, link string) (*Album, error) {
	playlistID, err := playlistIDFromLink(link)
	if err != nil {
		return nil, &ExtractionError{Service: youTubeName, Err: err}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)
	params.Set("key", y.apiKey)

	var resp youTubeSearchResponse
	if err := getJSON(ctx, y.client, y.playlistsURL, params, &resp); err != nil {
		return nil, &ExtractionError{Service: youTubeName, Err: err}
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet.Title == "" {
		return nil, &ExtractionError{
			Service: youTubeName,
			Err:     fmt.Errorf("playlist %s not found", playlistID),
		}
	}

	return &Album{Title: resp.Items[0].Snippet.Title}, nil
}

// SongToLink searches for a topic video matching the song.
func (y *YouTubeAdapter) SongToLink(ctx context.Context, song *Song) (string, error) {
	item, err := y.search(ctx, fmt.Sprintf("%s %s topic", song.Title, song.Artist), "video")
	if err != nil {
		return "", err
	}
	return videoLink(item.ID.VideoID), nil
}

// AlbumToLink searches for a full-album playlist matching the album.
func (y *YouTubeAdapter) AlbumToLink(ctx context.Context, album *Album) (string, error) {
	item, err := y.search(ctx, fmt.Sprintf("%s %s full album", album.Title, album.Artist), "playlist")
	if err != nil {
		return "", err
	}
	return playlistLink(item.ID.PlaylistID), nil
}

// search queries the Data API search endpoint for one result of a kind.
func (y *YouTubeAdapter) search(ctx context.Context, query, kind string) (*youTubeItem, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", "1")
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("key", y.apiKey)

	var resp youTubeSearchResponse
	if err := getJSON(ctx, y.client, y.searchURL, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoMatch
	}
	return &resp.Items[0], nil
}

// videoID extracts the video ID from watch and short-link URL shapes.
func (y *YouTubeAdapter) videoID(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	if strings.ToLower(u.Hostname()) == "youtu.be" {
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", errors.New("no video ID in youtu.be URL")
		}
		return id, nil
	}

	id := u.Query().Get("v")
	if id == "" {
		return "", errors.New("no video ID in YouTube URL")
	}
	return id, nil
}

// playlistIDFromLink extracts the playlist ID from the list query parameter.
func playlistIDFromLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	id := u.Query().Get("list")
	if id == "" {
		return "", errors.New("no playlist ID in YouTube URL")
	}
	return id, nil
}

func videoLink(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}

func playlistLink(playlistID string) string {
	return "https://www.youtube.com/playlist?list=" + playlistID
}

// videoNoisePatterns are decorations commonly appended to music video titles.
var videoNoisePatterns = regexp.MustCompile(
	`(?i)\s*[(\[](official\s+(music\s+)?video|official\s+audio|lyric\s+video|lyrics|visuali[sz]er|hd|4k)[)\]]`)

// camelBoundaryRegex inserts spaces into camel-cased channel names.
var camelBoundaryRegex = regexp.MustCompile(`([a-z])([A-Z])`)

// parseVideoTrackInfo derives (title, artist) from a video title and channel
// name. Topic and VEVO channels name the artist directly; otherwise an
// "Artist - Title" split is attempted. An empty artist means the video could
// not be read as a song.
func parseVideoTrackInfo(videoTitle, authorName string) (title, artist string) {
	title = strings.TrimSpace(videoNoisePatterns.ReplaceAllString(videoTitle, ""))

	switch {
	case strings.HasSuffix(authorName, " - Topic"):
		artist = strings.TrimSuffix(authorName, " - Topic")
	case strings.HasSuffix(authorName, "VEVO"):
		artist = camelBoundaryRegex.ReplaceAllString(strings.TrimSuffix(authorName, "VEVO"), "$1 $2")
	}

	if artist != "" {
		// Channel-named artist: drop a leading "Artist - " from the title.
		title = strings.TrimSpace(strings.TrimPrefix(title, artist+" - "))
		return title, artist
	}

	parts := strings.SplitN(title, " - ", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
}
