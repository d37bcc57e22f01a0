package musiclink

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeAdapter is a scriptable Adapter for resolver tests.
type fakeAdapter struct {
	name       string
	handles    string // substring the adapter claims links containing it
	song       *Song
	album      *Album
	extractErr error
	link       string
	lookupErr  error
	panics     bool
}

func (f *fakeAdapter) ServiceName() string { return f.name }

func (f *fakeAdapter) CanHandleLink(link string) bool {
	return f.handles != "" && strings.Contains(link, f.handles)
}

func (f *fakeAdapter) LinkIsSong(link string) bool {
	return !strings.Contains(link, "/album/")
}

func (f *fakeAdapter) LinkToSong(_ context.Context, _ string) (*Song, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.song, nil
}

func (f *fakeAdapter) LinkToAlbum(_ context.Context, _ string) (*Album, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.album, nil
}

func (f *fakeAdapter) SongToLink(_ context.Context, _ *Song) (string, error) {
	if f.panics {
		panic("adapter bug")
	}
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.link, nil
}

func (f *fakeAdapter) AlbumToLink(_ context.Context, _ *Album) (string, error) {
	return f.SongToLink(nil, nil)
}

// fakeSearchAdapter additionally implements the Searcher capability.
type fakeSearchAdapter struct {
	fakeAdapter
	hits      []Item
	searchErr error
}

func (f *fakeSearchAdapter) Search(_ context.Context, _ string) ([]Item, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func TestResolver_Resolve_UnsupportedLink(t *testing.T) {
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example"},
		&fakeAdapter{name: "B", handles: "b.example"},
	}, 0, nil)

	tests := []struct {
		name string
		link string
	}{
		{name: "Unknown domain", link: "https://example.com/track/123"},
		{name: "Free text", link: "never gonna give you up"},
		{name: "Empty string", link: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.link)
			if !errors.Is(err, ErrUnsupportedLink) {
				t.Errorf("Resolve() error = %v, want ErrUnsupportedLink", err)
			}
		})
	}
}

func TestResolver_Resolve_ExtractionFailureSurfaces(t *testing.T) {
	extractErr := &ExtractionError{Service: "A", Err: errors.New("markup drift")}
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example", extractErr: extractErr},
		&fakeAdapter{name: "B", handles: "b.example", link: "https://b.example/x"},
	}, 0, nil)

	_, err := resolver.Resolve(context.Background(), "https://a.example/track/1")

	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("Resolve() error = %v, want *ExtractionError", err)
	}
	if ee.Service != "A" {
		t.Errorf("ExtractionError.Service = %q, want %q", ee.Service, "A")
	}
}

func TestResolver_Resolve_FailureIsolation(t *testing.T) {
	song := &Song{Title: "Song X", Artist: "Artist Y", Album: "Album Z"}

	// B's lookup fails, C's panics; A and the source result must survive in
	// configured order.
	adapters := []Adapter{
		&fakeAdapter{name: "A", handles: "a.example", song: song, link: "https://a.example/1"},
		&fakeAdapter{name: "B", handles: "b.example", lookupErr: errors.New("rate limited")},
		&fakeAdapter{name: "C", handles: "c.example", panics: true},
		&fakeAdapter{name: "D", handles: "d.example", link: "https://d.example/4"},
	}
	resolver := NewResolver(adapters, 0, nil)

	result, err := resolver.Resolve(context.Background(), "https://a.example/track/1")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	want := []ServiceLink{
		{Service: "A", URL: "https://a.example/1"},
		{Service: "D", URL: "https://d.example/4"},
	}
	if !reflect.DeepEqual(result.Links, want) {
		t.Errorf("Resolve() links = %v, want %v", result.Links, want)
	}
	if got := result.Item.Display(); got != "Artist Y — Song X" {
		t.Errorf("Display() = %q, want %q", got, "Artist Y — Song X")
	}
}

func TestResolver_Resolve_EmptyLinksIsValid(t *testing.T) {
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example",
			song:      &Song{Title: "T", Artist: "X"},
			lookupErr: errors.New("down")},
	}, 0, nil)

	result, err := resolver.Resolve(context.Background(), "https://a.example/track/1")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(result.Links) != 0 {
		t.Errorf("Resolve() links = %v, want none", result.Links)
	}
}

func TestResolver_Resolve_AlbumLink(t *testing.T) {
	album := &Album{Title: "Album Z", Artist: "Artist Y"}
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example", album: album, link: "https://a.example/al/1"},
	}, 0, nil)

	result, err := resolver.Resolve(context.Background(), "https://a.example/album/1")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got := result.Item.Display(); got != "Album Z by Artist Y" {
		t.Errorf("Display() = %q, want %q", got, "Album Z by Artist Y")
	}
	if _, ok := result.Item.(*Album); !ok {
		t.Errorf("Resolve() item type = %T, want *Album", result.Item)
	}
}

func TestResolver_Resolve_Idempotent(t *testing.T) {
	song := &Song{Title: "Song X", Artist: "Artist Y"}
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example", song: song, link: "https://a.example/1"},
		&fakeAdapter{name: "B", handles: "b.example", link: "https://b.example/2"},
	}, 0, nil)

	first, err := resolver.Resolve(context.Background(), "https://a.example/track/1")
	if err != nil {
		t.Fatalf("first Resolve() unexpected error: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), "https://a.example/track/1")
	if err != nil {
		t.Fatalf("second Resolve() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve() results differ across identical calls:\n%+v\n%+v", first, second)
	}
}

func TestResolver_Search_NoSearcherReturnsEmpty(t *testing.T) {
	resolver := NewResolver([]Adapter{
		&fakeAdapter{name: "A", handles: "a.example"},
	}, 0, nil)

	results, err := resolver.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() = %v, want empty", results)
	}
}

func TestResolver_Search_ResolvesLinksPerHit(t *testing.T) {
	search := &fakeSearchAdapter{
		fakeAdapter: fakeAdapter{name: "S", handles: "s.example", link: "https://s.example/1"},
		hits: []Item{
			&Song{Title: "One", Artist: "A1"},
			&Song{Title: "Two", Artist: "A2"},
		},
	}
	other := &fakeAdapter{name: "O", handles: "o.example", link: "https://o.example/1"}

	resolver := NewResolver([]Adapter{search, other}, 0, nil)

	results, err := resolver.Search(context.Background(), "some song")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	for i, res := range results {
		if len(res.Links) != 2 {
			t.Errorf("result %d has %d links, want 2", i, len(res.Links))
		}
	}
}

func TestResolver_Search_SelectsFirstSearcher(t *testing.T) {
	first := &fakeSearchAdapter{
		fakeAdapter: fakeAdapter{name: "S1", handles: "s1.example"},
		hits:        []Item{&Song{Title: "From S1", Artist: "A"}},
	}
	second := &fakeSearchAdapter{
		fakeAdapter: fakeAdapter{name: "S2", handles: "s2.example"},
		hits:        []Item{&Song{Title: "From S2", Artist: "A"}},
	}

	resolver := NewResolver([]Adapter{&fakeAdapter{name: "Plain"}, first, second}, 0, nil)

	results, err := resolver.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if got := results[0].Item.(*Song).Title; got != "From S1" {
		t.Errorf("Search() used wrong searcher, got title %q", got)
	}
}
