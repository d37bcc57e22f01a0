package core

import (
	"testing"

	"tunebridge/pkg/musiclink"
)

func TestBuildResult_TextOnly(t *testing.T) {
	result := BuildResult(&musiclink.Result{
		Item: &musiclink.Song{Title: "Song X", Artist: "Artist Y"},
		Links: []musiclink.ServiceLink{
			{Service: "Apple Music", URL: "https://music.apple.com/1"},
			{Service: "Spotify", URL: "https://open.spotify.com/track/1"},
		},
	})

	if result.ID == "" {
		t.Error("ID is empty, want a generated identifier")
	}
	if result.Title != "Artist Y — Song X" {
		t.Errorf("Title = %q, want %q", result.Title, "Artist Y — Song X")
	}
	if result.Photo != nil {
		t.Errorf("Photo = %+v, want nil without cover art", result.Photo)
	}
	if result.Text != "Artist Y — Song X" {
		t.Errorf("Text = %q, want display string", result.Text)
	}

	wantButtons := []Button{
		{Label: "Apple Music", URL: "https://music.apple.com/1"},
		{Label: "Spotify", URL: "https://open.spotify.com/track/1"},
	}
	if len(result.Buttons) != len(wantButtons) {
		t.Fatalf("got %d buttons, want %d", len(result.Buttons), len(wantButtons))
	}
	for i, want := range wantButtons {
		if result.Buttons[i] != want {
			t.Errorf("button %d = %+v, want %+v", i, result.Buttons[i], want)
		}
	}
}

func TestBuildResult_WithCoverArt(t *testing.T) {
	result := BuildResult(&musiclink.Result{
		Item: &musiclink.Album{
			Title:    "Album Z",
			Artist:   "Artist Y",
			CoverArt: &musiclink.CoverArt{URL: "https://img.example/cover.jpg", Width: 640, Height: 640},
		},
	})

	if result.Photo == nil {
		t.Fatal("Photo = nil, want photo body for item with cover art")
	}
	if result.Photo.URL != "https://img.example/cover.jpg" {
		t.Errorf("Photo.URL = %q", result.Photo.URL)
	}
	if result.Photo.Caption != "Album Z by Artist Y" {
		t.Errorf("Photo.Caption = %q, want display string", result.Photo.Caption)
	}
	if result.Text != "" {
		t.Errorf("Text = %q, want empty for photo results", result.Text)
	}
	if len(result.Buttons) != 0 {
		t.Errorf("got %d buttons, want 0 for empty links", len(result.Buttons))
	}
}

func TestBuildResult_FreshIDPerCall(t *testing.T) {
	res := &musiclink.Result{Item: &musiclink.Song{Title: "T", Artist: "A"}}

	first := BuildResult(res)
	second := BuildResult(res)

	if first.ID == second.ID {
		t.Errorf("both results share ID %q, want unique per call", first.ID)
	}
}
