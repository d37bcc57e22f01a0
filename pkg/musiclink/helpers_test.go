package musiclink

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestExtractLDJSON(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		wantName  string
		wantError bool
	}{
		{
			name:     "Plain block",
			page:     `<script type="application/ld+json">{"name":"Discovery"}</script>`,
			wantName: "Discovery",
		},
		{
			name: "Block with extra attributes and whitespace",
			page: `<script id="schema" type="application/ld+json" nonce="x">
				{"name":"Discovery"}
			</script>`,
			wantName: "Discovery",
		},
		{
			name:      "No block",
			page:      `<script type="text/javascript">var x = 1;</script>`,
			wantError: true,
		},
		{
			name:      "Malformed JSON",
			page:      `<script type="application/ld+json">{"name":</script>`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest struct {
				Name string `json:"name"`
			}
			err := extractLDJSON(tt.page, &dest)
			if tt.wantError {
				if err == nil {
					t.Error("extractLDJSON() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractLDJSON() unexpected error: %v", err)
			}
			if dest.Name != tt.wantName {
				t.Errorf("extractLDJSON() name = %q, want %q", dest.Name, tt.wantName)
			}
		})
	}
}

func TestExtractMetaContent(t *testing.T) {
	page := `<meta property="og:title" content="Song &amp; Dance" />` +
		`<meta name="twitter:title" content="Other" />`

	tests := []struct {
		name     string
		property string
		expected string
	}{
		{name: "Property attribute with entity", property: "og:title", expected: "Song & Dance"},
		{name: "Name attribute", property: "twitter:title", expected: "Other"},
		{name: "Absent tag", property: "og:image", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractMetaContent(page, tt.property); got != tt.expected {
				t.Errorf("extractMetaContent(%q) = %q, want %q", tt.property, got, tt.expected)
			}
		})
	}
}

func TestFetchHTML_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	_, err := fetchHTML(context.Background(), newHTTPClient(), server.URL, "TestService")
	if err == nil {
		t.Fatal("fetchHTML() expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "TestService") {
		t.Errorf("fetchHTML() error = %v, want service name in message", err)
	}
}

func TestFetchHTML_LimitsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, strings.Repeat("a", defaultMaxReadSize+1024))
	}))
	defer server.Close()

	body, err := fetchHTML(context.Background(), newHTTPClient(), server.URL, "TestService")
	if err != nil {
		t.Fatalf("fetchHTML() unexpected error: %v", err)
	}
	if len(body) != defaultMaxReadSize {
		t.Errorf("fetchHTML() read %d bytes, want capped at %d", len(body), defaultMaxReadSize)
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("term"); got != "daft punk" {
			t.Errorf("term = %q, want %q", got, "daft punk")
		}
		fmt.Fprint(w, `{"resultCount":2}`)
	}))
	defer server.Close()

	params := url.Values{}
	params.Set("term", "daft punk")

	var dest struct {
		ResultCount int `json:"resultCount"`
	}
	if err := getJSON(context.Background(), newHTTPClient(), server.URL, params, &dest); err != nil {
		t.Fatalf("getJSON() unexpected error: %v", err)
	}
	if dest.ResultCount != 2 {
		t.Errorf("getJSON() resultCount = %d, want 2", dest.ResultCount)
	}
}
