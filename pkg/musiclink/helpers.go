package musiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// commonUserAgent is the user agent string used for all HTTP requests.
	commonUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// commonAcceptHeader is the accept header used for page fetches.
	commonAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// defaultHTTPTimeout is the default timeout for outbound requests.
	defaultHTTPTimeout = 10 * time.Second
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 3
	// defaultMaxReadSize limits how much of a page body is read.
	defaultMaxReadSize = 512 * 1024
)

// ErrTooManyRedirects is returned when too many redirects are encountered.
var ErrTooManyRedirects = errors.New("too many redirects")

// newHTTPClient creates an HTTP client with standard settings and a redirect cap.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// fetchHTML fetches a page with browser-like headers and a size limit.
func fetchHTML(ctx context.Context, client *http.Client, pageURL, serviceName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", commonUserAgent)
	req.Header.Set("Accept", commonAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	limitedReader := io.LimitReader(resp.Body, defaultMaxReadSize)
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(bodyBytes), nil
}

// getJSON issues a GET with query parameters and decodes the JSON response.
func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, dest any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

var (
	ldJSONRegex = regexp.MustCompile(
		`(?s)<script[^>]+type="application/ld\+json"[^>]*>(.*?)</script>`)
	metaContentRegexFmt = `<meta\s+(?:property|name)="%s"\s+content="([^"]*)"`
)

// extractLDJSON pulls the first embedded ld+json metadata block out of a page
// and unmarshals it. Pages without the block fail extraction.
func extractLDJSON(page string, dest any) error {
	matches := ldJSONRegex.FindStringSubmatch(page)
	if len(matches) < 2 {
		return errors.New("no ld+json metadata block in page")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(matches[1])), dest); err != nil {
		return fmt.Errorf("malformed ld+json block: %w", err)
	}
	return nil
}

// extractMetaContent returns the content of a <meta property=...> tag,
// HTML-unescaped, or "" when the tag is absent.
func extractMetaContent(page, property string) string {
	re := regexp.MustCompile(fmt.Sprintf(metaContentRegexFmt, regexp.QuoteMeta(property)))
	matches := re.FindStringSubmatch(page)
	if len(matches) < 2 {
		return ""
	}
	return html.UnescapeString(matches[1])
}
