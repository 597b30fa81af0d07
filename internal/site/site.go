package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/brogergvhs/mangafox/internal/ui"
)

const DefaultBaseURL = "http://mangafox.me/"

var (
	ErrNoChapters    = errors.New("no chapters found")
	ErrImageNotFound = errors.New("page has no image")
	ErrThrottled     = errors.New("search throttled by site")
)

// HTTPError is a non-success response from the site.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.URL, e.StatusCode)
}

type Chapter struct {
	// Index is the position in oldest-first order, starting at 0.
	Index int
	Name  string
	URL   string
}

type SearchResult struct {
	Name string
	URL  string
}

// Page is one reader page of a chapter.
type Page struct {
	URL      string
	ImageURL string
	// NextURL is empty on the last page.
	NextURL string
	// Total is the page count announced by the page selector, 0 if absent.
	Total int
}

type Options struct {
	BaseURL          string
	SearchRetryDelay time.Duration
	Logger           *ui.Logger
}

type Site struct {
	client           *http.Client
	base             *url.URL
	searchRetryDelay time.Duration
	log              *ui.Logger
}

func New(c *http.Client, opts Options) (*Site, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}

	base, err := url.Parse(raw)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid base URL %q", raw)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	log := opts.Logger
	if log == nil {
		log = ui.NopLogger()
	}

	return &Site{
		client:           c,
		base:             base,
		searchRetryDelay: opts.SearchRetryDelay,
		log:              log,
	}, nil
}

func (s *Site) BaseURL() string {
	return s.base.String()
}

// Page fetches and parses one reader page.
func (s *Site) Page(ctx context.Context, pageURL string) (Page, error) {
	body, _, err := s.fetch(ctx, pageURL)
	if err != nil {
		return Page{}, err
	}

	return ParsePage(pageURL, body)
}

// fetch GETs target and returns the body. Non-2xx answers come back as
// *HTTPError together with the status code.
func (s *Site) fetch(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.log.Debugf("failed to close response body for %s: %v", target, cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, &HTTPError{URL: target, StatusCode: resp.StatusCode}
	}

	return body, resp.StatusCode, nil
}

// WithNoWarning adds no_warning=1, which skips the adult-content interstitial.
func WithNoWarning(comicURL string) string {
	u, err := url.Parse(comicURL)
	if err != nil {
		sep := "?"
		if strings.Contains(comicURL, "?") {
			sep = "&"
		}
		return comicURL + sep + "no_warning=1"
	}

	q := u.Query()
	q.Set("no_warning", "1")
	u.RawQuery = q.Encode()

	return u.String()
}

// SameChapter reports whether two reader URLs live in the same chapter
// directory. The last page of a chapter links on to the next chapter.
func SameChapter(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}

	return ua.Host == ub.Host && path.Dir(ua.Path) == path.Dir(ub.Path)
}

func resolve(baseURL, raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return raw
	}

	return b.ResolveReference(u).String()
}
