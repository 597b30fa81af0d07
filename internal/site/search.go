package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/brogergvhs/mangafox/internal/util"
)

// SearchURL builds the advanced-search query for name, matching titles
// that contain it.
func (s *Site) SearchURL(name string) string {
	q := url.Values{}
	q.Set("name_method", "cw")
	q.Set("name", name)
	q.Set("type", "")
	q.Set("author_method", "cw")
	q.Set("author", "")
	q.Set("artist_method", "cw")
	q.Set("artist", "")
	q.Set("released_method", "eq")
	q.Set("released", "")
	q.Set("rating_method", "eq")
	q.Set("rating", "")
	q.Set("is_completed", "")
	q.Set("advopts", "1")

	u := s.base.ResolveReference(&url.URL{Path: "search.php"})
	u.RawQuery = q.Encode()

	return u.String()
}

// Search queries the catalog. A throttled answer is retried once after
// the configured delay.
func (s *Site) Search(ctx context.Context, name string) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search name cannot be empty")
	}

	target := s.SearchURL(name)
	var body []byte

	err := util.RetryOnce(ctx, s.searchRetryDelay, func() (bool, error) {
		b, status, err := s.fetch(ctx, target)
		if isThrottled(status, b) {
			s.log.Warnf("search throttled, retrying in %s", s.searchRetryDelay)
			return true, ErrThrottled
		}
		if err != nil {
			return false, err
		}

		body = b
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}

	return ParseSearchResults(target, body)
}

// ParseSearchResults reads every link of the results table.
func ParseSearchResults(pageURL string, body []byte) ([]SearchResult, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var out []SearchResult
	seen := map[string]bool{}

	for _, a := range htmlquery.Find(doc, "//td/a") {
		href := strings.TrimSpace(htmlquery.SelectAttr(a, "href"))
		if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			continue
		}

		u := resolve(pageURL, href)
		if seen[u] {
			continue
		}
		seen[u] = true

		out = append(out, SearchResult{
			Name: strings.Join(strings.Fields(htmlquery.InnerText(a)), " "),
			URL:  u,
		})
	}

	return out, nil
}

func isThrottled(status int, body []byte) bool {
	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		return true
	}
	if len(body) == 0 {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}

	text := strings.ToLower(doc.Find("body").Text())
	return strings.Contains(text, "search again within")
}
