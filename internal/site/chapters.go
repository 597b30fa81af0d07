package site

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gocolly/colly/v2"
)

// Only classed anchors count and the "edit" links are skipped. Every
// remaining anchor is one chapter, duplicates included, so indices match
// the order of the page.
const chapterLinkSelector = ".chlist a[class][href]"

// Chapters lists the chapters of a comic, oldest first. The site shows
// them newest first.
func (s *Site) Chapters(ctx context.Context, comicURL string) ([]Chapter, error) {
	target := WithNoWarning(comicURL)

	c := colly.NewCollector(colly.StdlibContext(ctx))
	c.SetClient(s.client)

	var out []Chapter

	c.OnHTML(chapterLinkSelector, func(e *colly.HTMLElement) {
		if strings.TrimSpace(e.Attr("class")) == "edit" {
			return
		}

		u := e.Request.AbsoluteURL(e.Attr("href"))
		if u == "" {
			return
		}

		name := strings.Join(strings.Fields(e.Text), " ")
		if name == "" {
			name = strings.TrimSpace(e.Attr("title"))
		}

		out = append(out, Chapter{Name: name, URL: u})
	})

	var status int
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	s.log.Debugf("fetching chapter list %s", target)

	if err := c.Visit(target); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if status != 0 {
			return nil, &HTTPError{URL: target, StatusCode: status}
		}
		return nil, fmt.Errorf("chapter list %s: %w", target, err)
	}
	c.Wait()

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", comicURL, ErrNoChapters)
	}

	slices.Reverse(out)
	for i := range out {
		out[i].Index = i
	}

	return out, nil
}

// IsNotFound reports whether err is a 404 from the site.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 404
}
