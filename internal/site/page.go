package site

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const (
	xpathImage      = "//img[@id='image']"
	xpathNext       = "//a[contains(concat(' ', normalize-space(@class), ' '), ' next_page ')]"
	xpathPageSelect = "(//select[@class='m'])[1]/option"
)

// ParsePage extracts the page image, the next page link and the announced
// page total from a reader page.
func ParsePage(pageURL string, body []byte) (Page, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	p := Page{URL: pageURL}

	src := imageSource(doc)
	if src == "" {
		return p, fmt.Errorf("%s: %w", pageURL, ErrImageNotFound)
	}
	p.ImageURL = resolve(pageURL, src)
	p.NextURL = nextLink(doc, pageURL)
	p.Total = pageTotal(doc)

	return p, nil
}

func imageSource(doc *html.Node) string {
	img := htmlquery.FindOne(doc, xpathImage)
	if img == nil {
		return ""
	}

	for _, attr := range []string{"src", "data-src", "data-original"} {
		if v := strings.TrimSpace(htmlquery.SelectAttr(img, attr)); v != "" && !strings.HasPrefix(v, "data:") {
			return v
		}
	}

	return ""
}

func nextLink(doc *html.Node, pageURL string) string {
	for _, a := range htmlquery.Find(doc, xpathNext) {
		href := strings.TrimSpace(htmlquery.SelectAttr(a, "href"))
		lh := strings.ToLower(href)
		if href == "" || href == "#" || strings.HasPrefix(lh, "javascript:") {
			continue
		}

		next := resolve(pageURL, href)
		if next == pageURL {
			continue
		}

		return next
	}

	return ""
}

func pageTotal(doc *html.Node) int {
	total := 0
	for _, opt := range htmlquery.Find(doc, xpathPageSelect) {
		v := strings.TrimSpace(htmlquery.SelectAttr(opt, "value"))
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			total++
		}
	}

	return total
}
