package downloader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/mangafox/internal/site"
	"github.com/brogergvhs/mangafox/internal/ui"
	"github.com/brogergvhs/mangafox/internal/util"
)

const DefaultMaxPages = 1000

var (
	ErrTooManyPages = errors.New("page limit reached")
	ErrEmptyImage   = errors.New("empty image body")
)

// PageSource fetches and parses one reader page.
type PageSource interface {
	Page(ctx context.Context, pageURL string) (site.Page, error)
}

type Progress interface {
	SetTotal(total int)
	Update(done int, bytes int64)
	MarkDone()
}

type nopProgress struct{}

func (nopProgress) SetTotal(int)      {}
func (nopProgress) Update(int, int64) {}
func (nopProgress) MarkDone()         {}

type Options struct {
	// SkipBroken logs failed images and moves on instead of failing the chapter.
	SkipBroken bool
	// Delay is slept between two pages.
	Delay    time.Duration
	MaxPages int
}

type Downloader struct {
	src    PageSource
	client *http.Client
	log    *ui.Logger
	opts   Options
}

func New(src PageSource, c *http.Client, log *ui.Logger, opts Options) *Downloader {
	if log == nil {
		log = ui.NopLogger()
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	return &Downloader{
		src:    src,
		client: c,
		log:    log,
		opts:   opts,
	}
}

type Result struct {
	// Pages is the number of images written by this run.
	Pages   int
	Skipped int
	Broken  int
	Bytes   int64
	// Files lists every page file present in the folder, downloaded or skipped.
	Files []string
}

// DownloadChapter walks a chapter from startURL, saving page N as
// page_NNN<ext> in folder. The walk ends when a page has no next link,
// when the next link was already visited or leaves the chapter, or when a
// page after the first answers with a non-success status.
func (d *Downloader) DownloadChapter(ctx context.Context, startURL, folder string, ph Progress) (*Result, error) {
	if ph == nil {
		ph = nopProgress{}
	}
	defer ph.MarkDone()

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, err
	}

	res := &Result{}
	visited := map[string]bool{}
	current := startURL

	for n := 1; ; n++ {
		if n > d.opts.MaxPages {
			return res, fmt.Errorf("%w: stopped after %d pages of %s", ErrTooManyPages, d.opts.MaxPages, startURL)
		}
		visited[current] = true

		page, err := d.src.Page(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}

			var httpErr *site.HTTPError
			switch {
			case n == 1:
				return res, fmt.Errorf("page 1: %w", err)
			case errors.As(err, &httpErr):
				d.log.Debugf("end of chapter at page %d (HTTP %d)", n, httpErr.StatusCode)
				return res, nil
			case errors.Is(err, site.ErrImageNotFound):
				d.log.Warnf("page %d has no image, ending chapter: %s", n, current)
				return res, nil
			default:
				return res, fmt.Errorf("page %d: %w", n, err)
			}
		}

		if n == 1 {
			ph.SetTotal(page.Total)
		}

		if err := d.savePage(ctx, n, page, folder, res, ph); err != nil {
			return res, err
		}
		ph.Update(n, res.Bytes)

		next := page.NextURL
		switch {
		case next == "":
			return res, nil
		case visited[next]:
			d.log.Debugf("next link %s already visited, ending chapter", next)
			return res, nil
		case !site.SameChapter(current, next):
			d.log.Debugf("next link %s leaves the chapter", next)
			return res, nil
		}

		if err := sleep(ctx, d.opts.Delay); err != nil {
			return res, err
		}
		current = next
	}
}

func (d *Downloader) savePage(ctx context.Context, n int, page site.Page, folder string, res *Result, ph Progress) error {
	name := fmt.Sprintf("page_%03d%s", n, imageExt(page.ImageURL))
	dest := filepath.Join(folder, name)

	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		d.log.Debugf("%s already downloaded, skipping", dest)
		res.Skipped++
		res.Files = append(res.Files, dest)
		return nil
	}

	base := res.Bytes
	written, err := d.fetchImage(ctx, page.ImageURL, page.URL, dest, func(done int64) {
		ph.Update(n-1, base+done)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.opts.SkipBroken {
			return fmt.Errorf("page %d image %s: %w (use --skip-broken to continue)", n, page.ImageURL, err)
		}

		d.log.Warnf("page %d image %s: %v, skipping", n, page.ImageURL, err)
		res.Broken++
		return nil
	}

	res.Pages++
	res.Bytes += written
	res.Files = append(res.Files, dest)
	return nil
}

// fetchImage streams imageURL into dest via a .part file that is renamed
// once the body is complete and non-empty.
func (d *Downloader) fetchImage(ctx context.Context, imageURL, referer, dest string, progress func(done int64)) (written int64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.log.Debugf("failed to close image body %s: %v", imageURL, cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, &site.HTTPError{URL: imageURL, StatusCode: resp.StatusCode}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, _ := mime.ParseMediaType(ct)
		if !strings.HasPrefix(mt, "image/") && mt != "application/octet-stream" {
			return 0, fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	part := dest + util.PartSuffix
	f, err := os.Create(part)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(part)
		}
	}()

	written, err = copyWithProgress(f, resp.Body, progress)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if written == 0 {
		return 0, ErrEmptyImage
	}

	if err = os.Rename(part, dest); err != nil {
		return 0, err
	}

	return written, nil
}

func imageExt(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || len(ext) > 5 {
		return ".jpg"
	}

	return ext
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
