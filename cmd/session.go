package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brogergvhs/mangafox/internal/chapters"
	"github.com/brogergvhs/mangafox/internal/config"
	"github.com/brogergvhs/mangafox/internal/site"
	"github.com/brogergvhs/mangafox/internal/ui"
	"github.com/brogergvhs/mangafox/internal/util"
)

const httpTimeout = 30 * time.Second

// session is what every site-facing command needs: the merged config and
// a client/site pair built from it.
type session struct {
	cfg      *config.Config
	usedPath string
	log      *ui.Logger
	client   *http.Client
	site     *site.Site
}

// baseOptions folds the persistent root flags into opts.
func baseOptions(opts config.Options) config.Options {
	opts.IgnoreConfig = flagIgnoreConfig
	opts.Debug = flagDebug
	opts.BaseURL = flagBaseURL
	opts.EnvFile = flagEnvFile
	opts.Cookie = flagCookie
	opts.CookieFile = flagCookieFile
	opts.UserAgent = flagUserAgent
	opts.Cloudflare = flagCloudflare
	return opts
}

func newSession(opts config.Options) (*session, error) {
	cfg, usedPath, err := config.LoadMerged(baseOptions(opts))
	if err != nil {
		return nil, err
	}

	log := ui.NewLogger(cfg.Debug)
	log.Debugf("config: %s", usedPath)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:    httpTimeout,
		UserAgent:  cfg.UserAgent,
		Cookie:     cfg.Cookie,
		CookieFile: cfg.CookieFile,
		Cloudflare: cfg.Cloudflare,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	s, err := site.New(client, site.Options{
		BaseURL:          cfg.BaseURL,
		SearchRetryDelay: cfg.SearchRetryDelay,
		Logger:           log,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("site: %s", s.BaseURL())

	return &session{
		cfg:      cfg,
		usedPath: usedPath,
		log:      log,
		client:   client,
		site:     s,
	}, nil
}

// chapters fetches the chapter list of a comic, oldest first.
func (s *session) chapters(ctx context.Context, comicURL string) ([]chapters.Chapter, error) {
	raw, err := s.site.Chapters(ctx, comicURL)
	if site.IsNotFound(err) {
		return nil, fmt.Errorf("comic not found: %w", err)
	}
	if err != nil {
		return nil, err
	}

	return chapters.Wrap(raw), nil
}
