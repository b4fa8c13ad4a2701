package fetch

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProfileFetcherConfig configures a ProfileFetcher.
type ProfileFetcherConfig struct {
	// RequestsPerSecond bounds outgoing page requests. Zero or less means unlimited.
	RequestsPerSecond float64
	// UseBrowser re-renders pages whose static HTML carries too little text.
	UseBrowser bool
	// Render overrides the headless browser renderer.
	Render RenderFunc
	Logger *zap.Logger
}

// ProfileFetcher downloads individual profile pages and returns the
// fragments anchored on a person's name.
type ProfileFetcher struct {
	pages      *CachedFetcher
	limiter    *rate.Limiter
	useBrowser bool
	render     RenderFunc
	logger     *zap.Logger
}

// NewProfileFetcher creates a ProfileFetcher reading pages through pages.
func NewProfileFetcher(pages *CachedFetcher, cfg ProfileFetcherConfig) *ProfileFetcher {
	if pages == nil {
		pages = NewCachedFetcher(nil, nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	render := cfg.Render
	if render == nil {
		render = BrowserRenderer(pages.options.Timeout, logger)
	}

	return &ProfileFetcher{
		pages:      pages,
		limiter:    rate.NewLimiter(limit, 1),
		useBrowser: cfg.UseBrowser,
		render:     render,
		logger:     logger,
	}
}

// FetchProfile fetches pageURL and returns the fragments whose text contains
// anchorName. An empty anchor yields no fragments without any request.
func (p *ProfileFetcher) FetchProfile(ctx context.Context, pageURL, anchorName string) ([]Fragment, error) {
	anchorName = strings.TrimSpace(anchorName)
	if anchorName == "" {
		return nil, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &Error{URL: pageURL, Message: "rate limiter wait failed", Retryable: true, Cause: err}
	}

	result, err := p.pages.Fetch(ctx, pageURL)
	if err != nil {
		p.logger.Warn("profile fetch failed", zap.String("url", pageURL), zap.Error(err))
		return nil, err
	}

	html := result.HTML
	if p.useBrowser && !result.FromCache {
		html = p.maybeRender(ctx, pageURL, html)
	}

	fragments, err := ExtractAnchored(html, pageURL, anchorName)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracted profile fragments",
		zap.String("url", pageURL),
		zap.String("anchor", anchorName),
		zap.Int("fragments", len(fragments)),
		zap.Bool("from_cache", result.FromCache),
	)
	return fragments, nil
}

// maybeRender swaps in browser-rendered HTML when the static page looks like
// an unrendered single-page app. Render failures keep the static HTML.
func (p *ProfileFetcher) maybeRender(ctx context.Context, pageURL, html string) string {
	text, err := ExtractMainText(html, DefaultTextSelectors())
	if err != nil || !ShouldUseBrowser(text) {
		return html
	}

	rendered, err := p.render(ctx, pageURL)
	if err != nil {
		p.logger.Warn("browser fallback failed", zap.String("url", pageURL), zap.Error(err))
		return html
	}
	return rendered
}
