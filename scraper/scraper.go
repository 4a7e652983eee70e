package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
)

// Fetch methods recorded in site outcomes.
const (
	MethodFast        = "fast"
	MethodRendered    = "rendered"
	MethodPlaceholder = "placeholder"
	MethodNone        = "none"
)

// SiteResult is the outcome of one site-fetch task. Errors are captured
// here rather than propagated; downstream treats a failed site the same as
// a site with zero listings.
type SiteResult struct {
	Site     string
	Listings []models.Listing
	Method   string
	Err      error
	Elapsed  time.Duration
}

// Outcome converts the result into its API metadata form.
func (r SiteResult) Outcome() models.SiteOutcome {
	outcome := models.SiteOutcome{
		Site:     r.Site,
		Listings: len(r.Listings),
		Method:   r.Method,
		Elapsed:  r.Elapsed.Milliseconds(),
	}
	if r.Err != nil {
		outcome.Error = r.Err.Error()
	}
	return outcome
}

// SiteScraper runs the per-site fetch state machine: fast fetch, rendered
// fallback, then placeholder data in demo mode. One instance serves the
// whole process.
type SiteScraper struct {
	fetcher *Fetcher
	session *BrowserSession
	gate    *Gate
	log     *zap.SugaredLogger

	renderTimeout   time.Duration
	selectorTimeout time.Duration
	lightweight     bool
	demoMode        bool
}

// NewSiteScraper wires the scraper from application config and the shared
// browser session.
func NewSiteScraper(cfg *config.AppConfig, session *BrowserSession, log *zap.SugaredLogger) *SiteScraper {
	return &SiteScraper{
		fetcher:         NewFetcher(cfg.RequestTimeout, log),
		session:         session,
		gate:            NewGate(cfg.MaxConcurrentRequests),
		log:             log,
		renderTimeout:   cfg.RenderTimeout,
		selectorTimeout: cfg.SelectorTimeout,
		lightweight:     cfg.LightweightMode,
		demoMode:        cfg.DemoMode,
	}
}

// ScrapeSites fans out one fetch task per site under the concurrency gate
// and joins all results. Every site produces a SiteResult; the slice order
// matches the input order.
func (s *SiteScraper) ScrapeSites(ctx context.Context, sites []config.SiteConfig, query, targetCurrency string) []SiteResult {
	results := make([]SiteResult, len(sites))

	for i, site := range sites {
		i, site := i, site
		s.gate.Submit(func() {
			results[i] = s.ScrapeSite(ctx, site, query, targetCurrency)
		})
	}
	s.gate.Wait()

	return results
}

// ScrapeSite runs the fetch state machine for one site. Transport, parse,
// and timeout failures are captured in the result; they never escape.
func (s *SiteScraper) ScrapeSite(ctx context.Context, site config.SiteConfig, query, targetCurrency string) SiteResult {
	start := time.Now()
	result := SiteResult{Site: site.Name, Method: MethodNone}

	listings, err := s.fetcher.FetchStatic(ctx, site, query, targetCurrency)
	if err != nil {
		s.log.Warnw("fast fetch failed", "site", site.Name, "error", err)
		result.Err = err
	}
	if len(listings) > 0 {
		result.Listings = listings
		result.Method = MethodFast
		result.Elapsed = time.Since(start)
		s.log.Infow("site scraped", "site", site.Name, "method", result.Method, "listings", len(listings))
		return result
	}

	// Any empty fast-path result triggers the rendered fallback; whether the
	// site returned content with no matches is not distinguished.
	if !s.lightweight {
		var renderErr error
		listings, renderErr = s.fetchRendered(ctx, site, query, targetCurrency)
		if renderErr != nil {
			s.log.Warnw("rendered fetch failed", "site", site.Name, "error", renderErr)
			result.Err = renderErr
		}
		if len(listings) > 0 {
			result.Listings = listings
			result.Method = MethodRendered
			result.Elapsed = time.Since(start)
			s.log.Infow("site scraped", "site", site.Name, "method", result.Method, "listings", len(listings))
			return result
		}
	}

	if s.demoMode {
		result.Listings = PlaceholderListings(site, query)
		result.Method = MethodPlaceholder
		result.Elapsed = time.Since(start)
		s.log.Infow("placeholder listings generated", "site", site.Name, "listings", len(result.Listings))
		return result
	}

	result.Elapsed = time.Since(start)
	s.log.Infow("site yielded no listings", "site", site.Name)
	return result
}
