package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
)

// maxResponseBodyBytes limits the size of fetched search pages.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Fetcher performs the fast path: a plain HTTP GET against the site's
// search URL parsed as a static document.
type Fetcher struct {
	client *http.Client
	log    *zap.SugaredLogger
}

// NewFetcher creates a fetcher whose requests are bounded by timeout.
func NewFetcher(timeout time.Duration, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// SearchURL substitutes the query into the site's search template,
// percent-encoded.
func SearchURL(site config.SiteConfig, query string) string {
	return strings.ReplaceAll(site.SearchURL, "{{query}}", url.QueryEscape(query))
}

// FetchStatic fetches and extracts a site's search results without
// rendering. A non-2xx status or transport error is returned to the caller;
// an empty listing slice with a nil error means the page parsed but matched
// nothing.
func (f *Fetcher) FetchStatic(ctx context.Context, site config.SiteConfig, query, fallbackCurrency string) ([]models.Listing, error) {
	searchURL := SearchURL(site, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", site.Name, err)
	}
	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", site.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", site.Name, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBodyBytes)
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", site.Name, err)
	}

	return ExtractListings(doc, site, fallbackCurrency), nil
}
