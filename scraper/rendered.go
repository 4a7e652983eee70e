package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod/lib/proto"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
)

// networkIdleWait bounds how long a page may sit waiting for its network
// traffic to settle after load.
const networkIdleWait = 3 * time.Second

// fetchRendered runs the fallback path: open a page on the shared browser
// session, render the search results, and extract from the rendered DOM.
// A missing listing container within selectorTimeout is treated as zero
// listings, not an error.
func (s *SiteScraper) fetchRendered(ctx context.Context, site config.SiteConfig, query, fallbackCurrency string) ([]models.Listing, error) {
	browser, err := s.session.Browser()
	if err != nil {
		return nil, fmt.Errorf("browser unavailable: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page for %s: %w", site.Name, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: RandomUserAgent()}); err != nil {
		return nil, fmt.Errorf("set user agent for %s: %w", site.Name, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1366,
		Height:            768,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport for %s: %w", site.Name, err)
	}

	searchURL := SearchURL(site, query)

	nav := page.Timeout(s.renderTimeout)
	if err := nav.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", site.Name, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, fmt.Errorf("load %s: %w", site.Name, err)
	}
	if err := nav.WaitIdle(networkIdleWait); err != nil {
		// A page that never goes idle can still carry results; proceed.
		s.log.Debugw("network idle wait elapsed", "site", site.Name)
	}

	if _, err := page.Timeout(s.selectorTimeout).Element(site.Selectors.Products); err != nil {
		s.log.Infow("listing container never appeared", "site", site.Name, "selector", site.Selectors.Products)
		return nil, nil
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read rendered DOM for %s: %w", site.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered DOM for %s: %w", site.Name, err)
	}

	return ExtractListings(doc, site, fallbackCurrency), nil
}
