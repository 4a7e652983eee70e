package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
	"github.com/redston-maverick/global-price-scraper/scraper"
	"github.com/redston-maverick/global-price-scraper/services"
)

// stubFetcher serves canned per-site results in place of live scraping.
type stubFetcher struct {
	resultsBySite map[string]scraper.SiteResult
	scraped       []string
}

func (f *stubFetcher) ScrapeSites(ctx context.Context, sites []config.SiteConfig, query, targetCurrency string) []scraper.SiteResult {
	results := make([]scraper.SiteResult, len(sites))
	for i, site := range sites {
		results[i] = f.ScrapeSite(ctx, site, query, targetCurrency)
	}
	return results
}

func (f *stubFetcher) ScrapeSite(ctx context.Context, site config.SiteConfig, query, targetCurrency string) scraper.SiteResult {
	f.scraped = append(f.scraped, site.Name)
	if result, ok := f.resultsBySite[site.Name]; ok {
		result.Site = site.Name
		return result
	}
	return scraper.SiteResult{Site: site.Name, Method: scraper.MethodNone}
}

func newSearchService(fetcher services.SiteFetcher) *services.SearchService {
	log := zap.NewNop().Sugar()
	return services.NewSearchService(fetcher, services.NewPriceService(log), log)
}

func TestSearchPipeline(t *testing.T) {
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Amazon US": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{{
					Title:    "iPhone 16 Pro 128GB Black",
					Price:    999,
					Currency: "USD",
					Link:     "https://www.amazon.com/dp/1",
					Source:   "Amazon US",
				}},
			},
			"Walmart": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{{
					Title:    "Android Tablet 10in",
					Price:    500,
					Currency: "USD",
					Link:     "https://www.walmart.com/ip/2",
					Source:   "Walmart",
				}},
			},
			"Best Buy": {Method: scraper.MethodNone, Err: errors.New("request timed out")},
			"Target":   {Method: scraper.MethodNone, Err: errors.New("status 503")},
		},
	}
	svc := newSearchService(fetcher)

	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "iPhone 16 Pro",
		Country: "US",
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	result := resp.Results[0]
	assert.Equal(t, "iPhone 16 Pro 128GB Black", result.ProductName)
	assert.Equal(t, 1, result.Rank)
	assert.Equal(t, "Amazon US", result.Source)
	assert.InDelta(t, 999, result.NormalizedPrice, 1e-9)
	assert.Zero(t, result.Savings.Amount)
	assert.InDelta(t, 0.95, result.TrustScore, 1e-9)

	assert.Equal(t, 4, resp.Metadata.SitesSearched)
	assert.Equal(t, 2, resp.Metadata.TotalFound)
	assert.Equal(t, 1, resp.Metadata.TotalResults)
	assert.Equal(t, "electronics", resp.Metadata.Filters.Category)

	require.NotNil(t, resp.Metadata.PriceStatistics)
	assert.InDelta(t, 999, resp.Metadata.PriceStatistics.Min, 1e-9)

	var failures int
	for _, outcome := range resp.Metadata.SiteOutcomes {
		if outcome.Error != "" {
			failures++
		}
	}
	assert.Equal(t, 2, failures)
}

func TestSearchUnsupportedCountry(t *testing.T) {
	svc := newSearchService(&stubFetcher{})

	_, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "iPhone 16 Pro",
		Country: "ZZ",
	})

	var unsupported *services.UnsupportedCountryError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "ZZ", unsupported.Country)
	assert.Contains(t, unsupported.Supported, "US")
	assert.Contains(t, unsupported.Supported, "IN")
}

func TestSearchCountryCaseInsensitive(t *testing.T) {
	svc := newSearchService(&stubFetcher{})

	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "iPhone 16 Pro",
		Country: "us",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Metadata.SitesSearched)
}

func TestSearchAllSitesFailIsEmptyResponse(t *testing.T) {
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Amazon US": {Err: errors.New("connection refused")},
			"Best Buy":  {Err: errors.New("connection refused")},
			"Walmart":   {Err: errors.New("connection refused")},
			"Target":    {Err: errors.New("connection refused")},
		},
	}
	svc := newSearchService(fetcher)

	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "iPhone 16 Pro",
		Country: "US",
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, "No products found for this query", resp.Metadata.Message)
	assert.Equal(t, 0, resp.Metadata.TotalResults)
	assert.Nil(t, resp.Metadata.PriceStatistics)
}

func TestSearchAppliesPriceRange(t *testing.T) {
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Amazon US": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{
					{Title: "iPhone 16 Pro", Price: 750, Currency: "USD", Link: "https://a/1", Source: "Amazon US"},
					{Title: "iPhone 16 Pro Max", Price: 950, Currency: "USD", Link: "https://a/2", Source: "Amazon US"},
					{Title: "iPhone 16 Pro Bundle", Price: 1200, Currency: "USD", Link: "https://a/3", Source: "Amazon US"},
				},
			},
		},
	}
	svc := newSearchService(fetcher)

	lower, upper := 800.0, 1000.0
	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Query:    "iPhone 16 Pro",
		Country:  "US",
		MinPrice: &lower,
		MaxPrice: &upper,
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 950, resp.Results[0].NormalizedPrice, 1e-9)
}

func TestSearchCapsMaxResults(t *testing.T) {
	listings := make([]models.Listing, 6)
	for i := range listings {
		listings[i] = models.Listing{
			Title:    "iPhone 16 Pro",
			Price:    float64(500 + i*10),
			Currency: "USD",
			Link:     "https://a/p",
			Source:   "Amazon US",
		}
	}
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Amazon US": {Method: scraper.MethodFast, Listings: listings},
		},
	}
	svc := newSearchService(fetcher)

	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Query:      "iPhone 16 Pro",
		Country:    "US",
		MaxResults: 3,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
	assert.Equal(t, 6, resp.Metadata.TotalFound)
	assert.Equal(t, 3, resp.Metadata.TotalResults)
}

func TestSearchCategoryRestrictsSites(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := newSearchService(fetcher)

	// A fashion query in India should skip the electronics-only sites.
	_, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "summer dress",
		Country: "IN",
	})

	require.NoError(t, err)
	assert.Contains(t, fetcher.scraped, "Myntra")
	assert.Contains(t, fetcher.scraped, "Amazon India")
	assert.NotContains(t, fetcher.scraped, "Croma")
	assert.NotContains(t, fetcher.scraped, "Sangeetha Mobiles")
}

func TestTestSitePartialNameMatch(t *testing.T) {
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Flipkart": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{{
					Title: "iPhone 16 Pro", Price: 82999, Currency: "INR",
					Link: "https://www.flipkart.com/p/1", Source: "Flipkart",
				}},
			},
		},
	}
	svc := newSearchService(fetcher)

	result, err := svc.TestSite(context.Background(), "flip", "IN", "iPhone 16 Pro")

	require.NoError(t, err)
	assert.Equal(t, "Flipkart", result.Site)
	assert.Len(t, result.Listings, 1)
}

func TestTestSiteNotFound(t *testing.T) {
	svc := newSearchService(&stubFetcher{})

	_, err := svc.TestSite(context.Background(), "nosuchsite", "US", "iPhone 16 Pro")

	var notFound *services.SiteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nosuchsite", notFound.Site)
	assert.Contains(t, notFound.Available, "Amazon US")
}

func TestCompareCountries(t *testing.T) {
	fetcher := &stubFetcher{
		resultsBySite: map[string]scraper.SiteResult{
			"Amazon US": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{{
					Title: "iPhone 16 Pro", Price: 999, Currency: "USD",
					Link: "https://a/1", Source: "Amazon US",
				}},
			},
			"Amazon India": {
				Method: scraper.MethodFast,
				Listings: []models.Listing{{
					Title: "iPhone 16 Pro", Price: 82999, Currency: "INR",
					Link: "https://a/2", Source: "Amazon India",
				}},
			},
		},
	}
	svc := newSearchService(fetcher)

	comparisons := svc.CompareCountries(context.Background(), "iPhone 16 Pro", []string{"US", "IN", "ZZ"})

	require.Len(t, comparisons, 3)

	assert.Equal(t, "US", comparisons[0].Country)
	assert.Equal(t, "USD", comparisons[0].Currency)
	require.Len(t, comparisons[0].Products, 1)
	assert.InDelta(t, 999, comparisons[0].Products[0].NormalizedPrice, 1e-9)

	assert.Equal(t, "INR", comparisons[1].Currency)
	require.Len(t, comparisons[1].Products, 1)

	assert.Equal(t, "ZZ", comparisons[2].Country)
	assert.NotEmpty(t, comparisons[2].Error)
	assert.Empty(t, comparisons[2].Products)

	// Only the two highest-priority sites per country are scraped.
	assert.NotContains(t, fetcher.scraped, "Target")
}
