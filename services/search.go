package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
	"github.com/redston-maverick/global-price-scraper/scraper"
)

const defaultMaxResults = 20

// comparisonSitesPerCountry limits how many sites a cross-country
// comparison hits per country; the highest-priority sites win.
const comparisonSitesPerCountry = 2

// comparisonResultsPerCountry caps the listings reported per country in a
// comparison.
const comparisonResultsPerCountry = 3

// SiteFetcher is the fetch layer consumed by the search pipeline.
type SiteFetcher interface {
	ScrapeSites(ctx context.Context, sites []config.SiteConfig, query, targetCurrency string) []scraper.SiteResult
	ScrapeSite(ctx context.Context, site config.SiteConfig, query, targetCurrency string) scraper.SiteResult
}

// UnsupportedCountryError reports a country with no configured sites,
// carrying the supported list for the client.
type UnsupportedCountryError struct {
	Country   string
	Supported []string
}

func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("country not supported: %s", e.Country)
}

// SearchService runs the full aggregation pipeline: catalog lookup,
// category-based site selection, gated parallel fetching, relevance
// filtering, and currency-normalized ranking.
type SearchService struct {
	fetcher SiteFetcher
	prices  *PriceService
	log     *zap.SugaredLogger
}

// NewSearchService wires the pipeline.
func NewSearchService(fetcher SiteFetcher, prices *PriceService, log *zap.SugaredLogger) *SearchService {
	return &SearchService{fetcher: fetcher, prices: prices, log: log}
}

// Search executes one query end to end. Per-site failures are folded into
// the metadata; only an unsupported country is surfaced as an error. A run
// where every site fails is a valid empty response.
func (s *SearchService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()

	sites := config.SitesForCountry(req.Country)
	if len(sites) == 0 {
		return nil, &UnsupportedCountryError{
			Country:   req.Country,
			Supported: config.SupportedCountries(),
		}
	}

	category := config.CategorizeQuery(req.Query)
	sitesToScrape := selectSites(sites, category)
	targetCurrency := config.CurrencyForCountry(req.Country)

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	filters := models.AppliedFilters{
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		MaxResults: maxResults,
		Category:   category,
	}

	s.log.Infow("price search started",
		"query", req.Query, "country", req.Country, "category", category, "sites", len(sitesToScrape))

	siteResults := s.fetcher.ScrapeSites(ctx, sitesToScrape, req.Query, targetCurrency)

	var allListings []models.Listing
	siteNames := make([]string, 0, len(siteResults))
	outcomes := make([]models.SiteOutcome, 0, len(siteResults))
	for _, result := range siteResults {
		allListings = append(allListings, result.Listings...)
		siteNames = append(siteNames, result.Site)
		outcomes = append(outcomes, result.Outcome())
	}

	metadata := models.SearchMetadata{
		Query:         req.Query,
		Country:       req.Country,
		TotalFound:    len(allListings),
		SitesSearched: len(sitesToScrape),
		SitesUsed:     siteNames,
		SiteOutcomes:  outcomes,
		Filters:       filters,
		LastUpdated:   time.Now().UTC(),
	}

	if len(allListings) == 0 {
		metadata.Message = "No products found for this query"
		metadata.ProcessingTimeMS = time.Since(start).Milliseconds()
		return &models.SearchResponse{Results: []models.RankedListing{}, Metadata: metadata}, nil
	}

	relevant := FilterRelevant(allListings, req.Query)
	enhanced := Enhance(relevant, req.Query)
	ranked := s.prices.Rank(enhanced, targetCurrency)

	if req.MinPrice != nil || req.MaxPrice != nil {
		ranked = s.prices.FilterByPriceRange(ranked, req.MinPrice, req.MaxPrice, targetCurrency, targetCurrency)
	}

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	metadata.TotalResults = len(ranked)
	metadata.PriceStatistics = s.prices.Statistics(ranked)
	metadata.ProcessingTimeMS = time.Since(start).Milliseconds()

	s.log.Infow("price search completed",
		"query", req.Query, "results", len(ranked), "elapsedMs", metadata.ProcessingTimeMS)

	return &models.SearchResponse{Results: ranked, Metadata: metadata}, nil
}

// TestSite scrapes a single site by (partial, case-insensitive) name.
// Returns the raw listings without relevance filtering or ranking.
func (s *SearchService) TestSite(ctx context.Context, siteName, country, query string) (scraper.SiteResult, error) {
	sites := config.SitesForCountry(country)

	var target *config.SiteConfig
	for i := range sites {
		if strings.Contains(strings.ToLower(sites[i].Name), strings.ToLower(siteName)) {
			target = &sites[i]
			break
		}
	}
	if target == nil {
		available := make([]string, len(sites))
		for i, site := range sites {
			available[i] = site.Name
		}
		return scraper.SiteResult{}, &SiteNotFoundError{Site: siteName, Available: available}
	}

	targetCurrency := config.CurrencyForCountry(country)
	return s.fetcher.ScrapeSite(ctx, *target, query, targetCurrency), nil
}

// SiteNotFoundError reports a test-site lookup miss with the catalog's
// available site names.
type SiteNotFoundError struct {
	Site      string
	Available []string
}

func (e *SiteNotFoundError) Error() string {
	return fmt.Sprintf("site not found: %s", e.Site)
}

// CompareCountries runs a trimmed pipeline for the query across several
// countries: the top sites per country by priority, the cheapest few
// results each, plus per-country statistics. A failing country is reported
// inline, never aborts the comparison.
func (s *SearchService) CompareCountries(ctx context.Context, query string, countries []string) []models.CountryComparison {
	comparisons := make([]models.CountryComparison, 0, len(countries))

	for _, country := range countries {
		comparison := models.CountryComparison{
			Country:  country,
			Currency: config.CurrencyForCountry(country),
			Products: []models.RankedListing{},
		}

		sites := config.SitesForCountry(country)
		if len(sites) == 0 {
			comparison.Error = fmt.Sprintf("country not supported: %s", country)
			comparisons = append(comparisons, comparison)
			continue
		}

		sortByPriority(sites)
		if len(sites) > comparisonSitesPerCountry {
			sites = sites[:comparisonSitesPerCountry]
		}

		var listings []models.Listing
		for _, result := range s.fetcher.ScrapeSites(ctx, sites, query, comparison.Currency) {
			listings = append(listings, result.Listings...)
		}

		relevant := FilterRelevant(listings, query)
		enhanced := Enhance(relevant, query)
		ranked := s.prices.Rank(enhanced, comparison.Currency)

		comparison.Statistics = s.prices.Statistics(ranked)
		if len(ranked) > comparisonResultsPerCountry {
			ranked = ranked[:comparisonResultsPerCountry]
		}
		comparison.Products = ranked

		comparisons = append(comparisons, comparison)
	}

	return comparisons
}

// selectSites keeps the sites applicable to the query's category (sites
// without category tags apply to everything), falling back to the full list
// when the category matches nothing, and orders by priority descending.
func selectSites(sites []config.SiteConfig, category string) []config.SiteConfig {
	relevant := make([]config.SiteConfig, 0, len(sites))
	for _, site := range sites {
		if len(site.Categories) == 0 || containsString(site.Categories, category) {
			relevant = append(relevant, site)
		}
	}
	if len(relevant) == 0 {
		relevant = sites
	}

	sortByPriority(relevant)
	return relevant
}

func sortByPriority(sites []config.SiteConfig) {
	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Priority > sites[j].Priority
	})
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
