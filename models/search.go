package models

import "time"

// SearchRequest is the core-facing search contract. Country is an ISO-2
// code; MinPrice and MaxPrice are expressed in the target country's currency.
type SearchRequest struct {
	Query      string   `json:"query"`
	Country    string   `json:"country"`
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// AppliedFilters echoes the filters that shaped a result set.
type AppliedFilters struct {
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	MaxResults int      `json:"maxResults"`
	Category   string   `json:"category"`
}

// SiteOutcome records how a single site-fetch task ended. Failures are
// captured here for observability instead of aborting the batch.
type SiteOutcome struct {
	Site     string `json:"site"`
	Listings int    `json:"listings"`
	Method   string `json:"method"`
	Error    string `json:"error,omitempty"`
	Elapsed  int64  `json:"elapsedMs"`
}

// SearchMetadata is the metadata block attached to every search response.
type SearchMetadata struct {
	Query            string           `json:"query"`
	Country          string           `json:"country"`
	TotalResults     int              `json:"totalResults"`
	TotalFound       int              `json:"totalFound"`
	SitesSearched    int              `json:"sitesSearched"`
	SitesUsed        []string         `json:"sitesUsed"`
	SiteOutcomes     []SiteOutcome    `json:"siteOutcomes,omitempty"`
	ProcessingTimeMS int64            `json:"processingTime"`
	PriceStatistics  *PriceStatistics `json:"priceStatistics,omitempty"`
	Filters          AppliedFilters   `json:"filters"`
	Message          string           `json:"message,omitempty"`
	LastUpdated      time.Time        `json:"lastUpdated"`
}

// SearchResponse is the full payload returned for one search.
type SearchResponse struct {
	Results  []RankedListing `json:"results"`
	Metadata SearchMetadata  `json:"metadata"`
}

// CountryComparison is one country's slice of a cross-country comparison.
type CountryComparison struct {
	Country    string           `json:"country"`
	Currency   string           `json:"currency"`
	Products   []RankedListing  `json:"products"`
	Statistics *PriceStatistics `json:"statistics,omitempty"`
	Error      string           `json:"error,omitempty"`
}
