package models

import "time"

// Listing is one scraped product record from a single site. Listings are
// ephemeral: they live for a single pipeline run and are never persisted.
type Listing struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Link     string  `json:"link"`
	Image    string  `json:"image,omitempty"`
	Source   string  `json:"source"`

	// Enrichment fields, populated after relevance scoring.
	RelevanceScore float64        `json:"relevanceScore,omitempty"`
	Specifications Specifications `json:"specifications,omitempty"`
	PricePerUnit   float64        `json:"pricePerUnit,omitempty"`
}

// Specifications holds product attributes extracted opportunistically from
// the listing title. Fields are empty when the title carries no match.
type Specifications struct {
	Storage    string `json:"storage,omitempty"`
	RAM        string `json:"ram,omitempty"`
	ScreenSize string `json:"screenSize,omitempty"`
	Color      string `json:"color,omitempty"`
}

// IsEmpty reports whether no specification field was extracted.
func (s Specifications) IsEmpty() bool {
	return s == Specifications{}
}

// Savings compares a listing's price against the most expensive listing in
// the same result set.
type Savings struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// RankedListing is a listing after currency normalization and ranking.
// NormalizedPrice is always in the target country's currency and always
// positive; listings with invalid prices are dropped before ranking.
type RankedListing struct {
	Link             string         `json:"link"`
	Price            string         `json:"price"`
	Currency         string         `json:"currency"`
	ProductName      string         `json:"productName"`
	Source           string         `json:"source"`
	Image            string         `json:"image,omitempty"`
	OriginalPrice    float64        `json:"originalPrice"`
	OriginalCurrency string         `json:"originalCurrency"`
	NormalizedPrice  float64        `json:"normalizedPrice"`
	Rank             int            `json:"rank"`
	PriceRank        int            `json:"priceRank"`
	Savings          Savings        `json:"savings"`
	Availability     string         `json:"availability"`
	TrustScore       float64        `json:"trustScore"`
	RelevanceScore   float64        `json:"relevanceScore"`
	Specifications   Specifications `json:"specifications,omitempty"`
	PricePerUnit     float64        `json:"pricePerUnit,omitempty"`
	LastUpdated      time.Time      `json:"lastUpdated"`
}

// PriceStatistics summarizes the normalized prices of a result set.
type PriceStatistics struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
	Range    float64 `json:"range"`
	Currency string  `json:"currency"`
}
