package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redston-maverick/global-price-scraper/models"
	"github.com/redston-maverick/global-price-scraper/services"
)

func listingsWithTitles(titles ...string) []models.Listing {
	listings := make([]models.Listing, len(titles))
	for i, title := range titles {
		listings[i] = models.Listing{
			Title:    title,
			Price:    100,
			Currency: "USD",
			Link:     "https://example.com/p",
			Source:   "Test Site",
		}
	}
	return listings
}

func TestFilterRelevantKeepsMatchingTitles(t *testing.T) {
	listings := listingsWithTitles(
		"iPhone 16 Pro 128GB Black",
		"iPhone 16 Pro Max Case",
		"Garden Hose 25ft",
	)

	filtered := services.FilterRelevant(listings, "iPhone 16 Pro")

	require.Len(t, filtered, 2)
	assert.Equal(t, "iPhone 16 Pro 128GB Black", filtered[0].Title)
	assert.Equal(t, "iPhone 16 Pro Max Case", filtered[1].Title)
}

func TestFilterRelevantDropsUnrelatedTitles(t *testing.T) {
	listings := listingsWithTitles("Android Tablet 10in", "Washing Machine Deluxe")

	filtered := services.FilterRelevant(listings, "iPhone 16 Pro")

	assert.Empty(t, filtered)
}

func TestFilterRelevantExactRatioAlone(t *testing.T) {
	// One exact token out of four (25%) clears the 20% exact threshold even
	// though the 40% match-ratio threshold is missed.
	listings := listingsWithTitles("universal laptop sleeve")

	filtered := services.FilterRelevant(listings, "gaming laptop stand cooler rgb")

	assert.Len(t, filtered, 1)
}

func TestFilterRelevantIsIdempotent(t *testing.T) {
	listings := listingsWithTitles(
		"iPhone 16 Pro 128GB Black",
		"Android Tablet 10in",
		"iPhone Charger Cable",
	)
	query := "iPhone 16 Pro"

	once := services.FilterRelevant(listings, query)
	twice := services.FilterRelevant(once, query)

	assert.Equal(t, once, twice)
}

func TestFilterRelevantShortTokenQueryPassesThrough(t *testing.T) {
	// Every query token is too short to use, so the set is unfiltered.
	listings := listingsWithTitles("Completely Unrelated Product", "Another One")

	filtered := services.FilterRelevant(listings, "a to z")

	assert.Equal(t, listings, filtered)
}

func TestRelevanceScoreExactMatch(t *testing.T) {
	score := services.RelevanceScore("iphone pro", "iphone pro")

	// Two exact hits: base 1.0 plus the full exact bonus, capped at 1.0.
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestRelevanceScorePartialMatch(t *testing.T) {
	// "iphone" partially matches "iphones" (0.5); "pro" finds nothing.
	score := services.RelevanceScore("iphone pro", "iphones on sale")

	assert.InDelta(t, 0.25, score, 1e-9)
}

func TestRelevanceScoreFloor(t *testing.T) {
	score := services.RelevanceScore("iphone pro", "garden hose")

	assert.InDelta(t, 0.1, score, 1e-9)
}

func TestRelevanceScoreEmptyTokensNeutral(t *testing.T) {
	assert.InDelta(t, 0.5, services.RelevanceScore("a b", "anything"), 1e-9)
}

func TestEnhancePopulatesFields(t *testing.T) {
	listings := listingsWithTitles("iPhone 16 Pro 256GB Black")
	listings[0].Price = 1024

	enhanced := services.Enhance(listings, "iPhone 16 Pro")

	require.Len(t, enhanced, 1)
	assert.Greater(t, enhanced[0].RelevanceScore, 0.5)
	assert.Equal(t, "256GB", enhanced[0].Specifications.Storage)
	assert.Equal(t, "Black", enhanced[0].Specifications.Color)
	assert.InDelta(t, 4.0, enhanced[0].PricePerUnit, 1e-9)
}
