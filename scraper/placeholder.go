package scraper

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
)

// Placeholder data for degraded mode. Zero-result sites are backfilled with
// synthetic listings so downstream stages see non-empty input during demos.

var placeholderSuffixes = []string{
	"",
	" - Premium Edition",
	" Pro",
	" (Latest Model)",
	" - Best Seller",
}

var (
	placeholderColors   = []string{"Black", "White", "Blue", "Silver", "Red"}
	placeholderStorages = []string{"64GB", "128GB", "256GB", "512GB"}
)

// PlaceholderListings synthesizes 2-3 plausible listings for a site. Prices
// vary around a random base and the currency is inferred from the site's
// locale.
func PlaceholderListings(site config.SiteConfig, query string) []models.Listing {
	count := 2 + rand.Intn(2)
	basePrice := 100 + rand.Float64()*500
	currency := currencyForSite(site.Name)

	listings := make([]models.Listing, 0, count)
	for i := 0; i < count; i++ {
		price := basePrice + float64(i*50) + rand.Float64()*100
		listings = append(listings, models.Listing{
			Title:    placeholderTitle(query, i),
			Price:    math.Round(price),
			Currency: currency,
			Link:     fmt.Sprintf("%s/product-%d", site.BaseURL, i+1),
			Source:   site.Name,
		})
	}
	return listings
}

func placeholderTitle(query string, index int) string {
	title := query + placeholderSuffixes[index%len(placeholderSuffixes)]

	queryLower := strings.ToLower(query)
	if strings.Contains(queryLower, "phone") || strings.Contains(queryLower, "iphone") || strings.Contains(queryLower, "galaxy") {
		title += fmt.Sprintf(" %s %s",
			placeholderStorages[index%len(placeholderStorages)],
			placeholderColors[index%len(placeholderColors)])
	}
	return title
}

// currencyForSite infers a currency from the site's locale hints in its
// name. Used only for placeholder data.
func currencyForSite(siteName string) string {
	switch {
	case strings.Contains(siteName, "India"):
		return "INR"
	case strings.Contains(siteName, "UK"):
		return "GBP"
	case strings.Contains(siteName, "Germany"):
		return "EUR"
	case strings.Contains(siteName, "Australia"):
		return "AUD"
	case strings.Contains(siteName, "Canada"):
		return "CAD"
	default:
		return "USD"
	}
}
