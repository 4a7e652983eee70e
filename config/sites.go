package config

import (
	"sort"
	"strings"
)

// Selectors names where listing fields live in a site's search results page.
// Each entry may hold comma-separated alternatives; the first that yields
// non-empty content wins.
type Selectors struct {
	Products string
	Title    string
	Price    string
	Link     string
	Image    string
}

// SiteConfig describes one e-commerce site for one country. SearchURL
// contains a {{query}} placeholder. Priority is a tie-break weight: higher
// priority sites are scraped preferentially when the site list is truncated.
// An empty Categories list means the site applies to all product categories.
type SiteConfig struct {
	Name       string
	BaseURL    string
	SearchURL  string
	Priority   int
	Categories []string
	Selectors  Selectors
}

var amazonSelectors = Selectors{
	Products: `[data-component-type="s-search-result"]`,
	Title:    "h2 a span, h2 a",
	Price:    ".a-price-whole, .a-price .a-offscreen",
	Link:     "h2 a",
	Image:    ".s-image",
}

var sitesByCountry = map[string][]SiteConfig{
	"US": {
		{
			Name:      "Amazon US",
			BaseURL:   "https://www.amazon.com",
			SearchURL: "https://www.amazon.com/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:      "Best Buy",
			BaseURL:   "https://www.bestbuy.com",
			SearchURL: "https://www.bestbuy.com/site/searchpage.jsp?st={{query}}",
			Priority:  8,
			Selectors: Selectors{
				Products: ".sku-item",
				Title:    ".sku-header a",
				Price:    ".pricing-current-price .sr-only",
				Link:     ".sku-header a",
				Image:    ".product-image img",
			},
		},
		{
			Name:      "Walmart",
			BaseURL:   "https://www.walmart.com",
			SearchURL: "https://www.walmart.com/search/?query={{query}}",
			Priority:  9,
			Selectors: Selectors{
				Products: `[data-automation-id="product-title"]`,
				Title:    `[data-automation-id="product-title"]`,
				Price:    `[itemprop="price"]`,
				Link:     `[data-automation-id="product-title"]`,
				Image:    `img[data-automation-id="product-image"]`,
			},
		},
		{
			Name:      "Target",
			BaseURL:   "https://www.target.com",
			SearchURL: "https://www.target.com/s?searchTerm={{query}}",
			Priority:  7,
			Selectors: Selectors{
				Products: `[data-test="product-details"]`,
				Title:    `[data-test="product-title"]`,
				Price:    `[data-test="product-price"]`,
				Link:     `[data-test="product-title"] a`,
				Image:    "img[alt]",
			},
		},
	},
	"IN": {
		{
			Name:      "Amazon India",
			BaseURL:   "https://www.amazon.in",
			SearchURL: "https://www.amazon.in/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:      "Flipkart",
			BaseURL:   "https://www.flipkart.com",
			SearchURL: "https://www.flipkart.com/search?q={{query}}",
			Priority:  10,
			Selectors: Selectors{
				Products: "._1AtVbE",
				Title:    "._4rR01T",
				Price:    "._30jeq3",
				Link:     "._1fQZEK",
				Image:    "._396cs4",
			},
		},
		{
			Name:       "Myntra",
			BaseURL:    "https://www.myntra.com",
			SearchURL:  "https://www.myntra.com/{{query}}",
			Priority:   6,
			Categories: []string{"fashion", "clothing", "shoes", "accessories"},
			Selectors: Selectors{
				Products: ".product-base",
				Title:    ".product-brand, .product-product",
				Price:    ".product-discountedPrice",
				Link:     "a",
				Image:    ".product-imageSliderContainer img",
			},
		},
		{
			Name:       "Croma",
			BaseURL:    "https://www.croma.com",
			SearchURL:  "https://www.croma.com/search/?text={{query}}",
			Priority:   7,
			Categories: []string{"electronics", "mobile", "laptop", "tv"},
			Selectors: Selectors{
				Products: ".product-item",
				Title:    ".product-title",
				Price:    ".price",
				Link:     "a",
				Image:    ".product-image img",
			},
		},
		{
			Name:       "Sangeetha Mobiles",
			BaseURL:    "https://www.sangeethaaobiles.com",
			SearchURL:  "https://www.sangeethaaobiles.com/search?q={{query}}",
			Priority:   8,
			Categories: []string{"mobile", "phone", "smartphone"},
			Selectors: Selectors{
				Products: ".product-item-info",
				Title:    ".product-item-link",
				Price:    ".price",
				Link:     ".product-item-link",
				Image:    ".product-image-photo",
			},
		},
	},
	"GB": {
		{
			Name:      "Amazon UK",
			BaseURL:   "https://www.amazon.co.uk",
			SearchURL: "https://www.amazon.co.uk/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:       "Currys",
			BaseURL:    "https://www.currys.co.uk",
			SearchURL:  "https://www.currys.co.uk/search?q={{query}}",
			Priority:   8,
			Categories: []string{"electronics", "mobile", "laptop", "tv"},
			Selectors: Selectors{
				Products: ".product-result",
				Title:    ".product-title",
				Price:    ".price",
				Link:     "a",
				Image:    ".product-image img",
			},
		},
		{
			Name:      "Argos",
			BaseURL:   "https://www.argos.co.uk",
			SearchURL: "https://www.argos.co.uk/search/{{query}}/",
			Priority:  7,
			Selectors: Selectors{
				Products: ".ProductCardstyles__Wrapper",
				Title:    ".ProductCardstyles__Title",
				Price:    ".ProductCardstyles__PriceText",
				Link:     ".ProductCardstyles__Link",
				Image:    ".ProductCardstyles__Image img",
			},
		},
	},
	"DE": {
		{
			Name:      "Amazon Germany",
			BaseURL:   "https://www.amazon.de",
			SearchURL: "https://www.amazon.de/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:      "Otto",
			BaseURL:   "https://www.otto.de",
			SearchURL: "https://www.otto.de/suche/{{query}}/",
			Priority:  8,
			Selectors: Selectors{
				Products: ".productTile",
				Title:    ".productTile__title",
				Price:    ".productTile__price",
				Link:     ".productTile__link",
				Image:    ".productTile__image img",
			},
		},
	},
	"AU": {
		{
			Name:      "Amazon Australia",
			BaseURL:   "https://www.amazon.com.au",
			SearchURL: "https://www.amazon.com.au/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:       "JB Hi-Fi",
			BaseURL:    "https://www.jbhifi.com.au",
			SearchURL:  "https://www.jbhifi.com.au/search?query={{query}}",
			Priority:   8,
			Categories: []string{"electronics", "mobile", "laptop", "tv", "gaming"},
			Selectors: Selectors{
				Products: ".product-item",
				Title:    ".product-title",
				Price:    ".price",
				Link:     "a",
				Image:    ".product-image img",
			},
		},
	},
	"CA": {
		{
			Name:      "Amazon Canada",
			BaseURL:   "https://www.amazon.ca",
			SearchURL: "https://www.amazon.ca/s?k={{query}}&ref=nb_sb_noss",
			Priority:  10,
			Selectors: amazonSelectors,
		},
		{
			Name:      "Best Buy Canada",
			BaseURL:   "https://www.bestbuy.ca",
			SearchURL: "https://www.bestbuy.ca/en-ca/search?search={{query}}",
			Priority:  8,
			Selectors: Selectors{
				Products: ".product-item",
				Title:    ".product-title",
				Price:    ".screenReaderOnly",
				Link:     ".product-title a",
				Image:    ".product-image img",
			},
		},
	},
}

var currencyByCountry = map[string]string{
	"US": "USD",
	"IN": "INR",
	"GB": "GBP",
	"DE": "EUR",
	"AU": "AUD",
	"CA": "CAD",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"JP": "JPY",
	"KR": "KRW",
	"CN": "CNY",
	"BR": "BRL",
	"MX": "MXN",
}

// productCategories maps categories to the query keywords that imply them.
// Checked in order; the first matching category wins.
var productCategories = []struct {
	name     string
	keywords []string
}{
	{"electronics", []string{"mobile", "phone", "laptop", "computer", "tv", "camera", "headphones", "speakers"}},
	{"fashion", []string{"clothing", "shoes", "dress", "shirt", "pants", "jacket", "accessories"}},
	{"home", []string{"furniture", "kitchen", "appliance", "bedding", "decor"}},
	{"sports", []string{"fitness", "sports", "outdoor", "exercise", "gym"}},
	{"books", []string{"book", "novel", "textbook", "magazine"}},
	{"automotive", []string{"car", "auto", "motorcycle", "parts"}},
}

// SitesForCountry returns the site catalog for a country code,
// case-insensitive. Unknown countries yield an empty slice.
func SitesForCountry(countryCode string) []SiteConfig {
	sites, ok := sitesByCountry[strings.ToUpper(countryCode)]
	if !ok {
		return nil
	}
	out := make([]SiteConfig, len(sites))
	copy(out, sites)
	return out
}

// CurrencyForCountry returns the ISO currency code for a country,
// defaulting to USD when the country is not in the table.
func CurrencyForCountry(countryCode string) string {
	if currency, ok := currencyByCountry[strings.ToUpper(countryCode)]; ok {
		return currency
	}
	return "USD"
}

// CategorizeQuery maps a search query to a product category via keyword
// lookup. Queries matching no category are "general".
func CategorizeQuery(query string) string {
	queryLower := strings.ToLower(query)
	for _, category := range productCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(queryLower, keyword) {
				return category.name
			}
		}
	}
	return "general"
}

// SupportedCountries lists the country codes with at least one configured
// site, sorted for stable API responses.
func SupportedCountries() []string {
	countries := make([]string, 0, len(sitesByCountry))
	for code := range sitesByCountry {
		countries = append(countries, code)
	}
	sort.Strings(countries)
	return countries
}
