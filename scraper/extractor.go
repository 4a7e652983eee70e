package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
)

// maxListingsPerSite caps how many listing containers are read per site.
const maxListingsPerSite = 10

var (
	currencySymbolRe = regexp.MustCompile(`[₹$£€¥₩]`)
	nonNumericRe     = regexp.MustCompile(`[^\d.]`)
	whitespaceRe     = regexp.MustCompile(`[,\s]`)
)

// symbolCurrencies maps price-text symbols to ISO currency codes.
var symbolCurrencies = []struct {
	symbol   string
	currency string
}{
	{"₹", "INR"},
	{"$", "USD"},
	{"£", "GBP"},
	{"€", "EUR"},
	{"¥", "JPY"},
	{"₩", "KRW"},
}

// ExtractListings applies a site's selector map to a parsed document and
// returns up to maxListingsPerSite listings. Candidates missing a title, a
// parseable price, or a link are dropped, not defaulted. fallbackCurrency is
// used when the price text carries no recognizable symbol; it should be the
// target market's currency.
func ExtractListings(doc *goquery.Document, site config.SiteConfig, fallbackCurrency string) []models.Listing {
	var listings []models.Listing

	doc.Find(site.Selectors.Products).EachWithBreak(func(i int, container *goquery.Selection) bool {
		if i >= maxListingsPerSite {
			return false
		}

		title := firstText(container, site.Selectors.Title)
		priceText := firstText(container, site.Selectors.Price)
		price := ParsePrice(priceText)
		link := firstLink(container, site.Selectors.Link, site.BaseURL)
		image := firstImage(container, site.Selectors.Image, site.BaseURL)

		if title == "" || price <= 0 || link == "" {
			return true
		}

		listings = append(listings, models.Listing{
			Title:    strings.TrimSpace(title),
			Price:    price,
			Currency: CurrencyFromText(priceText, fallbackCurrency),
			Link:     link,
			Image:    image,
			Source:   site.Name,
		})
		return true
	})

	return listings
}

// firstText resolves a comma-separated selector alternative list against the
// container, returning the first non-empty text.
func firstText(container *goquery.Selection, selectorList string) string {
	for _, selector := range splitSelectors(selectorList) {
		if text := strings.TrimSpace(container.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstLink resolves the link selector list and absolutizes the href.
func firstLink(container *goquery.Selection, selectorList, baseURL string) string {
	for _, selector := range splitSelectors(selectorList) {
		el := container.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if href, ok := el.Attr("href"); ok && href != "" {
			return resolveURL(href, baseURL)
		}
	}
	return ""
}

// firstImage resolves the image selector list, trying the lazy-load source
// attributes sites commonly use before the plain src.
func firstImage(container *goquery.Selection, selectorList, baseURL string) string {
	for _, selector := range splitSelectors(selectorList) {
		el := container.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if src, ok := el.Attr(attr); ok && src != "" {
				return resolveURL(src, baseURL)
			}
		}
	}
	return ""
}

func splitSelectors(selectorList string) []string {
	parts := strings.Split(selectorList, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveURL rewrites root-relative and bare-relative URLs to absolute ones
// against the site's base URL.
func resolveURL(ref, baseURL string) string {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return baseURL + ref
	default:
		return baseURL + "/" + ref
	}
}

// ParsePrice strips currency symbols, thousands separators, and any other
// non-numeric characters before conversion. Unparsable text yields 0, which
// causes the listing to be dropped upstream.
func ParsePrice(priceText string) float64 {
	if priceText == "" {
		return 0
	}

	clean := currencySymbolRe.ReplaceAllString(priceText, "")
	clean = whitespaceRe.ReplaceAllString(clean, "")
	clean = nonNumericRe.ReplaceAllString(clean, "")

	price, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return price
}

// CurrencyFromText infers the ISO currency code from a symbol in the raw
// price text. Text without a known symbol falls back to the target market's
// currency rather than a global default.
func CurrencyFromText(priceText, fallback string) string {
	for _, entry := range symbolCurrencies {
		if strings.Contains(priceText, entry.symbol) {
			return entry.currency
		}
	}
	return fallback
}
