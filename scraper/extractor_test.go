package scraper_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/scraper"
)

var testSite = config.SiteConfig{
	Name:      "Test Shop",
	BaseURL:   "https://shop.example.com",
	SearchURL: "https://shop.example.com/search?q={{query}}",
	Selectors: config.Selectors{
		Products: ".product",
		Title:    ".name, .title",
		Price:    ".price",
		Link:     "a",
		Image:    "img",
	},
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractListings(t *testing.T) {
	doc := parseHTML(t, `
		<div class="product">
			<span class="title">iPhone 16 Pro 128GB</span>
			<span class="price">$999.00</span>
			<a href="/p/iphone-16-pro">View</a>
			<img src="https://cdn.example.com/iphone.jpg">
		</div>
		<div class="product">
			<span class="title">iPhone 16 Pro Case</span>
			<span class="price">$29.99</span>
			<a href="p/case">View</a>
			<img data-src="/images/case.jpg">
		</div>`)

	listings := scraper.ExtractListings(doc, testSite, "USD")

	require.Len(t, listings, 2)

	assert.Equal(t, "iPhone 16 Pro 128GB", listings[0].Title)
	assert.InDelta(t, 999, listings[0].Price, 1e-9)
	assert.Equal(t, "USD", listings[0].Currency)
	assert.Equal(t, "https://shop.example.com/p/iphone-16-pro", listings[0].Link)
	assert.Equal(t, "https://cdn.example.com/iphone.jpg", listings[0].Image)
	assert.Equal(t, "Test Shop", listings[0].Source)

	// Bare-relative link and lazy-load image attribute.
	assert.Equal(t, "https://shop.example.com/p/case", listings[1].Link)
	assert.Equal(t, "https://shop.example.com/images/case.jpg", listings[1].Image)
}

func TestExtractListingsSelectorAlternatives(t *testing.T) {
	// No .name element; the second alternative .title must be used.
	doc := parseHTML(t, `
		<div class="product">
			<span class="title">Fallback Title</span>
			<span class="price">$10.00</span>
			<a href="/p/1">View</a>
		</div>`)

	listings := scraper.ExtractListings(doc, testSite, "USD")

	require.Len(t, listings, 1)
	assert.Equal(t, "Fallback Title", listings[0].Title)
	assert.Empty(t, listings[0].Image)
}

func TestExtractListingsDropsIncompleteCandidates(t *testing.T) {
	doc := parseHTML(t, `
		<div class="product">
			<span class="price">$49.99</span>
			<a href="/p/no-title">View</a>
		</div>
		<div class="product">
			<span class="title">No Price Product</span>
			<a href="/p/no-price">View</a>
		</div>
		<div class="product">
			<span class="title">Unparsable Price</span>
			<span class="price">Call for price</span>
			<a href="/p/call">View</a>
		</div>
		<div class="product">
			<span class="title">No Link Product</span>
			<span class="price">$15.00</span>
		</div>
		<div class="product">
			<span class="title">Complete Product</span>
			<span class="price">$20.00</span>
			<a href="/p/ok">View</a>
		</div>`)

	listings := scraper.ExtractListings(doc, testSite, "USD")

	require.Len(t, listings, 1)
	assert.Equal(t, "Complete Product", listings[0].Title)
}

func TestExtractListingsCapsPerSite(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<div class="product">
			<span class="title">Product %d</span>
			<span class="price">$%d.00</span>
			<a href="/p/%d">View</a>
		</div>`, i, 10+i, i)
	}
	doc := parseHTML(t, b.String())

	listings := scraper.ExtractListings(doc, testSite, "USD")

	assert.Len(t, listings, 10)
	assert.Equal(t, "Product 0", listings[0].Title)
}

func TestExtractListingsCurrencyFromSymbol(t *testing.T) {
	doc := parseHTML(t, `
		<div class="product">
			<span class="title">Imported Gadget</span>
			<span class="price">₹82,999</span>
			<a href="/p/1">View</a>
		</div>`)

	listings := scraper.ExtractListings(doc, testSite, "USD")

	require.Len(t, listings, 1)
	assert.Equal(t, "INR", listings[0].Currency)
	assert.InDelta(t, 82999, listings[0].Price, 1e-9)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"$999.00", 999},
		{"₹82,999", 82999},
		{"£1,299.99", 1299.99},
		{"  $ 49.99  ", 49.99},
		{"¥149,500", 149500},
		{"USD 25.50", 25.50},
		// European separators: the comma is stripped, the dot is kept, so
		// the value parses as a plain decimal.
		{"€1.234,56", 1.23456},
		{"", 0},
		{"Call for price", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, scraper.ParsePrice(tt.text), 1e-9, "text %q", tt.text)
	}
}

func TestCurrencyFromText(t *testing.T) {
	assert.Equal(t, "INR", scraper.CurrencyFromText("₹82,999", "USD"))
	assert.Equal(t, "USD", scraper.CurrencyFromText("$999", "INR"))
	assert.Equal(t, "GBP", scraper.CurrencyFromText("£12.50", "USD"))
	assert.Equal(t, "EUR", scraper.CurrencyFromText("€15,99", "USD"))
	assert.Equal(t, "JPY", scraper.CurrencyFromText("¥1000", "USD"))
	assert.Equal(t, "KRW", scraper.CurrencyFromText("₩5000", "USD"))
	assert.Equal(t, "INR", scraper.CurrencyFromText("1299", "INR"))
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://shop.example.com/search?q=iPhone+16+Pro",
		scraper.SearchURL(testSite, "iPhone 16 Pro"))
}
