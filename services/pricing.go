package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/models"
)

// defaultExchangeRates is the static USD-denominated rate table. Rates are
// externally supplied, never live-fetched; EXCHANGE_RATES can override
// individual entries with a JSON object.
var defaultExchangeRates = map[string]float64{
	"USD": 1.0,
	"INR": 83.25,
	"GBP": 0.79,
	"EUR": 0.92,
	"AUD": 1.52,
	"CAD": 1.35,
	"JPY": 149.50,
	"KRW": 1320.0,
	"CNY": 7.25,
	"BRL": 5.12,
	"MXN": 17.85,
}

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"GBP": "£",
	"EUR": "€",
	"AUD": "A$",
	"CAD": "C$",
	"JPY": "¥",
	"KRW": "₩",
	"CNY": "¥",
	"BRL": "R$",
	"MXN": "$",
}

// zeroDecimalCurrencies render without decimal places and with thousands
// separators.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// trustScores is a static per-source reputation table.
var trustScores = map[string]float64{
	"Amazon US":         0.95,
	"Amazon India":      0.95,
	"Amazon UK":         0.95,
	"Amazon Germany":    0.95,
	"Amazon Australia":  0.95,
	"Amazon Canada":     0.95,
	"Best Buy":          0.90,
	"Best Buy Canada":   0.90,
	"Walmart":           0.85,
	"Target":            0.85,
	"Flipkart":          0.88,
	"Myntra":            0.82,
	"Croma":             0.80,
	"Sangeetha Mobiles": 0.75,
	"Currys":            0.80,
	"Argos":             0.78,
	"Otto":              0.75,
	"JB Hi-Fi":          0.80,
}

const defaultTrustScore = 0.70

var productNameCleanRe = regexp.MustCompile(`[^\w\s\-.,()]`)
var extraSpacesRe = regexp.MustCompile(`\s+`)

// PriceService converts prices into a target currency, ranks listings, and
// computes result-set statistics.
type PriceService struct {
	mu    sync.RWMutex
	rates map[string]float64
	log   *zap.SugaredLogger
}

// NewPriceService builds the service with default rates merged with any
// EXCHANGE_RATES overrides.
func NewPriceService(log *zap.SugaredLogger) *PriceService {
	s := &PriceService{
		rates: make(map[string]float64, len(defaultExchangeRates)),
		log:   log,
	}
	s.ReloadRates()
	return s
}

// ReloadRates re-reads the rate table: defaults plus overrides from the
// EXCHANGE_RATES environment variable (JSON object of code to per-USD
// rate). Called at startup and on the scheduler's reload tick.
func (s *PriceService) ReloadRates() {
	rates := make(map[string]float64, len(defaultExchangeRates))
	for code, rate := range defaultExchangeRates {
		rates[code] = rate
	}

	if raw := os.Getenv("EXCHANGE_RATES"); raw != "" {
		var overrides map[string]float64
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			s.log.Warnw("invalid EXCHANGE_RATES override, keeping defaults", "error", err)
		} else {
			for code, rate := range overrides {
				if rate > 0 {
					rates[strings.ToUpper(code)] = rate
				}
			}
		}
	}

	s.mu.Lock()
	s.rates = rates
	s.mu.Unlock()
}

// Convert converts a price between currencies via USD, rounded to 2
// decimals. A missing rate on either side returns the original price
// unconverted rather than failing.
func (s *PriceService) Convert(price float64, fromCurrency, toCurrency string) float64 {
	if price == 0 || fromCurrency == "" || toCurrency == "" {
		return 0
	}

	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)
	if fromCurrency == toCurrency {
		return price
	}

	s.mu.RLock()
	fromRate, fromOK := s.rates[fromCurrency]
	toRate, toOK := s.rates[toCurrency]
	s.mu.RUnlock()

	if !fromOK || !toOK {
		s.log.Warnw("exchange rate not found", "from", fromCurrency, "to", toCurrency)
		return price
	}

	usdPrice := price / fromRate
	return round2(usdPrice * toRate)
}

// FormatPrice renders a price with its currency symbol. Zero-decimal
// currencies render without decimals and with thousands separators; others
// with exactly 2 decimals.
func (s *PriceService) FormatPrice(price float64, currency string) string {
	if currency == "" {
		return "N/A"
	}

	currency = strings.ToUpper(currency)
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}

	if zeroDecimalCurrencies[currency] {
		return symbol + groupThousands(int64(math.Round(price)))
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}

// groupThousands inserts comma separators into an integer amount.
func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)

	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// CleanProductName normalizes a title for display: collapsed whitespace,
// special characters stripped, capped at 100 characters.
func CleanProductName(title string) string {
	if title == "" {
		return "Unknown Product"
	}

	name := extraSpacesRe.ReplaceAllString(title, " ")
	name = productNameCleanRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

// TrustScoreFor returns the static reputation weight of a source, defaulting
// to 0.70 for unknown sources.
func TrustScoreFor(source string) float64 {
	if score, ok := trustScores[source]; ok {
		return score
	}
	return defaultTrustScore
}

// Rank normalizes every listing into the target currency, drops invalid
// prices, sorts ascending by normalized price (stable, so ties preserve
// input order), and assigns rank, percentile, and savings relative to the
// final set.
func (s *PriceService) Rank(listings []models.Listing, targetCurrency string) []models.RankedListing {
	now := time.Now().UTC()

	ranked := make([]models.RankedListing, 0, len(listings))
	for _, listing := range listings {
		normalized := s.Convert(listing.Price, listing.Currency, targetCurrency)
		if normalized <= 0 {
			continue
		}

		availability := "Out of Stock"
		if listing.Price > 0 {
			availability = "In Stock"
		}

		ranked = append(ranked, models.RankedListing{
			Link:             listing.Link,
			Price:            s.FormatPrice(normalized, targetCurrency),
			Currency:         targetCurrency,
			ProductName:      CleanProductName(listing.Title),
			Source:           listing.Source,
			Image:            listing.Image,
			OriginalPrice:    listing.Price,
			OriginalCurrency: listing.Currency,
			NormalizedPrice:  normalized,
			Availability:     availability,
			TrustScore:       TrustScoreFor(listing.Source),
			RelevanceScore:   listing.RelevanceScore,
			Specifications:   listing.Specifications,
			PricePerUnit:     listing.PricePerUnit,
			LastUpdated:      now,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NormalizedPrice < ranked[j].NormalizedPrice
	})

	prices := make([]float64, len(ranked))
	for i := range ranked {
		prices[i] = ranked[i].NormalizedPrice
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].PriceRank = priceRank(ranked[i].NormalizedPrice, prices)
		ranked[i].Savings = savings(ranked[i].NormalizedPrice, prices)
	}
	return ranked
}

// priceRank computes the percentile position of p over the ascending price
// list: the index of the first price at or above p, so ties share the lower
// percentile.
func priceRank(p float64, sortedPrices []float64) int {
	if len(sortedPrices) == 0 {
		return 0
	}

	position := len(sortedPrices)
	for i, price := range sortedPrices {
		if price >= p {
			position = i
			break
		}
	}
	return int(math.Round(float64(position) / float64(len(sortedPrices)) * 100))
}

// savings compares p against the set's maximum. All-equal sets (including
// singletons) save nothing.
func savings(p float64, prices []float64) models.Savings {
	if len(prices) == 0 {
		return models.Savings{}
	}

	minPrice, maxPrice := prices[0], prices[0]
	for _, price := range prices[1:] {
		if price < minPrice {
			minPrice = price
		}
		if price > maxPrice {
			maxPrice = price
		}
	}

	if maxPrice == minPrice {
		return models.Savings{}
	}

	amount := maxPrice - p
	return models.Savings{
		Amount:     round2(amount),
		Percentage: round2(amount / maxPrice * 100),
	}
}

// FilterByPriceRange keeps listings whose normalized price falls inside the
// supplied bounds. Bounds arrive in boundCurrency and are converted once
// into the result set's target currency before comparison.
func (s *PriceService) FilterByPriceRange(listings []models.RankedListing, minPrice, maxPrice *float64, boundCurrency, targetCurrency string) []models.RankedListing {
	if minPrice == nil && maxPrice == nil {
		return listings
	}

	var lower, upper float64
	hasLower := minPrice != nil
	hasUpper := maxPrice != nil
	if hasLower {
		lower = s.Convert(*minPrice, boundCurrency, targetCurrency)
	}
	if hasUpper {
		upper = s.Convert(*maxPrice, boundCurrency, targetCurrency)
	}

	filtered := make([]models.RankedListing, 0, len(listings))
	for _, listing := range listings {
		if hasLower && listing.NormalizedPrice < lower {
			continue
		}
		if hasUpper && listing.NormalizedPrice > upper {
			continue
		}
		filtered = append(filtered, listing)
	}
	return filtered
}

// Statistics summarizes the normalized prices of a result set. Empty or
// all-invalid input yields nil. Even-count sets take the upper-middle
// element as the median, no averaging of midpoints.
func (s *PriceService) Statistics(listings []models.RankedListing) *models.PriceStatistics {
	if len(listings) == 0 {
		return nil
	}

	prices := make([]float64, 0, len(listings))
	for _, listing := range listings {
		if listing.NormalizedPrice > 0 {
			prices = append(prices, listing.NormalizedPrice)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	sort.Float64s(prices)

	var sum float64
	for _, p := range prices {
		sum += p
	}

	return &models.PriceStatistics{
		Min:      prices[0],
		Max:      prices[len(prices)-1],
		Median:   round2(prices[len(prices)/2]),
		Average:  round2(sum / float64(len(prices))),
		Count:    len(prices),
		Range:    prices[len(prices)-1] - prices[0],
		Currency: listings[0].Currency,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
