package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/models"
	"github.com/redston-maverick/global-price-scraper/scraper"
	"github.com/redston-maverick/global-price-scraper/services"
)

const apiVersion = "1.0.0"

// defaultComparisonCountries is used when a comparison request names none.
var defaultComparisonCountries = []string{"US", "IN", "GB"}

// Handlers holds the HTTP layer over the search pipeline.
type Handlers struct {
	search      *services.SearchService
	session     *scraper.BrowserSession
	log         *zap.SugaredLogger
	development bool
}

// NewHandlers creates the handler set.
func NewHandlers(search *services.SearchService, session *scraper.BrowserSession, development bool, log *zap.SugaredLogger) *Handlers {
	return &Handlers{search: search, session: session, development: development, log: log}
}

// SearchPrices handles POST /api/v1/prices/search.
func (h *Handlers) SearchPrices(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid request body",
			"message": "Expected a JSON object",
		})
		return
	}

	if req.Query == "" || req.Country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Missing required fields",
			"required": []string{"country", "query"},
			"received": map[string]bool{
				"country": req.Country != "",
				"query":   req.Query != "",
			},
		})
		return
	}

	response, err := h.search.Search(r.Context(), req)
	if err != nil {
		var unsupported *services.UnsupportedCountryError
		if errors.As(err, &unsupported) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":              "Country not supported",
				"supportedCountries": unsupported.Supported,
				"received":           unsupported.Country,
			})
			return
		}
		h.writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// GetSupported handles GET /api/v1/prices/supported.
func (h *Handlers) GetSupported(w http.ResponseWriter, r *http.Request) {
	type siteInfo struct {
		Name       string   `json:"name"`
		Priority   int      `json:"priority"`
		Categories []string `json:"categories"`
	}
	type countryInfo struct {
		Country  string     `json:"country"`
		Currency string     `json:"currency"`
		Sites    []siteInfo `json:"sites"`
	}

	countries := config.SupportedCountries()
	info := make([]countryInfo, 0, len(countries))
	totalSites := 0

	for _, country := range countries {
		sites := config.SitesForCountry(country)
		totalSites += len(sites)

		siteInfos := make([]siteInfo, 0, len(sites))
		for _, site := range sites {
			categories := site.Categories
			if len(categories) == 0 {
				categories = []string{"all"}
			}
			siteInfos = append(siteInfos, siteInfo{
				Name:       site.Name,
				Priority:   site.Priority,
				Categories: categories,
			})
		}
		info = append(info, countryInfo{
			Country:  country,
			Currency: config.CurrencyForCountry(country),
			Sites:    siteInfos,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"supportedCountries": info,
		"totalSites":         totalSites,
	})
}

// TestSite handles POST /api/v1/prices/test-site: scrape one named site for
// a query, without filtering or ranking.
func (h *Handlers) TestSite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteName string `json:"siteName"`
		Query    string `json:"query"`
		Country  string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	if req.SiteName == "" || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Missing required fields: siteName, query",
		})
		return
	}
	if req.Country == "" {
		req.Country = "US"
	}

	result, err := h.search.TestSite(r.Context(), req.SiteName, req.Country, req.Query)
	if err != nil {
		var notFound *services.SiteNotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":          "Site not found",
				"availableSites": notFound.Available,
			})
			return
		}
		h.writeServerError(w, err)
		return
	}

	payload := map[string]any{
		"site":     result.Site,
		"query":    req.Query,
		"results":  result.Listings,
		"count":    len(result.Listings),
		"method":   result.Method,
		"testTime": time.Now().UTC(),
	}
	if result.Err != nil {
		payload["error"] = result.Err.Error()
	}
	writeJSON(w, http.StatusOK, payload)
}

// CompareCountries handles POST /api/v1/prices/compare-countries.
func (h *Handlers) CompareCountries(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string   `json:"query"`
		Countries []string `json:"countries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Query is required"})
		return
	}
	if len(req.Countries) == 0 {
		req.Countries = defaultComparisonCountries
	}

	comparisons := h.search.CompareCountries(r.Context(), req.Query, req.Countries)

	writeJSON(w, http.StatusOK, map[string]any{
		"query":          req.Query,
		"countries":      comparisons,
		"comparisonTime": time.Now().UTC(),
	})
}

// Cleanup handles POST /api/v1/prices/cleanup: release the shared browser
// session ahead of a deployment drain. The next rendered fetch relaunches it.
func (h *Handlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	h.session.Close()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cleanup completed"})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "global-price-scraper",
		"status":    "healthy",
		"version":   apiVersion,
		"timestamp": time.Now().UTC(),
		"endpoints": map[string]string{
			"health":            "/health",
			"search":            "/api/v1/prices/search",
			"supported":         "/api/v1/prices/supported",
			"test_site":         "/api/v1/prices/test-site",
			"compare_countries": "/api/v1/prices/compare-countries",
			"cleanup":           "/api/v1/prices/cleanup",
		},
	})
}

// writeServerError hides internal detail unless running in development.
func (h *Handlers) writeServerError(w http.ResponseWriter, err error) {
	h.log.Errorw("internal error", "error", err)

	message := "Something went wrong"
	if h.development {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "Internal server error",
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
