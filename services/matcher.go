package services

import (
	"strings"

	"github.com/redston-maverick/global-price-scraper/models"
)

// Lexical relevance matching between a search query and listing titles.
// Purely heuristic: no semantic or ML-based matching is attempted.

const (
	// minTokenLength excludes short stopword-like tokens from matching.
	minTokenLength = 2

	matchRatioThreshold = 0.4
	exactRatioThreshold = 0.2

	exactMatchWeight   = 1.0
	partialMatchWeight = 0.5
	exactBonusWeight   = 0.2
	minRelevanceScore  = 0.1
)

// queryTokens splits a query into lowercase tokens longer than two
// characters.
func queryTokens(query string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > minTokenLength {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// FilterRelevant keeps the listings whose titles lexically match the query:
// at least 40% of query tokens matched in either containment direction, or
// at least 20% matched exactly. A query with no usable tokens filters
// nothing; the set passes through unchanged.
func FilterRelevant(listings []models.Listing, query string) []models.Listing {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return listings
	}

	filtered := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		matched, exact := countTokenMatches(tokens, listing.Title)

		matchRatio := float64(matched) / float64(len(tokens))
		exactRatio := float64(exact) / float64(len(tokens))

		if matchRatio >= matchRatioThreshold || exactRatio >= exactRatioThreshold {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// RelevanceScore computes a 0-1 lexical similarity between the query and a
// title: 1.0 per exact token hit, 0.5 per partial hit, normalized by query
// token count, plus a 0.2-weighted exact-match bonus. Kept listings never
// score below 0.1. A query with no usable tokens scores a neutral 0.5.
func RelevanceScore(query, title string) float64 {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return 0.5
	}

	titleWords := strings.Fields(strings.ToLower(title))

	var matchScore float64
	var exactMatches int
	for _, queryWord := range tokens {
		for _, titleWord := range titleWords {
			if strings.Contains(titleWord, queryWord) || strings.Contains(queryWord, titleWord) {
				if titleWord == queryWord {
					exactMatches++
					matchScore += exactMatchWeight
				} else {
					matchScore += partialMatchWeight
				}
				break
			}
		}
	}

	baseScore := matchScore / float64(len(tokens))
	if baseScore > 1.0 {
		baseScore = 1.0
	}

	exactBonus := float64(exactMatches) / float64(len(tokens)) * exactBonusWeight

	finalScore := baseScore + exactBonus
	if finalScore > 1.0 {
		finalScore = 1.0
	}
	if finalScore < minRelevanceScore {
		finalScore = minRelevanceScore
	}
	return finalScore
}

// countTokenMatches counts how many query tokens find a title word in
// either containment direction. Each query token is counted once; the first
// title-word hit wins. Exact hits are tallied separately.
func countTokenMatches(tokens []string, title string) (matched, exact int) {
	titleWords := strings.Fields(strings.ToLower(title))

	for _, queryWord := range tokens {
		for _, titleWord := range titleWords {
			if strings.Contains(titleWord, queryWord) || strings.Contains(queryWord, titleWord) {
				matched++
				if titleWord == queryWord {
					exact++
				}
				break
			}
		}
	}
	return matched, exact
}

// Enhance attaches relevance scores, title-derived specifications, and
// price-per-unit to each listing.
func Enhance(listings []models.Listing, query string) []models.Listing {
	enhanced := make([]models.Listing, len(listings))
	for i, listing := range listings {
		listing.RelevanceScore = RelevanceScore(query, listing.Title)
		listing.Specifications = ExtractSpecifications(listing.Title)
		listing.PricePerUnit = PricePerGB(listing.Title, listing.Price)
		enhanced[i] = listing
	}
	return enhanced
}
