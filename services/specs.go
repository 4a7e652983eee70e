package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/redston-maverick/global-price-scraper/models"
)

// Specification extraction from listing titles. Pattern matching only;
// deliberately independent from relevance scoring.

var (
	storageRe = regexp.MustCompile(`(?i)(\d+)\s*(GB|TB)`)
	ramRe     = regexp.MustCompile(`(?i)(\d+)\s*GB\s*(RAM|Memory)`)
	screenRe  = regexp.MustCompile(`(?i)(\d+\.?\d*)["\s]*inch`)
	colorRe   = regexp.MustCompile(`(?i)\b(Black|White|Red|Blue|Green|Gold|Silver|Rose|Gray|Grey|Pink|Purple|Yellow|Orange)\b`)
)

// ExtractSpecifications pulls storage, RAM, screen size, and color from a
// listing title. Fields with no match stay empty.
func ExtractSpecifications(title string) models.Specifications {
	var specs models.Specifications

	if m := storageRe.FindString(title); m != "" {
		specs.Storage = m
	}
	if m := ramRe.FindString(title); m != "" {
		specs.RAM = m
	}
	if m := screenRe.FindString(title); m != "" {
		specs.ScreenSize = m
	}
	if m := colorRe.FindString(title); m != "" {
		specs.Color = m
	}
	return specs
}

// PricePerGB computes price divided by storage capacity in gigabytes when
// the title names a capacity, rounded to 2 decimals. Titles without a
// detectable capacity yield 0.
func PricePerGB(title string, price float64) float64 {
	m := storageRe.FindStringSubmatch(title)
	if m == nil || price <= 0 {
		return 0
	}

	capacity, err := strconv.Atoi(m[1])
	if err != nil || capacity == 0 {
		return 0
	}

	gigabytes := float64(capacity)
	if strings.EqualFold(m[2], "TB") {
		gigabytes *= 1024
	}

	return math.Round(price/gigabytes*100) / 100
}
