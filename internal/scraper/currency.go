package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"parttracker/internal/misc"
)

// RateProvider supplies the current USD to CAD exchange rate. Implementations
// must not fail outward; a cached or fallback rate is always acceptable.
type RateProvider interface {
	USDToCAD(ctx context.Context) float64
}

const (
	CurrencyCAD        = "CAD"
	CurrencyUSD        = "USD"
	CurrencyCADAssumed = "CAD(assumed)"
	CurrencyUSDDefault = "USD(default)"
)

var nonNumericRegex = regexp.MustCompile(`[^\d.,]`)

func extractNumber(s string) (float64, bool) {
	cleaned := nonNumericRegex.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// detectCurrency returns CAD or USD when the text carries an unambiguous
// marker, and "" otherwise. A bare leading "$" stays undetermined; the
// retailer's default currency resolves it in NormalizeToCAD.
func detectCurrency(priceText string) string {
	t := strings.ToUpper(priceText)
	if strings.Contains(t, "CA$") || strings.Contains(t, "CAD") {
		return CurrencyCAD
	}
	if strings.Contains(t, "US$") || strings.Contains(t, "USD") {
		return CurrencyUSD
	}
	return ""
}

// NormalizeToCAD parses a raw price string and converts it to CAD, rounded to
// 2 decimals. The returned label records how the currency was determined:
// "CAD"/"USD" when detected from the text, "USD(default)" when an ambiguous
// amount was converted because the retailer defaults to USD, and
// "CAD(assumed)" when an ambiguous amount was passed through. Both amounts
// are nil when priceText is empty or holds no parseable number.
func (s Scraper) NormalizeToCAD(
	ctx context.Context, priceText string, defaultCurrency string,
) (priceCAD *float64, currency string, rawAmount *float64) {
	if priceText == "" {
		return nil, "", nil
	}
	detected := detectCurrency(priceText)
	num, ok := extractNumber(priceText)
	if !ok {
		return nil, detected, nil
	}
	switch detected {
	case CurrencyUSD:
		return float64Ptr(misc.Round2(num * s.Rates.USDToCAD(ctx))), CurrencyUSD, float64Ptr(num)
	case CurrencyCAD:
		return float64Ptr(misc.Round2(num)), CurrencyCAD, float64Ptr(num)
	}
	if strings.EqualFold(strings.TrimSpace(defaultCurrency), CurrencyUSD) {
		return float64Ptr(misc.Round2(num * s.Rates.USDToCAD(ctx))), CurrencyUSDDefault, float64Ptr(num)
	}
	return float64Ptr(misc.Round2(num)), CurrencyCADAssumed, float64Ptr(num)
}

func float64Ptr(v float64) *float64 {
	return &v
}
