package scraper

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRate float64

func (r staticRate) USDToCAD(context.Context) float64 {
	return float64(r)
}

type testLogger struct{}

func (testLogger) Debugf(string, ...any) {}
func (testLogger) Warnf(string, ...any)  {}
func (testLogger) Errorf(string, ...any) {}

func newTestScraper(rate float64) Scraper {
	return Scraper{
		Client: &http.Client{},
		Rates:  staticRate(rate),
		Logger: testLogger{},
	}
}

func TestNormalizeToCAD(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		priceText       string
		defaultCurrency string
		rate            float64
		wantPrice       *float64
		wantCurrency    string
		wantRaw         *float64
	}{
		{
			name:            "explicit CAD with CA$ marker",
			priceText:       "CA$12.99",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       float64Ptr(12.99),
			wantCurrency:    "CAD",
			wantRaw:         float64Ptr(12.99),
		},
		{
			name:            "explicit CAD with CAD marker unaffected by rate",
			priceText:       "CAD 12.99",
			defaultCurrency: "USD",
			rate:            2.0,
			wantPrice:       float64Ptr(12.99),
			wantCurrency:    "CAD",
			wantRaw:         float64Ptr(12.99),
		},
		{
			name:            "explicit USD converted",
			priceText:       "US$10.00",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       float64Ptr(13.5),
			wantCurrency:    "USD",
			wantRaw:         float64Ptr(10.0),
		},
		{
			name:            "bare dollar assumed CAD",
			priceText:       "$5",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       float64Ptr(5.0),
			wantCurrency:    "CAD(assumed)",
			wantRaw:         float64Ptr(5.0),
		},
		{
			name:            "bare dollar with USD default converted",
			priceText:       "$5",
			defaultCurrency: "USD",
			rate:            1.35,
			wantPrice:       float64Ptr(6.75),
			wantCurrency:    "USD(default)",
			wantRaw:         float64Ptr(5.0),
		},
		{
			name:            "thousands separator stripped",
			priceText:       "CA$1,299.99",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       float64Ptr(1299.99),
			wantCurrency:    "CAD",
			wantRaw:         float64Ptr(1299.99),
		},
		{
			name:            "conversion rounds to 2 decimals",
			priceText:       "USD 33.33",
			defaultCurrency: "CAD",
			rate:            1.333,
			wantPrice:       float64Ptr(44.43),
			wantCurrency:    "USD",
			wantRaw:         float64Ptr(33.33),
		},
		{
			name:            "empty text",
			priceText:       "",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       nil,
			wantCurrency:    "",
			wantRaw:         nil,
		},
		{
			name:            "no parseable number keeps detected currency",
			priceText:       "CAD price unavailable",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       nil,
			wantCurrency:    "CAD",
			wantRaw:         nil,
		},
		{
			name:            "no number and no marker",
			priceText:       "Call for price",
			defaultCurrency: "CAD",
			rate:            1.35,
			wantPrice:       nil,
			wantCurrency:    "",
			wantRaw:         nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScraper(tt.rate)
			price, currency, raw := s.NormalizeToCAD(ctx, tt.priceText, tt.defaultCurrency)

			assert.Equal(t, tt.wantCurrency, currency)
			if tt.wantPrice == nil {
				assert.Nil(t, price)
			} else {
				require.NotNil(t, price)
				assert.InDelta(t, *tt.wantPrice, *price, 0.001)
			}
			if tt.wantRaw == nil {
				assert.Nil(t, raw)
			} else {
				require.NotNil(t, raw)
				assert.InDelta(t, *tt.wantRaw, *raw, 0.001)
			}
		})
	}
}

func TestNormalizeToCADIdempotentOnEmpty(t *testing.T) {
	s := newTestScraper(1.35)
	for i := 0; i < 3; i++ {
		price, currency, raw := s.NormalizeToCAD(context.Background(), "", "CAD")
		assert.Nil(t, price)
		assert.Empty(t, currency)
		assert.Nil(t, raw)
	}
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "CAD", detectCurrency("ca$99"))
	assert.Equal(t, "CAD", detectCurrency("99.99 cad"))
	assert.Equal(t, "USD", detectCurrency("US$99"))
	assert.Equal(t, "USD", detectCurrency("usd 99"))
	assert.Equal(t, "", detectCurrency("$99.99"))
	assert.Equal(t, "", detectCurrency("99.99"))
}
