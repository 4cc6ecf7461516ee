package scraper

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parttracker/internal/model"
)

func docFromHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestMatchBuiltin(t *testing.T) {
	tests := []struct {
		name         string
		retailer     model.Retailer
		wantFragment string
		wantMatch    bool
	}{
		{
			name:         "matched by name",
			retailer:     model.Retailer{Name: "CanadaComputers", Domain: ""},
			wantFragment: "canadacomputers",
			wantMatch:    true,
		},
		{
			name:         "matched by domain when name differs",
			retailer:     model.Retailer{Name: "MemEx", Domain: "www.memoryexpress.com"},
			wantFragment: "memoryexpress",
			wantMatch:    true,
		},
		{
			name:         "case insensitive name match",
			retailer:     model.Retailer{Name: "Amazon.ca"},
			wantFragment: "amazon",
			wantMatch:    true,
		},
		{
			name:         "newegg.ca domain",
			retailer:     model.Retailer{Name: "NE", Domain: "newegg.ca"},
			wantFragment: "newegg",
			wantMatch:    true,
		},
		{
			name:      "spaced name without domain does not match",
			retailer:  model.Retailer{Name: "Memory Express"},
			wantMatch: false,
		},
		{
			name:      "custom retailer has no builtin",
			retailer:  model.Retailer{Name: "Mike's Parts", Domain: "mikesparts.ca"},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, ok := matchBuiltin(tt.retailer)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantFragment, site.fragment)
			}
		})
	}
}

func TestExtractBuiltinCanadaComputers(t *testing.T) {
	page := `<html><body>
		<span itemprop="price">CA$129.99</span>
		<div class="stock">In Stock at Ottawa</div>
	</body></html>`
	r := model.Retailer{Name: "CanadaComputers", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	assert.Equal(t, "CA$129.99", res.PriceRaw)
	require.NotNil(t, res.PriceCAD)
	assert.InDelta(t, 129.99, *res.PriceCAD, 0.001)
	assert.Equal(t, "CAD", res.Currency)
	assert.Equal(t, AvailabilityInStock, res.Availability)
}

func TestExtractBuiltinMemoryExpressMetaPrice(t *testing.T) {
	page := `<html><head>
		<meta property="og:price:amount" content="449.99">
	</head><body>
		<div>Some unrelated $ 9.99 accessory</div>
	</body></html>`
	r := model.Retailer{Name: "Memory Express", Domain: "memoryexpress.com", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	// The meta tag wins; this site never falls back to a dollar text scan.
	assert.Equal(t, "449.99", res.PriceRaw)
	require.NotNil(t, res.PriceCAD)
	assert.InDelta(t, 449.99, *res.PriceCAD, 0.001)
	assert.Equal(t, CurrencyCADAssumed, res.Currency)
}

func TestExtractBuiltinMemoryExpressNoDollarScan(t *testing.T) {
	page := `<html><body><p>Sale price $ 199.99 this week</p></body></html>`
	r := model.Retailer{Name: "MemoryExpress", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	assert.Empty(t, res.PriceRaw)
	assert.Nil(t, res.PriceCAD)
}

func TestExtractBuiltinDollarScanFallback(t *testing.T) {
	page := `<html><body>
		<script>var x = "$ 1.00";</script>
		<p>Only $ 199.99 today</p>
	</body></html>`
	r := model.Retailer{Name: "Newegg", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	// Script content is skipped, the first matching text node wins.
	assert.Equal(t, "Only $ 199.99 today", res.PriceRaw)
	require.NotNil(t, res.PriceCAD)
	assert.InDelta(t, 199.99, *res.PriceCAD, 0.001)
}

func TestExtractBuiltinSellerSelector(t *testing.T) {
	page := `<html><body>
		<div class="priceBlock">$599.99</div>
		<div class="seller-info">Sold and shipped by Best Buy</div>
	</body></html>`
	r := model.Retailer{Name: "BestBuy", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	assert.Equal(t, "Sold and shipped by Best Buy", res.SellerText)
}

func TestExtractBuiltinSellerTextScan(t *testing.T) {
	page := `<html><body>
		<span itemprop="price">CA$89.99</span>
		<div>Sold by ThirdPartySeller Inc and fulfilled elsewhere</div>
	</body></html>`
	r := model.Retailer{Name: "CanadaComputers", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.35)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	assert.Contains(t, res.SellerText, "Sold by ThirdPartySeller")
}

func TestExtractBuiltinAmazonMerchantInfo(t *testing.T) {
	page := `<html><body>
		<span class="a-price"><span class="a-offscreen">US$49.99</span></span>
		<div id="merchant-info">Ships from and sold by Amazon.ca</div>
	</body></html>`
	r := model.Retailer{Name: "Amazon.ca", DefaultCurrency: "CAD"}
	site, ok := matchBuiltin(r)
	require.True(t, ok)

	s := newTestScraper(1.25)
	res := s.extractBuiltin(context.Background(), docFromHTML(t, page), site, r)

	assert.Equal(t, "US$49.99", res.PriceRaw)
	assert.Equal(t, "Ships from and sold by Amazon.ca", res.SellerText)
	assert.Equal(t, "USD", res.Currency)
	require.NotNil(t, res.PriceCAD)
	assert.InDelta(t, 62.49, *res.PriceCAD, 0.001)
}

func TestExtractFallback(t *testing.T) {
	page := `<html><body>
		<div class="my-price">$ 75.50</div>
		<div class="vendor">Sold by Mike's Parts</div>
		<div>Sold by Somebody Else</div>
	</body></html>`

	t.Run("profile selectors", func(t *testing.T) {
		r := model.Retailer{
			Name:            "Mike's Parts",
			PriceSelector:   ".my-price",
			SellerSelector:  ".vendor",
			DefaultCurrency: "CAD",
		}
		s := newTestScraper(1.35)
		res := s.extractFallback(context.Background(), docFromHTML(t, page), r)

		assert.Equal(t, "$ 75.50", res.PriceRaw)
		assert.Equal(t, "Sold by Mike's Parts", res.SellerText)
		require.NotNil(t, res.PriceCAD)
		assert.InDelta(t, 75.50, *res.PriceCAD, 0.001)
		assert.Equal(t, CurrencyCADAssumed, res.Currency)
	})

	t.Run("no seller text scan without a selector", func(t *testing.T) {
		r := model.Retailer{Name: "Mike's Parts", PriceSelector: ".my-price", DefaultCurrency: "CAD"}
		s := newTestScraper(1.35)
		res := s.extractFallback(context.Background(), docFromHTML(t, page), r)

		assert.Empty(t, res.SellerText)
	})

	t.Run("dollar scan when the price selector misses", func(t *testing.T) {
		r := model.Retailer{Name: "Mike's Parts", PriceSelector: ".missing", DefaultCurrency: "CAD"}
		s := newTestScraper(1.35)
		res := s.extractFallback(context.Background(), docFromHTML(t, page), r)

		assert.Equal(t, "$ 75.50", res.PriceRaw)
	})
}

func TestClassifyAvailability(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "in stock",
			page: `<html><body><div>In Stock</div></body></html>`,
			want: AvailabilityInStock,
		},
		{
			name: "out of stock",
			page: `<html><body><div>Currently unavailable.</div></body></html>`,
			want: AvailabilityOutOfStock,
		},
		{
			name: "out of stock wins when both appear",
			page: `<html><body><div>In Stock online</div><div>Out of Stock in store</div></body></html>`,
			want: AvailabilityOutOfStock,
		},
		{
			name: "no signal",
			page: `<html><body><div>Add to cart</div></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyAvailability(docFromHTML(t, tt.page)))
		})
	}
}

func TestCollapseText(t *testing.T) {
	assert.Equal(t, "CA$ 129.99", collapseText("  CA$\n\t 129.99  "))
	assert.Equal(t, "", collapseText("   \n "))
}
