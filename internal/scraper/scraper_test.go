package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parttracker/internal/model"
)

func newPageServer(t *testing.T, status int, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape(t *testing.T) {
	amazonPage := `<html><body>
		<span class="a-price"><span class="a-offscreen">CA$79.99</span></span>
		<div id="merchant-info">Ships from and sold by Amazon.ca</div>
		<div>In Stock</div>
	</body></html>`

	t.Run("first-party listing passes the seller gate", func(t *testing.T) {
		srv := newPageServer(t, http.StatusOK, amazonPage)
		s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "Amazon.ca", SellerRequired: "amazon", DefaultCurrency: "CAD"}

		res, err := s.Scrape(context.Background(), srv.URL, r)
		require.NoError(t, err)
		assert.Equal(t, "CA$79.99", res.PriceRaw)
		require.NotNil(t, res.PriceCAD)
		assert.InDelta(t, 79.99, *res.PriceCAD, 0.001)
		assert.Equal(t, AvailabilityInStock, res.Availability)
	})

	t.Run("third-party listing is rejected with a stable message", func(t *testing.T) {
		page := `<html><body>
			<span class="a-price"><span class="a-offscreen">CA$59.99</span></span>
			<div id="merchant-info">Sold by GreyMarket Deals</div>
		</body></html>`
		srv := newPageServer(t, http.StatusOK, page)
		s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "Amazon.ca", SellerRequired: "amazon", DefaultCurrency: "CAD"}

		_, err := s.Scrape(context.Background(), srv.URL, r)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSellerMismatch)
		assert.EqualError(t, err, "Listing not sold & shipped by retailer (marketplace or third-party).")
	})

	t.Run("missing seller text fails a seller-required profile", func(t *testing.T) {
		page := `<html><body><span class="a-price"><span class="a-offscreen">CA$59.99</span></span></body></html>`
		srv := newPageServer(t, http.StatusOK, page)
		s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "Amazon.ca", SellerRequired: "amazon", DefaultCurrency: "CAD"}

		_, err := s.Scrape(context.Background(), srv.URL, r)
		assert.ErrorIs(t, err, ErrSellerMismatch)
	})

	t.Run("no seller requirement skips the gate", func(t *testing.T) {
		page := `<html><body><span itemprop="price">CA$19.99</span></body></html>`
		srv := newPageServer(t, http.StatusOK, page)
		s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "CanadaComputers", DefaultCurrency: "CAD"}

		res, err := s.Scrape(context.Background(), srv.URL, r)
		require.NoError(t, err)
		require.NotNil(t, res.PriceCAD)
		assert.InDelta(t, 19.99, *res.PriceCAD, 0.001)
	})

	t.Run("non-2xx status is a fetch error", func(t *testing.T) {
		srv := newPageServer(t, http.StatusNotFound, "not found")
		s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "Newegg", DefaultCurrency: "CAD"}

		_, err := s.Scrape(context.Background(), srv.URL, r)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("unreachable server is a fetch error", func(t *testing.T) {
		srv := newPageServer(t, http.StatusOK, "")
		url := srv.URL
		srv.Close()
		s := Scraper{Client: &http.Client{}, Rates: staticRate(1.35), Logger: testLogger{}}
		r := model.Retailer{Name: "Newegg", DefaultCurrency: "CAD"}

		_, err := s.Scrape(context.Background(), url, r)
		assert.ErrorIs(t, err, ErrFetch)
	})
}

func TestScrapePageWithoutPrice(t *testing.T) {
	page := `<html><body><div>Currently unavailable</div></body></html>`
	srv := newPageServer(t, http.StatusOK, page)
	s := Scraper{Client: srv.Client(), Rates: staticRate(1.35), Logger: testLogger{}}
	r := model.Retailer{Name: "Amazon.ca", DefaultCurrency: "CAD"}

	res, err := s.Scrape(context.Background(), srv.URL, r)
	require.NoError(t, err)
	assert.Empty(t, res.PriceRaw)
	assert.Nil(t, res.PriceCAD)
	assert.Equal(t, AvailabilityOutOfStock, res.Availability)
}
