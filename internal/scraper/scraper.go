// Package scraper extracts and normalizes part prices from retailer product
// pages. Known retailers use hardcoded selector tables; custom retailers fall
// back to the selectors on their profile. Every extracted price is normalized
// to CAD before it leaves this package.
package scraper

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"parttracker/internal/misc"
	"parttracker/internal/model"
)

const userAgent = "Mozilla/5.0 (compatible; PCPartPriceTracker/1.0)"

const maxPageBytes = 2 * 1024 * 1024

// ErrSellerMismatch is returned when a listing is fulfilled by a marketplace
// or third-party seller instead of the retailer itself. Its message is
// user-facing and must stay stable.
var ErrSellerMismatch = errors.New("Listing not sold & shipped by retailer (marketplace or third-party).")

var ErrFetch = errors.New("failed to fetch product page")
var ErrParse = errors.New("failed to parse product page markup")

type Scraper struct {
	Client *http.Client
	Rates  RateProvider
	Logger logger
}

type logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Result is a successful scrape of one product page. PriceCAD and RawAmount
// are nil when no parseable price was found on the page.
type Result struct {
	PriceRaw     string
	SellerText   string
	PriceCAD     *float64
	RawAmount    *float64
	Currency     string
	Availability string
	Timestamp    time.Time
}

// Scrape fetches url and extracts a normalized price draft using the strategy
// matched to the retailer profile, then enforces the profile's seller-identity
// requirement. All returned errors are per-item; callers treat them as one
// failed listing, never as a batch-fatal condition.
func (s Scraper) Scrape(ctx context.Context, url string, r model.Retailer) (Result, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if site, ok := matchBuiltin(r); ok {
		s.Logger.Debugf("Scrape: Using built-in strategy %s for retailer: %s, url: %s", site.fragment, r.Name, url)
		res = s.extractBuiltin(ctx, doc, site, r)
	} else {
		s.Logger.Debugf("Scrape: Using fallback strategy for retailer: %s, url: %s", r.Name, url)
		res = s.extractFallback(ctx, doc, r)
	}

	if r.RequiresSeller() {
		required := strings.ToLower(strings.TrimSpace(r.SellerRequired))
		if !strings.Contains(strings.ToLower(res.SellerText), required) {
			s.Logger.Warnf("Scrape: Seller check failed for retailer: %s, url: %s, required: %#v, seller text: %#v",
				r.Name, url, required, misc.StringLimit(res.SellerText, 200))
			return Result{}, ErrSellerMismatch
		}
	}
	return res, nil
}

func (s Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request from URL: %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrFetch, "error doing request to URL: %s, err: %v", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.Logger.Errorf("fetchDocument: Error closing response body, url: %s, err: %v", url, err)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, maxPageBytes))
	if err != nil {
		return nil, errors.Wrapf(ErrFetch, "error reading product page body, url: %s, status: %s, err: %v",
			url, resp.Status, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrFetch, "unexpected status getting product page, url: %s, status: %s, body:\n%s",
			url, resp.Status, misc.BytesLimit(body, 500))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "url: %s, err: %v", url, err)
	}
	return doc, nil
}
