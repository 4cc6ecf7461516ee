package scraper

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"parttracker/internal/model"
)

// priceSource is one candidate location for price text. An empty attr means
// the element's text content, otherwise the named attribute is read.
type priceSource struct {
	selector string
	attr     string
}

// builtinSite drives the shared built-in extraction routine for one known
// retailer. Candidate price sources are tried in order; the free-text
// dollar-scan only runs for sites that set priceTextScan.
type builtinSite struct {
	fragment        string
	prices          []priceSource
	priceTextScan   bool
	sellerSelectors string
	sellerTextScan  bool
}

// builtinSites is checked in a fixed priority order against the profile's
// name and domain; first fragment match wins.
var builtinSites = []builtinSite{
	{
		fragment: "canadacomputers",
		prices: []priceSource{
			{selector: "span[itemprop='price']"},
			{selector: ".price"},
			{selector: ".product-price span"},
			{selector: ".price-big"},
		},
		priceTextScan:  true,
		sellerTextScan: true,
	},
	{
		fragment: "memoryexpress",
		prices: []priceSource{
			{selector: "meta[property='og:price:amount']", attr: "content"},
			{selector: ".product-price .price"},
			{selector: ".price"},
			{selector: "span[itemprop='price']"},
		},
		sellerTextScan: true,
	},
	{
		fragment: "bestbuy",
		prices: []priceSource{
			{selector: ".pricing-price .sr-only"},
			{selector: ".priceView-customer-price span"},
			{selector: ".priceBlock"},
		},
		priceTextScan:   true,
		sellerSelectors: ".fulfillment-fulfillment-details, .seller-info, .productSellerContainer",
	},
	{
		fragment: "newegg",
		prices: []priceSource{
			{selector: ".price-current"},
			{selector: ".product-price .price"},
			{selector: ".priceView-hero-price span"},
		},
		priceTextScan:  true,
		sellerTextScan: true,
	},
	{
		fragment: "amazon",
		prices: []priceSource{
			{selector: "#priceblock_ourprice"},
			{selector: "#priceblock_dealprice"},
			{selector: ".a-price .a-offscreen"},
		},
		sellerSelectors: "#merchant-info",
		sellerTextScan:  true,
	},
}

var (
	dollarRegex     = regexp.MustCompile(`\$\s*\d`)
	sellerRegex     = regexp.MustCompile(`(?i)(Sold by|Ships from|Seller|Sold & shipped|Marketplace)`)
	outOfStockRegex = regexp.MustCompile(`(?i)(Out of Stock|Currently unavailable)`)
	inStockRegex    = regexp.MustCompile(`(?i)(In Stock|Available)`)
)

const (
	AvailabilityInStock    = "In Stock"
	AvailabilityOutOfStock = "Out of Stock"
)

// matchBuiltin selects the hardcoded strategy for a profile by checking each
// known brand fragment against the profile's name and domain.
func matchBuiltin(r model.Retailer) (builtinSite, bool) {
	name := strings.ToLower(r.Name)
	domain := strings.ToLower(r.Domain)
	for _, site := range builtinSites {
		if strings.Contains(name, site.fragment) || (domain != "" && strings.Contains(domain, site.fragment)) {
			return site, true
		}
	}
	return builtinSite{}, false
}

func (s Scraper) extractBuiltin(ctx context.Context, doc *goquery.Document, site builtinSite, r model.Retailer) Result {
	var priceRaw string
	for _, src := range site.prices {
		sel := doc.Find(src.selector).First()
		if sel.Length() == 0 {
			continue
		}
		var text string
		if src.attr != "" {
			text, _ = sel.Attr(src.attr)
		} else {
			text = collapseText(sel.Text())
		}
		if text = strings.TrimSpace(text); text != "" {
			priceRaw = text
			break
		}
	}
	if priceRaw == "" && site.priceTextScan {
		priceRaw = firstTextMatch(doc, dollarRegex)
	}

	var sellerText string
	if site.sellerSelectors != "" {
		if sel := doc.Find(site.sellerSelectors).First(); sel.Length() > 0 {
			sellerText = collapseText(sel.Text())
		}
	}
	if sellerText == "" && site.sellerTextScan {
		sellerText = firstTextMatch(doc, sellerRegex)
	}

	priceCAD, currency, rawAmount := s.NormalizeToCAD(ctx, priceRaw, r.DefaultCurrency)
	return Result{
		PriceRaw:     priceRaw,
		SellerText:   sellerText,
		PriceCAD:     priceCAD,
		RawAmount:    rawAmount,
		Currency:     currency,
		Availability: classifyAvailability(doc),
		Timestamp:    time.Now().UTC(),
	}
}

// extractFallback handles custom retailers through the profile's own
// selectors. Seller text is only ever found through the seller-selector;
// there is no free-text fallback for it.
func (s Scraper) extractFallback(ctx context.Context, doc *goquery.Document, r model.Retailer) Result {
	var priceRaw string
	if r.PriceSelector != "" {
		if sel := doc.Find(r.PriceSelector).First(); sel.Length() > 0 {
			priceRaw = collapseText(sel.Text())
		}
	}
	if priceRaw == "" {
		priceRaw = firstTextMatch(doc, dollarRegex)
	}

	var sellerText string
	if r.SellerSelector != "" {
		if sel := doc.Find(r.SellerSelector).First(); sel.Length() > 0 {
			sellerText = collapseText(sel.Text())
		}
	}

	priceCAD, currency, rawAmount := s.NormalizeToCAD(ctx, priceRaw, r.DefaultCurrency)
	return Result{
		PriceRaw:     priceRaw,
		SellerText:   sellerText,
		PriceCAD:     priceCAD,
		RawAmount:    rawAmount,
		Currency:     currency,
		Availability: classifyAvailability(doc),
		Timestamp:    time.Now().UTC(),
	}
}

// classifyAvailability scans document text nodes, checking out-of-stock
// phrases before in-stock ones so that pages mentioning both classify as
// out of stock.
func classifyAvailability(doc *goquery.Document) string {
	if firstTextMatch(doc, outOfStockRegex) != "" {
		return AvailabilityOutOfStock
	}
	if firstTextMatch(doc, inStockRegex) != "" {
		return AvailabilityInStock
	}
	return ""
}

// firstTextMatch walks the document's text nodes in document order and
// returns the trimmed content of the first one matching re.
func firstTextMatch(doc *goquery.Document, re *regexp.Regexp) string {
	for _, root := range doc.Nodes {
		if found := findTextNode(root, re); found != "" {
			return found
		}
	}
	return ""
}

func findTextNode(n *html.Node, re *regexp.Regexp) string {
	if n.Type == html.TextNode && re.MatchString(n.Data) {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			return trimmed
		}
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTextNode(c, re); found != "" {
			return found
		}
	}
	return ""
}

// collapseText joins an element's text content into single-space-separated
// trimmed text.
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
