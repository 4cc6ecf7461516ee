package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Retailer describes a store and how to scrape it. A profile with Builtin set
// is handled by hardcoded extraction logic and ignores its own selectors;
// otherwise the selector-driven fallback is used.
type Retailer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Domain          string             `bson:"domain" json:"domain"`
	PriceSelector   string             `bson:"price_selector" json:"price_selector"`
	SellerSelector  string             `bson:"seller_selector" json:"seller_selector"`
	SellerRequired  string             `bson:"seller_required" json:"seller_required"`
	DefaultCurrency string             `bson:"default_currency" json:"default_currency"`
	Active          bool               `bson:"active" json:"active"`
	Builtin         bool               `bson:"builtin" json:"builtin"`
	CreatedAt       primitive.DateTime `bson:"created_at" json:"-"`
}

// RequiresSeller reports whether the profile demands a seller-identity check.
// An empty SellerRequired means no check.
func (r Retailer) RequiresSeller() bool {
	return strings.TrimSpace(r.SellerRequired) != ""
}
