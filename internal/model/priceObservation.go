package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// PriceObservation is one scrape result in the append-only price history.
// PriceRaw and PriceCAD are nil when extraction found no parseable price.
type PriceObservation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OEM        string             `bson:"oem" json:"oem"`
	RetailerID primitive.ObjectID `bson:"retailer_id" json:"retailer_id"`
	PriceRaw   *string            `bson:"price_raw" json:"price_raw"`
	Currency   string             `bson:"currency" json:"currency"`
	PriceCAD   *float64           `bson:"price_cad" json:"price_cad"`
	Timestamp  primitive.DateTime `bson:"ts" json:"ts"`
}

// RefreshOutcome is one entry of the per-item result list a batch refresh
// returns. Either PriceCAD or Error is meaningful, never both.
type RefreshOutcome struct {
	OEM      string   `json:"oem"`
	Retailer string   `json:"retailer"`
	PriceCAD *float64 `json:"price_cad,omitempty"`
	Error    string   `json:"error,omitempty"`
}
