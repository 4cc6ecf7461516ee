package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProductURL registers one tracked (part, retailer) pair. At most one
// registration exists per pair; re-registering updates the URL in place.
type ProductURL struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OEM        string             `bson:"oem" json:"oem"`
	RetailerID primitive.ObjectID `bson:"retailer_id" json:"retailer_id"`
	URL        string             `bson:"url" json:"url"`
	CreatedAt  primitive.DateTime `bson:"created_at" json:"-"`
}
