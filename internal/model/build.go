package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Build is a named set of parts. Parts are embedded in the build document,
// keyed by (category, oem).
type Build struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Parts     []Part             `bson:"parts" json:"parts"`
	CreatedAt primitive.DateTime `bson:"created_at" json:"-"`
}

type Part struct {
	Category string `bson:"category" json:"category"`
	OEM      string `bson:"oem" json:"oem"`
	Label    string `bson:"label" json:"label"`
}
