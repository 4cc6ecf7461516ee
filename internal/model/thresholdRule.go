package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ThresholdRule triggers a notification when a part's canonical price is at
// or below ThresholdCAD.
type ThresholdRule struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OEM          string             `bson:"oem" json:"oem"`
	ThresholdCAD float64            `bson:"threshold_cad" json:"threshold_cad"`
	Enabled      bool               `bson:"enabled" json:"enabled"`
	CreatedAt    primitive.DateTime `bson:"created_at" json:"-"`
}
