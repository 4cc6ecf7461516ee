package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parttracker/internal/misc"
	"parttracker/internal/model"
)

// ObservationInsert appends to the price history. Observations are never
// updated or reordered afterwards.
func (db Database) ObservationInsert(ctx context.Context, po model.PriceObservation) error {
	_, err := db.Collection(CollectionPriceHistory).InsertOne(ctx, po)
	return errors.Wrapf(err, "error inserting PriceObservation: %+v", po)
}

// ObservationsFindRecent returns up to limit observations for the pair,
// most recent first.
func (db Database) ObservationsFindRecent(
	ctx context.Context, oem string, retailerID primitive.ObjectID, limit int,
) ([]model.PriceObservation, error) {
	var pos []model.PriceObservation
	opts := options.Find().SetSort(bson.M{"ts": -1}).SetLimit(int64(misc.Max(limit, 1)))
	cur, err := db.Collection(CollectionPriceHistory).Find(
		ctx, bson.M{"oem": oem, "retailer_id": retailerID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err,
			"error getting cursor to find recent PriceObservations for OEM: %s, RetailerID: %s",
			oem, retailerID.Hex())
	}
	if err = cur.All(ctx, &pos); err != nil {
		return nil, errors.Wrapf(err,
			"error getting recent PriceObservations from cursor for OEM: %s, RetailerID: %s",
			oem, retailerID.Hex())
	}
	return pos, nil
}

func (db Database) ObservationsFindByOEM(ctx context.Context, oem string, limit int) ([]model.PriceObservation, error) {
	var pos []model.PriceObservation
	opts := options.Find().SetSort(bson.M{"ts": -1}).SetLimit(int64(misc.Min(misc.Max(limit, 1), 500)))
	cur, err := db.Collection(CollectionPriceHistory).Find(ctx, bson.M{"oem": oem}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find PriceObservations for OEM: %s", oem)
	}
	if err = cur.All(ctx, &pos); err != nil {
		return nil, errors.Wrapf(err, "error getting PriceObservations from cursor for OEM: %s", oem)
	}
	return pos, nil
}
