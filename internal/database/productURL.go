package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parttracker/internal/model"
)

// ProductURLUpsert registers a (oem, retailer) pair, updating the URL in
// place when the pair already exists.
func (db Database) ProductURLUpsert(ctx context.Context, pu model.ProductURL) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.Collection(CollectionProductURLs).UpdateOne(
		ctx,
		bson.M{"oem": pu.OEM, "retailer_id": pu.RetailerID},
		bson.M{
			"$set":         bson.M{"url": pu.URL},
			"$setOnInsert": bson.M{"created_at": primitive.NewDateTimeFromTime(time.Now())},
		},
		opts,
	)
	return errors.Wrapf(err, "error upserting ProductURL for OEM: %s, RetailerID: %s", pu.OEM, pu.RetailerID.Hex())
}

func (db Database) ProductURLsFindByOEM(ctx context.Context, oem string) ([]model.ProductURL, error) {
	var pus []model.ProductURL
	cur, err := db.Collection(CollectionProductURLs).Find(ctx, bson.M{"oem": oem})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find ProductURLs for OEM: %s", oem)
	}
	if err = cur.All(ctx, &pus); err != nil {
		return nil, errors.Wrapf(err, "error getting ProductURLs from cursor for OEM: %s", oem)
	}
	return pus, nil
}

func (db Database) ProductURLsFindAll(ctx context.Context) ([]model.ProductURL, error) {
	var pus []model.ProductURL
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection(CollectionProductURLs).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all ProductURLs")
	}
	if err = cur.All(ctx, &pus); err != nil {
		return nil, errors.Wrap(err, "error getting all ProductURLs from cursor")
	}
	return pus, nil
}

func (db Database) ProductURLDelete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	res, err := db.Collection(CollectionProductURLs).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "error deleting ProductURL with ID: %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no ProductURL with ID: %s", id)
	}
	return nil
}
