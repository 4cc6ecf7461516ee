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

func (db Database) BuildInsert(ctx context.Context, b model.Build) (id string, err error) {
	b.Parts = []model.Part{}
	b.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	res, err := db.Collection(CollectionBuilds).InsertOne(ctx, b)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting Build with name: %s", b.Name)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) BuildFindByID(ctx context.Context, id string) (model.Build, error) {
	var b model.Build
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return b, errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	err = db.Collection(CollectionBuilds).FindOne(ctx, bson.M{"_id": objID}).Decode(&b)
	return b, errors.Wrapf(err, "error finding Build with ID: %s", id)
}

func (db Database) BuildsFindAll(ctx context.Context) ([]model.Build, error) {
	var bs []model.Build
	opts := options.Find().SetSort(bson.M{"_id": -1})
	cur, err := db.Collection(CollectionBuilds).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all Builds")
	}
	if err = cur.All(ctx, &bs); err != nil {
		return nil, errors.Wrap(err, "error getting all Builds from cursor")
	}
	return bs, nil
}

// BuildAddPart adds a part to a build's embedded parts array. $addToSet keeps
// the (category, oem, label) entry unique within the build.
func (db Database) BuildAddPart(ctx context.Context, buildID string, p model.Part) error {
	objID, err := primitive.ObjectIDFromHex(buildID)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", buildID)
	}
	res, err := db.Collection(CollectionBuilds).UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"parts": p}},
	)
	if err != nil {
		return errors.Wrapf(err, "error adding Part: %+v to Build with ID: %s", p, buildID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Build with ID: %s", buildID)
	}
	return nil
}

func (db Database) BuildRemovePart(ctx context.Context, buildID string, category string, oem string) error {
	objID, err := primitive.ObjectIDFromHex(buildID)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", buildID)
	}
	res, err := db.Collection(CollectionBuilds).UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"parts": bson.M{"category": category, "oem": oem}}},
	)
	if err != nil {
		return errors.Wrapf(err, "error removing Part (category: %s, OEM: %s) from Build with ID: %s",
			category, oem, buildID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Build with ID: %s", buildID)
	}
	return nil
}
