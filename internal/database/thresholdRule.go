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

func (db Database) RuleInsert(ctx context.Context, tr model.ThresholdRule) (id string, err error) {
	tr.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	res, err := db.Collection(CollectionThresholdRules).InsertOne(ctx, tr)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting ThresholdRule: %+v", tr)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) RulesFindAll(ctx context.Context) ([]model.ThresholdRule, error) {
	var trs []model.ThresholdRule
	opts := options.Find().SetSort(bson.D{{Key: "oem", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := db.Collection(CollectionThresholdRules).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all ThresholdRules")
	}
	if err = cur.All(ctx, &trs); err != nil {
		return nil, errors.Wrap(err, "error getting all ThresholdRules from cursor")
	}
	return trs, nil
}

// RulesFindEnabledByOEM returns enabled rules for a part in creation order,
// so the last-created matching rule decides the trigger reason.
func (db Database) RulesFindEnabledByOEM(ctx context.Context, oem string) ([]model.ThresholdRule, error) {
	var trs []model.ThresholdRule
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := db.Collection(CollectionThresholdRules).Find(
		ctx, bson.M{"oem": oem, "enabled": true}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find enabled ThresholdRules for OEM: %s", oem)
	}
	if err = cur.All(ctx, &trs); err != nil {
		return nil, errors.Wrapf(err, "error getting enabled ThresholdRules from cursor for OEM: %s", oem)
	}
	return trs, nil
}

func (db Database) RuleToggleEnabled(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	var tr model.ThresholdRule
	if err = db.Collection(CollectionThresholdRules).FindOne(ctx, bson.M{"_id": objID}).Decode(&tr); err != nil {
		return errors.Wrapf(err, "error finding ThresholdRule with ID: %s", id)
	}
	res, err := db.Collection(CollectionThresholdRules).UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"enabled": !tr.Enabled}},
	)
	if err != nil {
		return errors.Wrapf(err, "error toggling enabled flag on ThresholdRule with ID: %s", id)
	}
	if res.ModifiedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "ThresholdRule ID: %s", id)
	}
	return nil
}

func (db Database) RuleDelete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	res, err := db.Collection(CollectionThresholdRules).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "error deleting ThresholdRule with ID: %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no ThresholdRule with ID: %s", id)
	}
	return nil
}
