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

// builtinRetailers get seeded on startup when missing. Their seller-required
// phrases reject marketplace listings on the big-box sites.
var builtinRetailers = []model.Retailer{
	{Name: "CanadaComputers", Domain: "canadacomputers.com", SellerRequired: "canada computers", DefaultCurrency: "CAD", Active: true, Builtin: true},
	{Name: "MemoryExpress", Domain: "memoryexpress.com", SellerRequired: "memory express", DefaultCurrency: "CAD", Active: true, Builtin: true},
	{Name: "BestBuy", Domain: "bestbuy.ca", SellerRequired: "best buy", DefaultCurrency: "CAD", Active: true, Builtin: true},
	{Name: "Newegg", Domain: "newegg.ca", SellerRequired: "newegg", DefaultCurrency: "CAD", Active: true, Builtin: true},
	{Name: "Amazon.ca", Domain: "amazon.ca", SellerSelector: "#merchant-info", SellerRequired: "amazon", DefaultCurrency: "CAD", Active: true, Builtin: true},
}

func (db Database) RetailerSeedBuiltins(ctx context.Context) error {
	for _, r := range builtinRetailers {
		err := db.Collection(CollectionRetailers).FindOne(ctx, bson.M{"name": r.Name}).Err()
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return errors.Wrapf(err, "error checking for built-in Retailer: %s", r.Name)
		}
		r.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
		if _, err := db.Collection(CollectionRetailers).InsertOne(ctx, r); err != nil {
			return errors.Wrapf(err, "error seeding built-in Retailer: %s", r.Name)
		}
	}
	return nil
}

func (db Database) RetailerInsert(ctx context.Context, r model.Retailer) (id string, err error) {
	r.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	res, err := db.Collection(CollectionRetailers).InsertOne(ctx, r)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting Retailer with name: %s", r.Name)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) RetailerFindByID(ctx context.Context, id string) (model.Retailer, error) {
	var r model.Retailer
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return r, errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	err = db.Collection(CollectionRetailers).FindOne(ctx, bson.M{"_id": objID}).Decode(&r)
	return r, errors.Wrapf(err, "error finding Retailer with ID: %s", id)
}

func (db Database) RetailersFindAll(ctx context.Context) ([]model.Retailer, error) {
	var rs []model.Retailer
	opts := options.Find().SetSort(bson.D{{Key: "active", Value: -1}, {Key: "name", Value: 1}})
	cur, err := db.Collection(CollectionRetailers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all Retailers")
	}
	if err = cur.All(ctx, &rs); err != nil {
		return nil, errors.Wrap(err, "error getting all Retailers from cursor")
	}
	return rs, nil
}

func (db Database) RetailersFindActive(ctx context.Context) ([]model.Retailer, error) {
	var rs []model.Retailer
	cur, err := db.Collection(CollectionRetailers).Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find active Retailers")
	}
	if err = cur.All(ctx, &rs); err != nil {
		return nil, errors.Wrap(err, "error getting active Retailers from cursor")
	}
	return rs, nil
}

func (db Database) RetailerToggleActive(ctx context.Context, id string) error {
	r, err := db.RetailerFindByID(ctx, id)
	if err != nil {
		return err
	}
	res, err := db.Collection(CollectionRetailers).UpdateOne(
		ctx,
		bson.M{"_id": r.ID},
		bson.M{"$set": bson.M{"active": !r.Active}},
	)
	if err != nil {
		return errors.Wrapf(err, "error toggling active flag on Retailer with ID: %s", id)
	}
	if res.ModifiedCount == 0 {
		return errors.Wrapf(ErrNoDocumentsModified, "Retailer ID: %s", id)
	}
	return nil
}

// RetailerDelete removes a retailer and cascades to its product URL
// registrations and price history.
func (db Database) RetailerDelete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(err, "error creating ObjectID from hex: %s", id)
	}
	res, err := db.Collection(CollectionRetailers).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "error deleting Retailer with ID: %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Retailer with ID: %s", id)
	}
	if _, err = db.Collection(CollectionProductURLs).DeleteMany(ctx, bson.M{"retailer_id": objID}); err != nil {
		return errors.Wrapf(err, "error deleting ProductURLs for Retailer with ID: %s", id)
	}
	if _, err = db.Collection(CollectionPriceHistory).DeleteMany(ctx, bson.M{"retailer_id": objID}); err != nil {
		return errors.Wrapf(err, "error deleting PriceObservations for Retailer with ID: %s", id)
	}
	return nil
}
