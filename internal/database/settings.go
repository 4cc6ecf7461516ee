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

// SettingsFind returns the notification settings document, or disabled
// defaults when none has been written yet.
func (db Database) SettingsFind(ctx context.Context) (model.NotificationSettings, error) {
	var ns model.NotificationSettings
	opts := options.FindOne().SetSort(bson.M{"_id": -1})
	err := db.Collection(CollectionSettings).FindOne(ctx, bson.M{}, opts).Decode(&ns)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.NotificationSettings{}, nil
	}
	return ns, errors.Wrap(err, "error finding NotificationSettings")
}

func (db Database) SettingsUpsert(ctx context.Context, ns model.NotificationSettings) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.Collection(CollectionSettings).UpdateOne(
		ctx,
		bson.M{},
		bson.M{
			"$set": bson.M{
				"pushbullet_api_key":    ns.PushbulletAPIKey,
				"notifications_enabled": ns.NotificationsEnabled,
			},
			"$setOnInsert": bson.M{"created_at": primitive.NewDateTimeFromTime(time.Now())},
		},
		opts,
	)
	return errors.Wrapf(err, "error upserting NotificationSettings: %+v", ns)
}
