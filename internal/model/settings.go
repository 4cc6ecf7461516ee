package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// NotificationSettings is the single settings document controlling whether
// notifications are sent and with which Pushbullet credential.
type NotificationSettings struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PushbulletAPIKey     string             `bson:"pushbullet_api_key" json:"pushbullet_api_key"`
	NotificationsEnabled bool               `bson:"notifications_enabled" json:"notifications_enabled"`
	CreatedAt            primitive.DateTime `bson:"created_at" json:"-"`
}
