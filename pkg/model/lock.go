package model

import "time"

// BookingLock is a short-lived advisory lock on a slot coordinate. The unique
// _id makes concurrent acquisition a duplicate-key error; a TTL index on
// expires_at reaps locks left behind by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
