package model

import "time"

// SlotLock is an advisory lock document guarding the check-then-insert of a
// single (provider, date, time slot). Its _id is derived from the slot, so a
// second holder fails with a duplicate key error. ExpiresAt backs a TTL index
// that reaps locks left behind by crashed holders.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
