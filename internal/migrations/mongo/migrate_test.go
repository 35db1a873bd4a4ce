package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverRepositories(t *testing.T) {
	defs := Collections()
	for _, name := range []string{"Bookings", "Slot_locks", "Doctors", "Blogs", "Users"} {
		def, ok := defs[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, def.Indexes, name)
		assert.Contains(t, def.Validator, "$jsonSchema", name)
	}
}

func TestBookingSlotIndex_IsUniqueAndPartial(t *testing.T) {
	idx := BookingsIndexes[0]
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.M{"status": "scheduled"}, idx.Options.PartialFilterExpression)
	assert.Equal(t, bson.D{
		{Key: "provider_id", Value: 1},
		{Key: "date", Value: 1},
		{Key: "time_slot", Value: 1},
	}, idx.Keys)
}

func TestSlotLockIndex_ExpiresImmediately(t *testing.T) {
	idx := SlotLocksIndexes[0]
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.EqualValues(t, 0, *idx.Options.ExpireAfterSeconds)
}
