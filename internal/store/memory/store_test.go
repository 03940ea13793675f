package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking/internal/parking"
)

func TestStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now().UTC()

	for _, id := range []int{4, 2, 9} {
		slot := parking.NewSlot(id, id%2 == 0, false, now)
		require.NoError(t, s.Create(ctx, &slot))
	}

	all, err := s.Find(ctx, parking.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].ID)
	assert.Equal(t, 4, all[1].ID)
	assert.Equal(t, 9, all[2].ID)

	covered := true
	matches, err := s.Find(ctx, parking.Filter{Covered: &covered})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestStoreDuplicateAndMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	slot := parking.NewSlot(1, true, true, time.Now())
	require.NoError(t, s.Create(ctx, &slot))

	dup := parking.NewSlot(1, false, false, time.Now())
	assert.ErrorIs(t, s.Create(ctx, &dup), parking.ErrDuplicateID)

	stored, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.Covered)

	_, err = s.FindByID(ctx, 2)
	assert.ErrorIs(t, err, parking.ErrNotFound)

	ghost := parking.NewSlot(2, false, false, time.Now())
	assert.ErrorIs(t, s.Save(ctx, &ghost), parking.ErrNotFound)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	slot := parking.NewSlot(1, false, false, time.Now())
	require.NoError(t, s.Create(ctx, &slot))

	got, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	got.Park("Car", time.Now())

	stored, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stored.Occupied, "mutating a returned slot must not touch the store")

	require.NoError(t, s.Save(ctx, got))
	*got.VehicleType = "Truck"

	stored, err = s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Car", stored.Vehicle())
}

func TestParkingLotOverMemoryStore(t *testing.T) {
	ctx := context.Background()
	lot := parking.NewParkingLot(New())

	_, err := lot.SeedSamples(ctx)
	require.NoError(t, err)

	result, err := lot.Park(ctx, true, false, "")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Slot.ID)

	stored, err := lot.GetSlot(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.Occupied)
	assert.Equal(t, "Car", stored.Vehicle())
}
