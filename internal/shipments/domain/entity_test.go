package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fieldtoyou/pkg/errors"
)

func TestTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPacked, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusPacked, StatusShipped, true},
		{StatusPacked, StatusCancelled, true},
		{StatusPacked, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestNewShipment_StartsPending(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})
	assert.Equal(t, StatusPending, shipment.Status)
	assert.Nil(t, shipment.ShippedAt)
	assert.Nil(t, shipment.DeliveredAt)
}

func TestAdvance_ShippedRequiresTracking(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})
	require.NoError(t, shipment.Advance(StatusPacked, "", time.Now()))

	err := shipment.Advance(StatusShipped, "", time.Now())
	assert.ErrorIs(t, err, ErrTrackingRequired)
	assert.Equal(t, StatusPacked, shipment.Status)
}

func TestAdvance_ShippedStampsTimestamp(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})
	now := time.Now()
	require.NoError(t, shipment.Advance(StatusPacked, "", now))
	require.NoError(t, shipment.Advance(StatusShipped, "TRK-001", now))

	assert.Equal(t, StatusShipped, shipment.Status)
	assert.Equal(t, "TRK-001", shipment.TrackingNumber)
	require.NotNil(t, shipment.ShippedAt)
	assert.Equal(t, now, *shipment.ShippedAt)
}

func TestAdvance_DeliveredStampsTimestamp(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})
	now := time.Now()
	require.NoError(t, shipment.Advance(StatusPacked, "", now))
	require.NoError(t, shipment.Advance(StatusShipped, "TRK-001", now))
	require.NoError(t, shipment.Advance(StatusDelivered, "", now))

	assert.Equal(t, StatusDelivered, shipment.Status)
	require.NotNil(t, shipment.DeliveredAt)
	assert.Equal(t, now, *shipment.DeliveredAt)
}

func TestAdvance_OutOfOrder(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})

	err := shipment.Advance(StatusDelivered, "", time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidShipmentTransition))
	assert.Equal(t, StatusPending, shipment.Status)
}

func TestAdvance_KeepsExistingTracking(t *testing.T) {
	shipment := NewShipment(uuid.New(), "IsraelPost", nil, Address{})
	shipment.TrackingNumber = "TRK-PRE"
	require.NoError(t, shipment.Advance(StatusPacked, "", time.Now()))

	// No new tracking number supplied; the existing one suffices
	require.NoError(t, shipment.Advance(StatusShipped, "", time.Now()))
	assert.Equal(t, "TRK-PRE", shipment.TrackingNumber)
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("PACKED")
	require.True(t, ok)
	assert.Equal(t, StatusPacked, status)

	_, ok = ParseStatus("LOST")
	assert.False(t, ok)
}
