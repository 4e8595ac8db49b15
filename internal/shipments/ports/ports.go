package ports

import (
	"context"

	"github.com/google/uuid"

	"fieldtoyou/internal/shipments/domain"
)

// ListFilter narrows shipment listings
type ListFilter struct {
	Status *domain.Status
	Offset int
	Limit  int
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	// Create persists a new shipment after verifying its order exists,
	// is PAID, and has no shipment yet
	Create(ctx context.Context, shipment *domain.Shipment) error

	// GetByID retrieves a shipment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)

	// GetByOrderID retrieves the shipment for an order
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error)

	// GetByTracking retrieves a shipment by tracking number
	GetByTracking(ctx context.Context, trackingNumber string) (*domain.Shipment, error)

	// List retrieves shipments matching the filter, newest first, with
	// the total match count
	List(ctx context.Context, filter ListFilter) ([]*domain.Shipment, int64, error)

	// Advance persists an already-validated status change, guarded on
	// the prior status. When fulfillOrder is set (the DELIVERED
	// transition) the companion order's PAID -> FULFILLED flip commits
	// in the same transaction.
	Advance(ctx context.Context, shipment *domain.Shipment, from domain.Status, fulfillOrder bool) error
}

// EventPublisher defines the interface for publishing shipment events
type EventPublisher interface {
	// PublishShipmentDelivered publishes a shipment delivered event
	PublishShipmentDelivered(ctx context.Context, shipment *domain.Shipment) error
}
