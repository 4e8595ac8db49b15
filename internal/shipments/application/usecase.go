package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldtoyou/internal/shipments/domain"
	"fieldtoyou/internal/shipments/ports"
	"fieldtoyou/pkg/logger"
)

// ShipmentUseCase handles shipment fulfillment logic
type ShipmentUseCase struct {
	repo      ports.ShipmentRepository
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewShipmentUseCase creates a new shipment use case
func NewShipmentUseCase(
	repo ports.ShipmentRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *ShipmentUseCase {
	return &ShipmentUseCase{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// CreateShipmentInput represents the input for creating a shipment
type CreateShipmentInput struct {
	OrderID           uuid.UUID
	CarrierName       string
	EstimatedDelivery *time.Time
	Address           domain.Address
}

// CreateShipment creates the PENDING shipment for a paid order. Each
// order has at most one shipment.
func (uc *ShipmentUseCase) CreateShipment(ctx context.Context, input CreateShipmentInput) (*domain.Shipment, error) {
	shipment := domain.NewShipment(input.OrderID, input.CarrierName, input.EstimatedDelivery, input.Address)

	if err := uc.repo.Create(ctx, shipment); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("shipment created",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("order_id", shipment.OrderID.String()),
	)

	return shipment, nil
}

// GetShipment retrieves a shipment by ID
func (uc *ShipmentUseCase) GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetShipmentByOrder retrieves the shipment for an order
func (uc *ShipmentUseCase) GetShipmentByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	return uc.repo.GetByOrderID(ctx, orderID)
}

// GetShipmentByTracking retrieves a shipment by tracking number
func (uc *ShipmentUseCase) GetShipmentByTracking(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return uc.repo.GetByTracking(ctx, trackingNumber)
}

// ListShipments retrieves shipments matching the filter
func (uc *ShipmentUseCase) ListShipments(ctx context.Context, filter ports.ListFilter) ([]*domain.Shipment, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return uc.repo.List(ctx, filter)
}

// AdvanceShipment moves a shipment along its lifecycle. The DELIVERED
// transition also fulfills the companion order, atomically with the
// shipment flip.
func (uc *ShipmentUseCase) AdvanceShipment(ctx context.Context, id uuid.UUID, next domain.Status, trackingNumber string) (*domain.Shipment, error) {
	shipment, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := shipment.Status
	if err := shipment.Advance(next, trackingNumber, time.Now()); err != nil {
		return nil, err
	}

	fulfillOrder := next == domain.StatusDelivered
	if err := uc.repo.Advance(ctx, shipment, from, fulfillOrder); err != nil {
		return nil, err
	}

	if fulfillOrder && uc.publisher != nil {
		if err := uc.publisher.PublishShipmentDelivered(ctx, shipment); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish shipment delivered event",
				zap.Error(err),
				zap.String("shipment_id", shipment.ID.String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("shipment advanced",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)

	return shipment, nil
}
