package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	orderdomain "fieldtoyou/internal/orders/domain"
	"fieldtoyou/internal/shipments/domain"
	"fieldtoyou/internal/shipments/ports"
	"fieldtoyou/internal/storage"
	"fieldtoyou/pkg/db"
	apperrors "fieldtoyou/pkg/errors"
)

// PostgresShipmentRepository implements ShipmentRepository using
// PostgreSQL
type PostgresShipmentRepository struct {
	db *gorm.DB
}

// NewPostgresShipmentRepository creates a new PostgreSQL shipment
// repository
func NewPostgresShipmentRepository(db *gorm.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

// Create persists a new shipment after checking its order is PAID and
// has no shipment yet. The checks and the insert share one transaction
// so two concurrent creates cannot both pass.
func (r *PostgresShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	model := toShipmentModel(shipment)

	err := db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		var order storage.OrderModel
		if err := tx.Select("id", "status").First(&order, "id = ?", shipment.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("order", shipment.OrderID)
			}
			return apperrors.NewInternal("failed to read order", err)
		}
		if order.Status != string(orderdomain.OrderStatusPaid) {
			return domain.NewOrderNotFulfillable(shipment.OrderID, order.Status)
		}

		var count int64
		if err := tx.Model(&storage.ShipmentModel{}).Where("order_id = ?", shipment.OrderID).Count(&count).Error; err != nil {
			return apperrors.NewInternal("failed to check existing shipment", err)
		}
		if count > 0 {
			return domain.NewShipmentExists(shipment.OrderID)
		}

		if err := tx.Create(model).Error; err != nil {
			return apperrors.NewInternal("failed to create shipment", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	shipment.ID = model.ID
	shipment.CreatedAt = model.CreatedAt
	shipment.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a shipment by ID
func (r *PostgresShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	var model storage.ShipmentModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewShipmentNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get shipment", result.Error)
	}

	return toShipmentDomain(&model), nil
}

// GetByOrderID retrieves the shipment for an order
func (r *PostgresShipmentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Shipment, error) {
	var model storage.ShipmentModel

	result := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("shipment for order", orderID)
		}
		return nil, apperrors.NewInternal("failed to get shipment", result.Error)
	}

	return toShipmentDomain(&model), nil
}

// GetByTracking retrieves a shipment by tracking number
func (r *PostgresShipmentRepository) GetByTracking(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	var model storage.ShipmentModel

	result := r.db.WithContext(ctx).First(&model, "tracking_number = ?", trackingNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("shipment with tracking", trackingNumber)
		}
		return nil, apperrors.NewInternal("failed to get shipment", result.Error)
	}

	return toShipmentDomain(&model), nil
}

// List retrieves shipments matching the filter, newest first
func (r *PostgresShipmentRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Shipment, int64, error) {
	query := r.db.WithContext(ctx).Model(&storage.ShipmentModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count shipments", err)
	}

	var models []storage.ShipmentModel
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to list shipments", err)
	}

	shipments := make([]*domain.Shipment, len(models))
	for i := range models {
		shipments[i] = toShipmentDomain(&models[i])
	}

	return shipments, total, nil
}

// Advance persists a status change guarded on the prior status. The
// DELIVERED transition flips the companion order PAID -> FULFILLED in
// the same transaction; the status guard on the order update makes the
// flip idempotent.
func (r *PostgresShipmentRepository) Advance(ctx context.Context, shipment *domain.Shipment, from domain.Status, fulfillOrder bool) error {
	return db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":          string(shipment.Status),
			"tracking_number": shipment.TrackingNumber,
			"shipped_at":      shipment.ShippedAt,
			"delivered_at":    shipment.DeliveredAt,
		}

		res := tx.Model(&storage.ShipmentModel{}).
			Where("id = ? AND status = ?", shipment.ID, string(from)).
			Updates(updates)
		if res.Error != nil {
			return apperrors.NewInternal("failed to advance shipment", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeInvalidShipmentTransition,
				"shipment status changed concurrently", nil)
		}

		if fulfillOrder {
			err := tx.Model(&storage.OrderModel{}).
				Where("id = ? AND status = ?", shipment.OrderID, string(orderdomain.OrderStatusPaid)).
				Update("status", string(orderdomain.OrderStatusFulfilled)).Error
			if err != nil {
				return apperrors.NewInternal("failed to fulfill order", err)
			}
		}

		return nil
	})
}

// toShipmentModel converts a domain shipment to its GORM model
func toShipmentModel(s *domain.Shipment) *storage.ShipmentModel {
	return &storage.ShipmentModel{
		ID:                    s.ID,
		OrderID:               s.OrderID,
		Status:                string(s.Status),
		CarrierName:           s.CarrierName,
		TrackingNumber:        s.TrackingNumber,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		ShippedAt:             s.ShippedAt,
		DeliveredAt:           s.DeliveredAt,

		ShippingName:       s.Address.Name,
		ShippingPhone:      s.Address.Phone,
		ShippingAddress1:   s.Address.Address1,
		ShippingAddress2:   s.Address.Address2,
		ShippingCity:       s.Address.City,
		ShippingPostalCode: s.Address.PostalCode,
		ShippingCountry:    s.Address.Country,
	}
}

// toShipmentDomain converts a GORM model to a domain shipment
func toShipmentDomain(model *storage.ShipmentModel) *domain.Shipment {
	return &domain.Shipment{
		ID:                    model.ID,
		OrderID:               model.OrderID,
		Status:                domain.Status(model.Status),
		CarrierName:           model.CarrierName,
		TrackingNumber:        model.TrackingNumber,
		EstimatedDeliveryDate: model.EstimatedDeliveryDate,
		ShippedAt:             model.ShippedAt,
		DeliveredAt:           model.DeliveredAt,

		Address: domain.Address{
			Name:       model.ShippingName,
			Phone:      model.ShippingPhone,
			Address1:   model.ShippingAddress1,
			Address2:   model.ShippingAddress2,
			City:       model.ShippingCity,
			PostalCode: model.ShippingPostalCode,
			Country:    model.ShippingCountry,
		},

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
