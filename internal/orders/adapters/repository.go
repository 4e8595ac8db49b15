package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldtoyou/internal/orders/domain"
	"fieldtoyou/internal/orders/ports"
	shipdomain "fieldtoyou/internal/shipments/domain"
	"fieldtoyou/internal/storage"
	"fieldtoyou/pkg/db"
	apperrors "fieldtoyou/pkg/errors"
)

// cancellableStatuses are the order statuses the CANCELLED guard accepts,
// kept in sync with domain.OrderTransitions
var cancellableStatuses = []string{
	string(domain.OrderStatusDraft),
	string(domain.OrderStatusPendingPayment),
	string(domain.OrderStatusPaid),
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Create persists the order, its items, and every stock decrement in one
// transaction. A line that would oversell aborts the whole transaction,
// rolling back the decrements and rows already written.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)

	err := db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		for _, item := range order.Items {
			ok, err := storage.DecrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return apperrors.NewInternal("failed to decrement stock", err)
			}
			if !ok {
				// Zero rows affected: the product is gone or the
				// conditional guard rejected the decrement. Re-read to
				// name the shortfall.
				var product storage.ProductModel
				if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.NewNotFound("product", item.ProductID)
					}
					return apperrors.NewInternal("failed to read product", err)
				}
				return domain.NewInsufficientStock(product.ID, product.Name, item.Quantity, product.StockQuantity)
			}
		}

		if err := tx.Create(model).Error; err != nil {
			return apperrors.NewInternal("failed to create order", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.ID
	}

	return nil
}

// GetByID retrieves an order with its items and shipment reference
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var model storage.OrderModel

	result := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Shipment").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	order := toOrderDomain(&model)
	if err := r.fillProductNames(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List retrieves orders matching the filter, newest first
func (r *PostgresOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&storage.OrderModel{})

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", string(*filter.PaymentStatus))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count orders", err)
	}

	var models []storage.OrderModel
	err := query.
		Preload("Items").
		Preload("Shipment").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to list orders", err)
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = toOrderDomain(&models[i])
	}

	return orders, total, nil
}

// Cancel flips the order to CANCELLED and restores stock for every item,
// cascading a not-yet-shipped shipment to CANCELLED, all in one
// transaction.
func (r *PostgresOrderRepository) Cancel(ctx context.Context, order *domain.Order) error {
	return db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		// Re-check the shipment inside the transaction; it may have been
		// handed to the carrier since the order was loaded.
		var shipment storage.ShipmentModel
		err := tx.Where("order_id = ?", order.ID).First(&shipment).Error
		hasShipment := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewInternal("failed to read shipment", err)
		}
		if hasShipment && shipment.Status == string(shipdomain.StatusShipped) {
			return domain.NewShipmentInTransit(order.ID, shipment.ID)
		}

		res := tx.Model(&storage.OrderModel{}).
			Where("id = ? AND status IN ?", order.ID, cancellableStatuses).
			Update("status", string(domain.OrderStatusCancelled))
		if res.Error != nil {
			return apperrors.NewInternal("failed to cancel order", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeInvalidTransition,
				"order is no longer in a cancellable status", nil)
		}

		for _, item := range order.Items {
			ok, err := storage.RestoreStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return apperrors.NewInternal("failed to restore stock", err)
			}
			if !ok {
				// The product row is gone; aborting keeps the cancel
				// atomic instead of silently dropping the restoration.
				return apperrors.NewNotFound("product", item.ProductID)
			}
		}

		if hasShipment {
			err := tx.Model(&storage.ShipmentModel{}).
				Where("id = ? AND status IN ?", shipment.ID, []string{
					string(shipdomain.StatusPending),
					string(shipdomain.StatusPacked),
				}).
				Update("status", string(shipdomain.StatusCancelled)).Error
			if err != nil {
				return apperrors.NewInternal("failed to cancel shipment", err)
			}
		}

		return nil
	})
}

// UpdatePaymentStatus persists the payment status change and, when
// advanceOrder is set, the coupled order status flip to PAID
func (r *PostgresOrderRepository) UpdatePaymentStatus(ctx context.Context, order *domain.Order, from domain.PaymentStatus, advanceOrder bool) error {
	return db.Transaction(r.db, ctx, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"payment_status": string(order.PaymentStatus),
		}
		if order.PaymentReference != "" {
			updates["payment_reference"] = order.PaymentReference
		}

		res := tx.Model(&storage.OrderModel{}).
			Where("id = ? AND payment_status = ?", order.ID, string(from)).
			Updates(updates)
		if res.Error != nil {
			return apperrors.NewInternal("failed to update payment status", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeInvalidPaymentTransition,
				"payment status changed concurrently", nil)
		}

		if advanceOrder {
			res := tx.Model(&storage.OrderModel{}).
				Where("id = ? AND status = ?", order.ID, string(domain.OrderStatusPendingPayment)).
				Update("status", string(domain.OrderStatusPaid))
			if res.Error != nil {
				return apperrors.NewInternal("failed to advance order status", res.Error)
			}
		}

		return nil
	})
}

// UpdateStatus persists an order status transition guarded on the prior
// status
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&storage.OrderModel{}).
		Where("id = ? AND status = ?", order.ID, string(from)).
		Update("status", string(order.Status))
	if res.Error != nil {
		return apperrors.NewInternal("failed to update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeInvalidTransition,
			"order status changed concurrently", nil)
	}
	return nil
}

// NoteDelivered appends a delivery confirmation line to the order's
// internal notes. Called from the shipment delivered consumer.
func (r *PostgresOrderRepository) NoteDelivered(ctx context.Context, orderID uuid.UUID, trackingNumber string, deliveredAt *time.Time) error {
	note := "Delivery confirmed"
	if trackingNumber != "" {
		note += ", tracking " + trackingNumber
	}
	if deliveredAt != nil {
		note += ", " + deliveredAt.Format(time.RFC3339)
	}

	res := r.db.WithContext(ctx).Model(&storage.OrderModel{}).
		Where("id = ?", orderID).
		Update("internal_notes", gorm.Expr(
			"CASE WHEN COALESCE(internal_notes, '') = '' THEN ? ELSE internal_notes || ? END",
			note, "\n"+note))
	if res.Error != nil {
		return apperrors.NewInternal("failed to record delivery note", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("order", orderID)
	}
	return nil
}

// fillProductNames resolves product names for the order's items; the
// order_item table stores only the product reference.
func (r *PostgresOrderRepository) fillProductNames(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}

	var products []storage.ProductModel
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return apperrors.NewInternal("failed to read product names", err)
	}

	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range order.Items {
		order.Items[i].ProductName = names[order.Items[i].ProductID]
	}
	return nil
}

// toOrderModel converts a domain order to its GORM model
func toOrderModel(order *domain.Order) *storage.OrderModel {
	items := make([]storage.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = storage.OrderItemModel{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
			LineDiscount: item.LineDiscount,
			LineTotal:    item.LineTotal,
		}
	}

	return &storage.OrderModel{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		FarmerID:         order.FarmerID,
		Status:           string(order.Status),
		PaymentStatus:    string(order.PaymentStatus),
		PaymentProvider:  order.PaymentProvider,
		PaymentReference: order.PaymentReference,
		SubtotalAmount:   order.SubtotalAmount,
		ShippingAmount:   order.ShippingAmount,
		DiscountAmount:   order.DiscountAmount,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,

		ShippingName:       order.Shipping.Name,
		ShippingPhone:      order.Shipping.Phone,
		ShippingAddress1:   order.Shipping.Address1,
		ShippingAddress2:   order.Shipping.Address2,
		ShippingCity:       order.Shipping.City,
		ShippingPostalCode: order.Shipping.PostalCode,
		ShippingCountry:    order.Shipping.Country,

		CustomerNotes: order.CustomerNotes,
		InternalNotes: order.InternalNotes,

		Items: items,
	}
}

// toOrderDomain converts a GORM model to a domain order
func toOrderDomain(model *storage.OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ID:           item.ID,
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
			LineDiscount: item.LineDiscount,
			LineTotal:    item.LineTotal,
		}
	}

	var shipment *domain.ShipmentRef
	if model.Shipment != nil {
		shipment = &domain.ShipmentRef{
			ID:     model.Shipment.ID,
			Status: model.Shipment.Status,
		}
	}

	return &domain.Order{
		ID:               model.ID,
		CustomerID:       model.CustomerID,
		FarmerID:         model.FarmerID,
		Status:           domain.OrderStatus(model.Status),
		PaymentStatus:    domain.PaymentStatus(model.PaymentStatus),
		PaymentProvider:  model.PaymentProvider,
		PaymentReference: model.PaymentReference,
		SubtotalAmount:   model.SubtotalAmount,
		ShippingAmount:   model.ShippingAmount,
		DiscountAmount:   model.DiscountAmount,
		TotalAmount:      model.TotalAmount,
		Currency:         model.Currency,

		Shipping: domain.ShippingAddress{
			Name:       model.ShippingName,
			Phone:      model.ShippingPhone,
			Address1:   model.ShippingAddress1,
			Address2:   model.ShippingAddress2,
			City:       model.ShippingCity,
			PostalCode: model.ShippingPostalCode,
			Country:    model.ShippingCountry,
		},

		CustomerNotes: model.CustomerNotes,
		InternalNotes: model.InternalNotes,

		Items:    items,
		Shipment: shipment,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
