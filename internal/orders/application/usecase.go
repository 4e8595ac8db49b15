package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fieldtoyou/internal/orders/domain"
	"fieldtoyou/internal/orders/ports"
	shipdomain "fieldtoyou/internal/shipments/domain"
	"fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/logger"
)

// OrderUseCase handles the order workflow: creation with stock decrement,
// cancellation with stock restore, and the two status axes
type OrderUseCase struct {
	repo      ports.OrderRepository
	catalog   ports.CatalogGateway
	publisher ports.EventPublisher
	farmerID  uuid.UUID
	log       *logger.Logger
}

// NewOrderUseCase creates a new order use case. farmerID designates the
// single farm every order is written against.
func NewOrderUseCase(
	repo ports.OrderRepository,
	catalog ports.CatalogGateway,
	publisher ports.EventPublisher,
	farmerID uuid.UUID,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		farmerID:  farmerID,
		log:       log,
	}
}

// LineInput is one requested product/quantity pair
type LineInput struct {
	ProductID    uuid.UUID
	Quantity     decimal.Decimal
	LineDiscount decimal.Decimal
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	CustomerID     uuid.UUID
	Lines          []LineInput
	Shipping       domain.ShippingAddress
	ShippingAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	CustomerNotes  string
	Draft          bool
}

// CreateOrder places an order: validates every line against the current
// product record, snapshots unit prices, and persists the order with all
// stock decrements as one atomic unit.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrNoItems
	}

	now := time.Now()
	currency := ""
	items := make([]domain.OrderItem, 0, len(input.Lines))

	for _, line := range input.Lines {
		product, err := uc.catalog.OrderableProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		if !product.AvailableOn(now) {
			reason := "inactive"
			if product.IsActive {
				reason = "outside availability window"
			}
			return nil, domain.NewProductUnavailable(product.ID, product.Name, reason)
		}

		if !line.Quantity.IsPositive() {
			return nil, errors.NewValidation("quantity must be greater than 0", nil)
		}
		if line.Quantity.LessThan(product.MinOrderQuantity) {
			return nil, domain.NewQuantityOutOfRange(product.ID, product.Name, line.Quantity, product.MinOrderQuantity, product.MaxOrderQuantity)
		}
		if product.MaxOrderQuantity != nil && line.Quantity.GreaterThan(*product.MaxOrderQuantity) {
			return nil, domain.NewQuantityOutOfRange(product.ID, product.Name, line.Quantity, product.MinOrderQuantity, product.MaxOrderQuantity)
		}

		// Early overselling check; the repository re-checks atomically
		// inside the transaction.
		if product.StockQuantity.LessThan(line.Quantity) {
			return nil, domain.NewInsufficientStock(product.ID, product.Name, line.Quantity, product.StockQuantity)
		}

		discount := line.LineDiscount
		if discount.IsNegative() {
			return nil, errors.NewValidation("line discount cannot be negative", nil)
		}

		if currency == "" {
			currency = product.Currency
		}
		items = append(items, domain.NewOrderItem(product.ID, product.Name, line.Quantity, product.PricePerUnit, discount))
	}

	order, err := domain.NewOrder(input.CustomerID, uc.farmerID, items, input.Shipping, input.ShippingAmount, input.DiscountAmount, currency, input.Draft)
	if err != nil {
		return nil, err
	}
	order.CustomerNotes = input.CustomerNotes

	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCreated(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order created event",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.String("status", string(order.Status)),
		zap.String("total", order.TotalAmount.String()),
		zap.Int("items", len(order.Items)),
	)

	return order, nil
}

// GetOrder retrieves an order by ID with its items and shipment
func (uc *OrderUseCase) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListOrders retrieves orders matching the filter
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return uc.repo.List(ctx, filter)
}

// CancelOrder cancels an order and restores the stock it consumed. The
// status flip, every stock restoration, and the shipment cascade commit
// as one transaction.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.Cancellable() {
		return nil, domain.NewInvalidTransition(order.ID, order.Status, domain.OrderStatusCancelled)
	}

	// A shipment already handed to a carrier cannot be silently
	// cancelled; it needs an explicit recall first.
	if order.Shipment != nil && order.Shipment.Status == string(shipdomain.StatusShipped) {
		return nil, domain.NewShipmentInTransit(order.ID, order.Shipment.ID)
	}

	order.Cancel()
	if err := uc.repo.Cancel(ctx, order); err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCancelled(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order cancelled event",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.Int("items_restored", len(order.Items)),
	)

	return order, nil
}

// UpdatePaymentStatus applies a payment status transition. Reaching
// CAPTURED while the order is PENDING_PAYMENT also advances the order to
// PAID; no other payment transition touches order status.
func (uc *OrderUseCase) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next domain.PaymentStatus, reference string) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.PaymentStatus.CanTransitionTo(next) {
		return nil, domain.NewInvalidPaymentTransition(order.ID, order.PaymentStatus, next)
	}

	advanceOrder := next == domain.PaymentStatusCaptured && order.Status == domain.OrderStatusPendingPayment

	from := order.PaymentStatus
	order.PaymentStatus = next
	if reference != "" {
		order.PaymentReference = reference
	}
	if advanceOrder {
		order.Status = domain.OrderStatusPaid
	}

	if err := uc.repo.UpdatePaymentStatus(ctx, order, from, advanceOrder); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("payment status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_status", string(next)),
		zap.Bool("order_advanced_to_paid", advanceOrder),
	)

	return order, nil
}

// UpdateOrderStatus applies an order status transition. CANCELLED routes
// through CancelOrder so stock restoration cannot be bypassed; FULFILLED
// is only reachable once the companion shipment is DELIVERED.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if next == domain.OrderStatusCancelled {
		return uc.CancelOrder(ctx, id)
	}

	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, domain.NewInvalidTransition(order.ID, order.Status, next)
	}

	if next == domain.OrderStatusFulfilled {
		if order.Shipment == nil {
			return nil, domain.NewShipmentNotDelivered(order.ID, "none")
		}
		if order.Shipment.Status != string(shipdomain.StatusDelivered) {
			return nil, domain.NewShipmentNotDelivered(order.ID, order.Shipment.Status)
		}
	}

	from := order.Status
	order.Status = next
	if err := uc.repo.UpdateStatus(ctx, order, from); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(next)),
	)

	return order, nil
}
