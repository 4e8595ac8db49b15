package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/pkg/errors"
)

// Domain-specific errors
var (
	ErrNoItems        = errors.NewValidation("order must contain at least one item", nil)
	ErrNegativeAmount = errors.NewValidation("shipping and discount amounts cannot be negative", nil)
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id uuid.UUID) error {
	return errors.NewNotFound("order", id)
}

// NewCustomerNotFound creates a not found error with the customer ID
func NewCustomerNotFound(id uuid.UUID) error {
	return errors.NewNotFound("customer", id)
}

// NewInsufficientStock reports a line that would push a product's stock
// below zero, naming the product and the shortfall
func NewInsufficientStock(productID uuid.UUID, name string, requested, available decimal.Decimal) error {
	return errors.New(errors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for product %q: requested %s, available %s", name, requested, available),
		map[string]interface{}{
			"product_id": productID,
			"product":    name,
			"requested":  requested.String(),
			"available":  available.String(),
			"shortfall":  requested.Sub(available).String(),
		})
}

// NewProductUnavailable reports a product that is inactive or outside its
// availability window
func NewProductUnavailable(productID uuid.UUID, name, reason string) error {
	return errors.New(errors.CodeProductUnavailable,
		fmt.Sprintf("product %q is not available: %s", name, reason),
		map[string]interface{}{
			"product_id": productID,
			"product":    name,
			"reason":     reason,
		})
}

// NewQuantityOutOfRange reports a requested quantity outside the
// product's min/max order bounds
func NewQuantityOutOfRange(productID uuid.UUID, name string, requested, min decimal.Decimal, max *decimal.Decimal) error {
	details := map[string]interface{}{
		"product_id":         productID,
		"product":            name,
		"requested":          requested.String(),
		"min_order_quantity": min.String(),
	}
	if max != nil {
		details["max_order_quantity"] = max.String()
	}
	return errors.NewValidation(
		fmt.Sprintf("quantity %s for product %q is outside the allowed order range", requested, name),
		details)
}

// NewInvalidTransition reports a disallowed order status transition
func NewInvalidTransition(orderID uuid.UUID, from, to OrderStatus) error {
	return errors.New(errors.CodeInvalidTransition,
		fmt.Sprintf("order status cannot change from %s to %s", from, to),
		map[string]interface{}{
			"order_id": orderID,
			"from":     string(from),
			"to":       string(to),
		})
}

// NewInvalidPaymentTransition reports a disallowed payment status
// transition
func NewInvalidPaymentTransition(orderID uuid.UUID, from, to PaymentStatus) error {
	return errors.New(errors.CodeInvalidPaymentTransition,
		fmt.Sprintf("payment status cannot change from %s to %s", from, to),
		map[string]interface{}{
			"order_id": orderID,
			"from":     string(from),
			"to":       string(to),
		})
}

// NewShipmentInTransit rejects cancelling an order whose shipment is
// already with the carrier
func NewShipmentInTransit(orderID, shipmentID uuid.UUID) error {
	return errors.New(errors.CodeShipmentInTransit,
		"order has a shipment in transit and cannot be cancelled without a recall",
		map[string]interface{}{
			"order_id":    orderID,
			"shipment_id": shipmentID,
		})
}

// NewShipmentNotDelivered rejects fulfilling an order whose shipment has
// not been delivered
func NewShipmentNotDelivered(orderID uuid.UUID, shipmentStatus string) error {
	return errors.New(errors.CodeShipmentNotDelivered,
		"order cannot be fulfilled until its shipment is delivered",
		map[string]interface{}{
			"order_id":        orderID,
			"shipment_status": shipmentStatus,
		})
}
