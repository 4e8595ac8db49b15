package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "DRAFT"
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusFulfilled      OrderStatus = "FULFILLED"
)

// PaymentStatus represents the payment state of an order, independent of
// the order status axis
type PaymentStatus string

const (
	PaymentStatusNotRequired PaymentStatus = "NOT_REQUIRED"
	PaymentStatusPending     PaymentStatus = "PENDING"
	PaymentStatusAuthorized  PaymentStatus = "AUTHORIZED"
	PaymentStatusCaptured    PaymentStatus = "CAPTURED"
	PaymentStatusFailed      PaymentStatus = "FAILED"
	PaymentStatusRefunded    PaymentStatus = "REFUNDED"
)

// OrderTransitions is the allow-list of order status transitions.
// CANCELLED and FULFILLED are terminal.
var OrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:          {OrderStatusPendingPayment, OrderStatusCancelled},
	OrderStatusPendingPayment: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusCancelled:      {},
	OrderStatusFulfilled:      {},
}

// PaymentTransitions is the allow-list of payment status transitions.
var PaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusNotRequired: {},
	PaymentStatusPending:     {PaymentStatusAuthorized, PaymentStatusFailed},
	PaymentStatusAuthorized:  {PaymentStatusCaptured, PaymentStatusFailed},
	PaymentStatusCaptured:    {PaymentStatusRefunded},
	PaymentStatusFailed:      {},
	PaymentStatusRefunded:    {},
}

// CanTransitionTo reports whether next is a permitted order status
// transition from s
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range OrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s may be cancelled
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}

// CanTransitionTo reports whether next is a permitted payment status
// transition from s
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range PaymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus validates an order status string from the API
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusDraft, OrderStatusPendingPayment, OrderStatusPaid,
		OrderStatusCancelled, OrderStatusFulfilled:
		return OrderStatus(s), true
	}
	return "", false
}

// ParsePaymentStatus validates a payment status string from the API
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusNotRequired, PaymentStatusPending, PaymentStatusAuthorized,
		PaymentStatusCaptured, PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

// ShippingAddress is the address snapshot carried on an order
type ShippingAddress struct {
	Name       string
	Phone      string
	Address1   string
	Address2   string
	City       string
	PostalCode string
	Country    string
}

// OrderItem is one product line within an order. Quantities are frozen
// once the order is placed; corrections happen via cancellation.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	LineSubtotal decimal.Decimal
	LineDiscount decimal.Decimal
	LineTotal    decimal.Decimal
}

// NewOrderItem builds a line with its computed amounts:
// line_subtotal = quantity * unit_price, line_total = line_subtotal - line_discount
func NewOrderItem(productID uuid.UUID, productName string, quantity, unitPrice, lineDiscount decimal.Decimal) OrderItem {
	subtotal := quantity.Mul(unitPrice)
	return OrderItem{
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		LineSubtotal: subtotal,
		LineDiscount: lineDiscount,
		LineTotal:    subtotal.Sub(lineDiscount),
	}
}

// ShipmentRef is the order's view of its companion shipment, loaded for
// the cancellation guard. Status holds a shipment status enum value.
type ShipmentRef struct {
	ID     uuid.UUID
	Status string
}

// Order is the order aggregate
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	FarmerID   uuid.UUID

	Status           OrderStatus
	PaymentStatus    PaymentStatus
	PaymentProvider  string
	PaymentReference string

	SubtotalAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Currency       string

	Shipping      ShippingAddress
	CustomerNotes string
	InternalNotes string

	Items    []OrderItem
	Shipment *ShipmentRef

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder creates an order for the given customer with the prepared
// lines. Draft orders are farmer-entered; everything else starts in
// PENDING_PAYMENT with payment PENDING.
func NewOrder(customerID, farmerID uuid.UUID, items []OrderItem, shipping ShippingAddress, shippingAmount, discountAmount decimal.Decimal, currency string, draft bool) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if shippingAmount.IsNegative() || discountAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	status := OrderStatusPendingPayment
	if draft {
		status = OrderStatusDraft
	}

	o := &Order{
		CustomerID:     customerID,
		FarmerID:       farmerID,
		Status:         status,
		PaymentStatus:  PaymentStatusPending,
		ShippingAmount: shippingAmount,
		DiscountAmount: discountAmount,
		Currency:       currency,
		Shipping:       shipping,
		Items:          items,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	o.ComputeTotals()

	return o, nil
}

// ComputeTotals derives subtotal_amount from the line totals and
// total_amount = subtotal + shipping - discount
func (o *Order) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.SubtotalAmount = subtotal
	o.TotalAmount = subtotal.Add(o.ShippingAmount).Sub(o.DiscountAmount)
}

// Cancel flips the order to CANCELLED. Callers must have checked
// Status.Cancellable() and the shipment guard first.
func (o *Order) Cancel() {
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
}
