package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusDraft, OrderStatusPendingPayment, true},
		{OrderStatusDraft, OrderStatusCancelled, true},
		{OrderStatusDraft, OrderStatusPaid, false},
		{OrderStatusPendingPayment, OrderStatusPaid, true},
		{OrderStatusPendingPayment, OrderStatusCancelled, true},
		{OrderStatusPendingPayment, OrderStatusFulfilled, false},
		{OrderStatusPaid, OrderStatusFulfilled, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusDraft, false},
		{OrderStatusCancelled, OrderStatusDraft, false},
		{OrderStatusCancelled, OrderStatusPendingPayment, false},
		{OrderStatusFulfilled, OrderStatusCancelled, false},
		{OrderStatusFulfilled, OrderStatusPaid, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_Cancellable(t *testing.T) {
	assert.True(t, OrderStatusDraft.Cancellable())
	assert.True(t, OrderStatusPendingPayment.Cancellable())
	assert.True(t, OrderStatusPaid.Cancellable())
	assert.False(t, OrderStatusCancelled.Cancellable())
	assert.False(t, OrderStatusFulfilled.Cancellable())
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentStatusPending, PaymentStatusAuthorized, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusCaptured, false},
		{PaymentStatusAuthorized, PaymentStatusCaptured, true},
		{PaymentStatusAuthorized, PaymentStatusFailed, true},
		{PaymentStatusCaptured, PaymentStatusRefunded, true},
		{PaymentStatusCaptured, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusAuthorized, false},
		{PaymentStatusRefunded, PaymentStatusCaptured, false},
		{PaymentStatusNotRequired, PaymentStatusPending, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestNewOrderItem_LineAmounts(t *testing.T) {
	item := NewOrderItem(uuid.New(), "Cherry Tomatoes", d("2"), d("4.50"), decimal.Zero)

	assert.True(t, item.LineSubtotal.Equal(d("9.00")), "subtotal = %s", item.LineSubtotal)
	assert.True(t, item.LineTotal.Equal(d("9.00")), "total = %s", item.LineTotal)
}

func TestNewOrderItem_Discount(t *testing.T) {
	item := NewOrderItem(uuid.New(), "Eggs", d("3"), d("10.00"), d("5.00"))

	assert.True(t, item.LineSubtotal.Equal(d("30.00")))
	assert.True(t, item.LineTotal.Equal(d("25.00")))
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	items := []OrderItem{
		NewOrderItem(uuid.New(), "Cherry Tomatoes", d("2"), d("4.50"), decimal.Zero),
		NewOrderItem(uuid.New(), "Cucumbers", d("1.5"), d("6.00"), decimal.Zero),
	}

	order, err := NewOrder(uuid.New(), uuid.New(), items, ShippingAddress{}, d("15.00"), d("2.00"), "ILS", false)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPendingPayment, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.SubtotalAmount.Equal(d("18.00")), "subtotal = %s", order.SubtotalAmount)
	assert.True(t, order.TotalAmount.Equal(d("31.00")), "total = %s", order.TotalAmount)
}

func TestNewOrder_Draft(t *testing.T) {
	items := []OrderItem{
		NewOrderItem(uuid.New(), "Honey", d("1"), d("35.00"), decimal.Zero),
	}

	order, err := NewOrder(uuid.New(), uuid.New(), items, ShippingAddress{}, decimal.Zero, decimal.Zero, "ILS", true)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusDraft, order.Status)
}

func TestNewOrder_NoItems(t *testing.T) {
	_, err := NewOrder(uuid.New(), uuid.New(), nil, ShippingAddress{}, decimal.Zero, decimal.Zero, "ILS", false)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestNewOrder_NegativeAmounts(t *testing.T) {
	items := []OrderItem{
		NewOrderItem(uuid.New(), "Honey", d("1"), d("35.00"), decimal.Zero),
	}

	_, err := NewOrder(uuid.New(), uuid.New(), items, ShippingAddress{}, d("-1"), decimal.Zero, "ILS", false)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewOrder(uuid.New(), uuid.New(), items, ShippingAddress{}, decimal.Zero, d("-1"), "ILS", false)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("PAID")
	require.True(t, ok)
	assert.Equal(t, OrderStatusPaid, status)

	_, ok = ParseOrderStatus("paid")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("SHIPPED")
	assert.False(t, ok)
}

func TestParsePaymentStatus(t *testing.T) {
	status, ok := ParsePaymentStatus("CAPTURED")
	require.True(t, ok)
	assert.Equal(t, PaymentStatusCaptured, status)

	_, ok = ParsePaymentStatus("DONE")
	assert.False(t, ok)
}
