package adapters

import (
	"context"

	"github.com/shopspring/decimal"

	"fieldtoyou/internal/cart/ports"
	ordersapp "fieldtoyou/internal/orders/application"
	ordersdomain "fieldtoyou/internal/orders/domain"
)

// OrderGateway places orders through the order workflow in-process.
// Placement inherits the workflow's guarantees: live repricing and
// all-or-nothing stock decrement.
type OrderGateway struct {
	orders *ordersapp.OrderUseCase
}

// NewOrderGateway creates a new order gateway
func NewOrderGateway(orders *ordersapp.OrderUseCase) *OrderGateway {
	return &OrderGateway{orders: orders}
}

// PlaceOrder converts a checkout request into an order
func (g *OrderGateway) PlaceOrder(ctx context.Context, checkout ports.CheckoutOrder) (*ports.PlacedOrder, error) {
	lines := make([]ordersapp.LineInput, len(checkout.Lines))
	for i, line := range checkout.Lines {
		lines[i] = ordersapp.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	order, err := g.orders.CreateOrder(ctx, ordersapp.CreateOrderInput{
		CustomerID: checkout.CustomerID,
		Lines:      lines,
		Shipping: ordersdomain.ShippingAddress{
			Name:       checkout.Shipping.Name,
			Phone:      checkout.Shipping.Phone,
			Address1:   checkout.Shipping.Address1,
			Address2:   checkout.Shipping.Address2,
			City:       checkout.Shipping.City,
			PostalCode: checkout.Shipping.PostalCode,
			Country:    checkout.Shipping.Country,
		},
		ShippingAmount: checkout.ShippingAmount,
		DiscountAmount: decimal.Zero,
		CustomerNotes:  checkout.CustomerNotes,
	})
	if err != nil {
		return nil, err
	}

	return &ports.PlacedOrder{
		ID:          order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}, nil
}
