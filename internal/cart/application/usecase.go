package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fieldtoyou/internal/cart/domain"
	"fieldtoyou/internal/cart/ports"
	apperrors "fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/logger"
)

// CartUseCase handles the pre-order working set: building a cart per
// session and converting it into an order at checkout
type CartUseCase struct {
	repo    ports.CartRepository
	catalog ports.ProductReader
	orders  ports.OrderPlacer
	log     *logger.Logger
}

// NewCartUseCase creates a new cart use case
func NewCartUseCase(repo ports.CartRepository, catalog ports.ProductReader, orders ports.OrderPlacer, log *logger.Logger) *CartUseCase {
	return &CartUseCase{
		repo:    repo,
		catalog: catalog,
		orders:  orders,
		log:     log,
	}
}

// GetCart returns the session's active cart, creating an empty one on
// first touch
func (uc *CartUseCase) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}

	cart = &domain.Cart{
		SessionID: sessionID,
		Status:    domain.StatusActive,
	}
	if err := uc.repo.Create(ctx, cart); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("cart created",
		zap.String("cart_id", cart.ID.String()),
	)
	return cart, nil
}

// AddItem adds a product to the session's cart, merging quantities when
// the product is already in it. The price captured here is advisory;
// checkout reprices from the live catalog.
func (uc *CartUseCase) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity decimal.Decimal) (*domain.Cart, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.NewValidation("quantity must be greater than 0", nil)
	}

	cart, err := uc.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Mutable() {
		return nil, domain.NewCartNotActive(cart.ID, cart.Status)
	}

	product, err := uc.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.AvailableOn(time.Now()) {
		return nil, apperrors.New(apperrors.CodeProductUnavailable,
			"product "+product.Name+" is not currently available", nil)
	}

	total := quantity
	item := cart.FindItem(productID)
	if item != nil {
		total = item.Quantity.Add(quantity)
	}

	// Advisory only; the order workflow enforces stock atomically at
	// checkout.
	if product.StockQuantity.LessThan(total) {
		return nil, apperrors.New(apperrors.CodeInsufficientStock,
			"insufficient stock for "+product.Name,
			map[string]string{
				"product_id": product.ID.String(),
				"requested":  total.String(),
				"available":  product.StockQuantity.String(),
			})
	}

	if item == nil {
		item = &domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
		}
	}
	item.Quantity = total
	item.UnitPrice = product.PricePerUnit

	if err := uc.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("cart item added",
		zap.String("cart_id", cart.ID.String()),
		zap.String("product_id", productID.String()),
		zap.String("quantity", total.String()),
	)

	return uc.repo.GetByID(ctx, cart.ID)
}

// UpdateItemQuantity sets the quantity of a cart line. Zero removes the
// line.
func (uc *CartUseCase) UpdateItemQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity decimal.Decimal) (*domain.Cart, error) {
	if quantity.IsNegative() {
		return nil, apperrors.NewValidation("quantity cannot be negative", nil)
	}

	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Mutable() {
		return nil, domain.NewCartNotActive(cart.ID, cart.Status)
	}

	var item *domain.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			item = &cart.Items[i]
			break
		}
	}
	if item == nil {
		return nil, domain.NewItemNotFound(itemID)
	}

	if quantity.IsZero() {
		if err := uc.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
			return nil, err
		}
		return uc.repo.GetByID(ctx, cart.ID)
	}

	item.Quantity = quantity
	if err := uc.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, cart.ID)
}

// RemoveItem removes a line from the session's cart
func (uc *CartUseCase) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*domain.Cart, error) {
	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Mutable() {
		return nil, domain.NewCartNotActive(cart.ID, cart.Status)
	}

	if cart.FindItemByID(itemID) == nil {
		return nil, domain.NewItemNotFound(itemID)
	}

	if err := uc.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, cart.ID)
}

// ClearCart removes every line from the session's cart
func (uc *CartUseCase) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Mutable() {
		return nil, domain.NewCartNotActive(cart.ID, cart.Status)
	}

	if err := uc.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, cart.ID)
}

// CheckoutInput represents the input for converting a cart into an order
type CheckoutInput struct {
	CustomerID     *uuid.UUID
	Shipping       ports.CheckoutShipping
	ShippingAmount decimal.Decimal
	CustomerNotes  string
}

// CheckoutResult pairs the converted cart with the order created from it
type CheckoutResult struct {
	Cart  *domain.Cart
	Order *ports.PlacedOrder
}

// Checkout converts the session's cart into an order. Lines are repriced
// from the live catalog and placed all-or-nothing; only a successful
// placement marks the cart CONVERTED.
func (uc *CartUseCase) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Mutable() {
		return nil, domain.NewCartNotActive(cart.ID, cart.Status)
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCheckout
	}

	customerID := cart.CustomerID
	if input.CustomerID != nil {
		customerID = input.CustomerID
	}
	if customerID == nil {
		return nil, domain.NewCustomerRequired(cart.ID)
	}
	if cart.CustomerID == nil || *cart.CustomerID != *customerID {
		if err := uc.repo.SetCustomer(ctx, cart.ID, *customerID); err != nil {
			return nil, err
		}
		cart.CustomerID = customerID
	}

	lines := make([]ports.CheckoutLine, len(cart.Items))
	for i, item := range cart.Items {
		lines[i] = ports.CheckoutLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order, err := uc.orders.PlaceOrder(ctx, ports.CheckoutOrder{
		CustomerID:     *customerID,
		Lines:          lines,
		Shipping:       input.Shipping,
		ShippingAmount: input.ShippingAmount,
		CustomerNotes:  input.CustomerNotes,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatus(ctx, cart.ID, domain.StatusActive, domain.StatusConverted); err != nil {
		// The order exists; surface the cart state problem but log the
		// order so it is not lost.
		uc.log.WithContext(ctx).Error("order placed but cart conversion failed",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
			zap.String("order_id", order.ID.String()),
		)
		return nil, err
	}
	cart.Status = domain.StatusConverted

	uc.log.WithContext(ctx).Info("cart checked out",
		zap.String("cart_id", cart.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.TotalAmount.String()),
	)

	return &CheckoutResult{Cart: cart, Order: order}, nil
}

// AbandonCart marks the session's cart ABANDONED
func (uc *CartUseCase) AbandonCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := uc.repo.GetActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatus(ctx, cart.ID, domain.StatusActive, domain.StatusAbandoned); err != nil {
		return nil, err
	}
	cart.Status = domain.StatusAbandoned
	return cart, nil
}
