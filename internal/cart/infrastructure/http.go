package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/cart/application"
	"fieldtoyou/internal/cart/domain"
	"fieldtoyou/internal/cart/ports"
	"fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/middleware"
)

// SessionHeader carries the anonymous cart session identifier
const SessionHeader = "X-Session-ID"

// HTTPHandler handles HTTP requests for the cart
type HTTPHandler struct {
	useCase *application.CartUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CartUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the cart routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	cart := r.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.POST("/checkout", h.Checkout)
		cart.POST("/abandon", h.AbandonCart)
	}
}

func sessionID(c *gin.Context) (string, bool) {
	if v := c.GetHeader(SessionHeader); v != "" {
		return v, true
	}
	if v := c.Query("session_id"); v != "" {
		return v, true
	}
	return "", false
}

// CartItemResponse is one line in a cart response
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CartResponse is the response body for cart operations
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	SessionID  string             `json:"session_id"`
	CustomerID *uuid.UUID         `json:"customer_id,omitempty"`
	Status     string             `json:"status"`
	Items      []CartItemResponse `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	CreatedAt  string             `json:"created_at"`
}

func toCartResponse(cart *domain.Cart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return CartResponse{
		ID:         cart.ID,
		SessionID:  cart.SessionID,
		CustomerID: cart.CustomerID,
		Status:     string(cart.Status),
		Items:      items,
		Subtotal:   cart.Subtotal(),
		CreatedAt:  cart.CreatedAt.Format(time.RFC3339),
	}
}

// GetCart handles GET /cart
func (h *HTTPHandler) GetCart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	cart, err := h.useCase.GetCart(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AddItemRequest is the request body for adding a cart line
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// AddItem handles POST /cart/items
func (h *HTTPHandler) AddItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	cart, err := h.useCase.AddItem(c.Request.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateItemRequest is the request body for changing a line's quantity
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// UpdateItem handles PATCH /cart/items/:id
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid item id", nil))
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	cart, err := h.useCase.UpdateItemQuantity(c.Request.Context(), session, itemID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *HTTPHandler) RemoveItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid item id", nil))
		return
	}

	cart, err := h.useCase.RemoveItem(c.Request.Context(), session, itemID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ClearCart handles DELETE /cart
func (h *HTTPHandler) ClearCart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	cart, err := h.useCase.ClearCart(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AbandonCart handles POST /cart/abandon
func (h *HTTPHandler) AbandonCart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	cart, err := h.useCase.AbandonCart(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCartResponse(cart),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// CheckoutShippingRequest is the shipping address collected at checkout
type CheckoutShippingRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutRequest is the request body for converting a cart into an order
type CheckoutRequest struct {
	CustomerID     *uuid.UUID              `json:"customer_id"`
	Shipping       CheckoutShippingRequest `json:"shipping"`
	ShippingAmount decimal.Decimal         `json:"shipping_amount"`
	CustomerNotes  string                  `json:"customer_notes"`
}

// CheckoutResponse pairs the converted cart with the created order
type CheckoutResponse struct {
	Cart  CartResponse `json:"cart"`
	Order OrderSummary `json:"order"`
}

// OrderSummary is the created order summary returned from checkout
type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// Checkout handles POST /cart/checkout
func (h *HTTPHandler) Checkout(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		c.Error(errors.NewValidation("missing session id", nil))
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	result, err := h.useCase.Checkout(c.Request.Context(), session, application.CheckoutInput{
		CustomerID: req.CustomerID,
		Shipping: ports.CheckoutShipping{
			Name:       req.Shipping.Name,
			Phone:      req.Shipping.Phone,
			Address1:   req.Shipping.Address1,
			Address2:   req.Shipping.Address2,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
			Country:    req.Shipping.Country,
		},
		ShippingAmount: req.ShippingAmount,
		CustomerNotes:  req.CustomerNotes,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": CheckoutResponse{
			Cart: toCartResponse(result.Cart),
			Order: OrderSummary{
				ID:          result.Order.ID,
				Status:      result.Order.Status,
				TotalAmount: result.Order.TotalAmount,
				Currency:    result.Order.Currency,
			},
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
