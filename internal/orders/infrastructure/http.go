package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/orders/application"
	"fieldtoyou/internal/orders/domain"
	"fieldtoyou/internal/orders/ports"
	"fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.PATCH("/:id/payment", h.UpdatePaymentStatus)
	}
}

// OrderLineRequest is one requested line in an order
type OrderLineRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	LineDiscount decimal.Decimal `json:"line_discount"`
}

// ShippingAddressRequest is the shipping address snapshot
type ShippingAddressRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	CustomerID     uuid.UUID              `json:"customer_id" binding:"required"`
	Items          []OrderLineRequest     `json:"items" binding:"required,min=1"`
	Shipping       ShippingAddressRequest `json:"shipping"`
	ShippingAmount decimal.Decimal        `json:"shipping_amount"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	CustomerNotes  string                 `json:"customer_notes"`
	Draft          bool                   `json:"draft"`
}

// OrderItemResponse is one line in an order response
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineDiscount decimal.Decimal `json:"line_discount"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	CustomerID       uuid.UUID           `json:"customer_id"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	SubtotalAmount   decimal.Decimal     `json:"subtotal_amount"`
	ShippingAmount   decimal.Decimal     `json:"shipping_amount"`
	DiscountAmount   decimal.Decimal     `json:"discount_amount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Currency         string              `json:"currency"`
	Items            []OrderItemResponse `json:"items"`
	ShipmentID       *uuid.UUID          `json:"shipment_id,omitempty"`
	ShipmentStatus   string              `json:"shipment_status,omitempty"`
	CreatedAt        string              `json:"created_at"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineSubtotal: item.LineSubtotal,
			LineDiscount: item.LineDiscount,
			LineTotal:    item.LineTotal,
		}
	}

	resp := OrderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		Status:           string(order.Status),
		PaymentStatus:    string(order.PaymentStatus),
		PaymentReference: order.PaymentReference,
		SubtotalAmount:   order.SubtotalAmount,
		ShippingAmount:   order.ShippingAmount,
		DiscountAmount:   order.DiscountAmount,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		Items:            items,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
	}
	if order.Shipment != nil {
		id := order.Shipment.ID
		resp.ShipmentID = &id
		resp.ShipmentStatus = order.Shipment.Status
	}
	return resp
}

// CreateOrder handles POST /orders
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	lines := make([]application.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = application.LineInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			LineDiscount: item.LineDiscount,
		}
	}

	order, err := h.useCase.CreateOrder(c.Request.Context(), application.CreateOrderInput{
		CustomerID: req.CustomerID,
		Lines:      lines,
		Shipping: domain.ShippingAddress{
			Name:       req.Shipping.Name,
			Phone:      req.Shipping.Phone,
			Address1:   req.Shipping.Address1,
			Address2:   req.Shipping.Address2,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
			Country:    req.Shipping.Country,
		},
		ShippingAmount: req.ShippingAmount,
		DiscountAmount: req.DiscountAmount,
		CustomerNotes:  req.CustomerNotes,
		Draft:          req.Draft,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListOrders handles GET /orders
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	filter := ports.ListFilter{}

	if v := c.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.Error(errors.NewValidation("invalid customer_id", nil))
			return
		}
		filter.CustomerID = &id
	}
	if v := c.Query("status"); v != "" {
		status, ok := domain.ParseOrderStatus(v)
		if !ok {
			c.Error(errors.NewValidation("invalid status", nil))
			return
		}
		filter.Status = &status
	}
	if v := c.Query("payment_status"); v != "" {
		status, ok := domain.ParsePaymentStatus(v)
		if !ok {
			c.Error(errors.NewValidation("invalid payment_status", nil))
			return
		}
		filter.PaymentStatus = &status
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, total, err := h.useCase.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]OrderResponse, len(orders))
	for i, order := range orders {
		items[i] = toOrderResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     items,
		"total":    total,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return
	}

	order, err := h.useCase.CancelOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateStatusRequest is the request body for updating order status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		c.Error(errors.NewValidation("invalid status", nil))
		return
	}

	order, err := h.useCase.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdatePaymentRequest is the request body for updating payment status
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	Reference     string `json:"reference"`
}

// UpdatePaymentStatus handles PATCH /orders/:id/payment
func (h *HTTPHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	status, ok := domain.ParsePaymentStatus(req.PaymentStatus)
	if !ok {
		c.Error(errors.NewValidation("invalid payment_status", nil))
		return
	}

	order, err := h.useCase.UpdatePaymentStatus(c.Request.Context(), id, status, req.Reference)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
