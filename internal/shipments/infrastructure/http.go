package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldtoyou/internal/shipments/application"
	"fieldtoyou/internal/shipments/domain"
	"fieldtoyou/internal/shipments/ports"
	"fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/middleware"
)

// HTTPHandler handles HTTP requests for shipments
type HTTPHandler struct {
	useCase *application.ShipmentUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ShipmentUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the shipment routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	shipments := r.Group("/shipments")
	{
		shipments.POST("", h.CreateShipment)
		shipments.GET("", h.ListShipments)
		shipments.GET("/:id", h.GetShipment)
		shipments.PATCH("/:id/status", h.AdvanceShipment)
	}
}

// CreateShipmentRequest is the request body for creating a shipment
type CreateShipmentRequest struct {
	OrderID           uuid.UUID  `json:"order_id" binding:"required"`
	CarrierName       string     `json:"carrier_name"`
	EstimatedDelivery *time.Time `json:"estimated_delivery_date"`
}

// ShipmentResponse is the response body for shipment operations
type ShipmentResponse struct {
	ID                    uuid.UUID  `json:"id"`
	OrderID               uuid.UUID  `json:"order_id"`
	Status                string     `json:"status"`
	CarrierName           string     `json:"carrier_name,omitempty"`
	TrackingNumber        string     `json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	ShippedAt             *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt           *time.Time `json:"delivered_at,omitempty"`
	CreatedAt             string     `json:"created_at"`
}

func toShipmentResponse(s *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                    s.ID,
		OrderID:               s.OrderID,
		Status:                string(s.Status),
		CarrierName:           s.CarrierName,
		TrackingNumber:        s.TrackingNumber,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		ShippedAt:             s.ShippedAt,
		DeliveredAt:           s.DeliveredAt,
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
	}
}

// CreateShipment handles POST /shipments
func (h *HTTPHandler) CreateShipment(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	shipment, err := h.useCase.CreateShipment(c.Request.Context(), application.CreateShipmentInput{
		OrderID:           req.OrderID,
		CarrierName:       req.CarrierName,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toShipmentResponse(shipment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListShipments handles GET /shipments
func (h *HTTPHandler) ListShipments(c *gin.Context) {
	filter := ports.ListFilter{}

	if v := c.Query("status"); v != "" {
		status, ok := domain.ParseStatus(v)
		if !ok {
			c.Error(errors.NewValidation("invalid status", nil))
			return
		}
		filter.Status = &status
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	// Tracking lookup short-circuits the listing
	if tracking := c.Query("tracking_number"); tracking != "" {
		shipment, err := h.useCase.GetShipmentByTracking(c.Request.Context(), tracking)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":     []ShipmentResponse{toShipmentResponse(shipment)},
			"total":    1,
			"trace_id": c.GetString(middleware.TraceIDKey),
		})
		return
	}

	if v := c.Query("order_id"); v != "" {
		orderID, err := uuid.Parse(v)
		if err != nil {
			c.Error(errors.NewValidation("invalid order_id", nil))
			return
		}
		shipment, err := h.useCase.GetShipmentByOrder(c.Request.Context(), orderID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":     []ShipmentResponse{toShipmentResponse(shipment)},
			"total":    1,
			"trace_id": c.GetString(middleware.TraceIDKey),
		})
		return
	}

	shipments, total, err := h.useCase.ListShipments(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]ShipmentResponse, len(shipments))
	for i, s := range shipments {
		items[i] = toShipmentResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     items,
		"total":    total,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetShipment handles GET /shipments/:id
func (h *HTTPHandler) GetShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid shipment id", nil))
		return
	}

	shipment, err := h.useCase.GetShipment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toShipmentResponse(shipment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AdvanceShipmentRequest is the request body for advancing a shipment
type AdvanceShipmentRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// AdvanceShipment handles PATCH /shipments/:id/status
func (h *HTTPHandler) AdvanceShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid shipment id", nil))
		return
	}

	var req AdvanceShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		c.Error(errors.NewValidation("invalid status", nil))
		return
	}

	shipment, err := h.useCase.AdvanceShipment(c.Request.Context(), id, status, req.TrackingNumber)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toShipmentResponse(shipment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
