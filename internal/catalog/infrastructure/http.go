package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldtoyou/internal/catalog/application"
	"fieldtoyou/internal/catalog/domain"
	"fieldtoyou/internal/catalog/ports"
	"fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the catalog
type HTTPHandler struct {
	useCase *application.ProductUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ProductUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the catalog routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.POST("/:id/stock", h.AdjustStock)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	CategoryID       uuid.UUID        `json:"category_id" binding:"required"`
	UnitLabelID      uuid.UUID        `json:"unit_label_id" binding:"required"`
	Name             string           `json:"name" binding:"required"`
	Description      string           `json:"description"`
	UnitSize         decimal.Decimal  `json:"unit_size"`
	PricePerUnit     decimal.Decimal  `json:"price_per_unit" binding:"required"`
	Currency         string           `json:"currency"`
	StockQuantity    decimal.Decimal  `json:"stock_quantity"`
	MinOrderQuantity decimal.Decimal  `json:"min_order_quantity"`
	MaxOrderQuantity *decimal.Decimal `json:"max_order_quantity"`
	IsOrganic        bool             `json:"is_organic"`
	AvailableFrom    *time.Time       `json:"available_from"`
	AvailableUntil   *time.Time       `json:"available_until"`
	ImageURL         string           `json:"image_url"`
}

// UpdateProductRequest is the request body for updating a product. Absent
// fields are left unchanged.
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	PricePerUnit     *decimal.Decimal `json:"price_per_unit"`
	MinOrderQuantity *decimal.Decimal `json:"min_order_quantity"`
	MaxOrderQuantity *decimal.Decimal `json:"max_order_quantity"`
	IsActive         *bool            `json:"is_active"`
	IsOrganic        *bool            `json:"is_organic"`
	AvailableFrom    *time.Time       `json:"available_from"`
	AvailableUntil   *time.Time       `json:"available_until"`
	ImageURL         *string          `json:"image_url"`
}

// AdjustStockRequest is the request body for a manual stock adjustment
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID               uuid.UUID        `json:"id"`
	CategoryID       uuid.UUID        `json:"category_id"`
	UnitLabelID      uuid.UUID        `json:"unit_label_id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	UnitSize         decimal.Decimal  `json:"unit_size"`
	PricePerUnit     decimal.Decimal  `json:"price_per_unit"`
	Currency         string           `json:"currency"`
	StockQuantity    decimal.Decimal  `json:"stock_quantity"`
	MinOrderQuantity decimal.Decimal  `json:"min_order_quantity"`
	MaxOrderQuantity *decimal.Decimal `json:"max_order_quantity,omitempty"`
	IsActive         bool             `json:"is_active"`
	IsOrganic        bool             `json:"is_organic"`
	AvailableFrom    *time.Time       `json:"available_from,omitempty"`
	AvailableUntil   *time.Time       `json:"available_until,omitempty"`
	ImageURL         string           `json:"image_url,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		CategoryID:       p.CategoryID,
		UnitLabelID:      p.UnitLabelID,
		Name:             p.Name,
		Description:      p.Description,
		UnitSize:         p.UnitSize,
		PricePerUnit:     p.PricePerUnit,
		Currency:         p.Currency,
		StockQuantity:    p.StockQuantity,
		MinOrderQuantity: p.MinOrderQuantity,
		MaxOrderQuantity: p.MaxOrderQuantity,
		IsActive:         p.IsActive,
		IsOrganic:        p.IsOrganic,
		AvailableFrom:    p.AvailableFrom,
		AvailableUntil:   p.AvailableUntil,
		ImageURL:         p.ImageURL,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), application.CreateProductInput{
		CategoryID:       req.CategoryID,
		UnitLabelID:      req.UnitLabelID,
		Name:             req.Name,
		Description:      req.Description,
		UnitSize:         req.UnitSize,
		PricePerUnit:     req.PricePerUnit,
		Currency:         req.Currency,
		StockQuantity:    req.StockQuantity,
		MinOrderQuantity: req.MinOrderQuantity,
		MaxOrderQuantity: req.MaxOrderQuantity,
		IsOrganic:        req.IsOrganic,
		AvailableFrom:    req.AvailableFrom,
		AvailableUntil:   req.AvailableUntil,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toProductResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListProducts handles GET /products
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	filter := ports.ListFilter{}

	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.Error(errors.NewValidation("invalid category_id", nil))
			return
		}
		filter.CategoryID = &id
	}
	filter.ActiveOnly = c.Query("active") == "true"
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	products, total, err := h.useCase.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = toProductResponse(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     items,
		"total":    total,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toProductResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateProduct handles PATCH /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), id, application.UpdateProductInput{
		Name:             req.Name,
		Description:      req.Description,
		PricePerUnit:     req.PricePerUnit,
		MinOrderQuantity: req.MinOrderQuantity,
		MaxOrderQuantity: req.MaxOrderQuantity,
		IsActive:         req.IsActive,
		IsOrganic:        req.IsOrganic,
		AvailableFrom:    req.AvailableFrom,
		AvailableUntil:   req.AvailableUntil,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toProductResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AdjustStock handles POST /products/:id/stock
func (h *HTTPHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toProductResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
