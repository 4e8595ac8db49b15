package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORM models for the shop schema. Table and column names, and the four
// status enum value sets, are the contract between this service and the
// database; status comparisons are exact-match strings.

// CategoryModel is the product category table
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null;uniqueIndex"`
	Description string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (CategoryModel) TableName() string { return "category" }

func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UnitLabelModel is the unit label table (kg, bunch, crate, ...)
type UnitLabelModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null;uniqueIndex"`
	Abbreviation string
	Description  string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UnitLabelModel) TableName() string { return "unit_label" }

func (m *UnitLabelModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// FarmerModel is the farmer table. The schema allows many rows but the
// business logic serves exactly one farm, designated by configuration.
type FarmerModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	FarmName     string    `gorm:"not null"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string    `gorm:"default:'Israel'"`
	IsActive     bool      `gorm:"not null;default:true"`
	Description  string
	FarmType     string
	Website      string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (FarmerModel) TableName() string { return "farmer" }

func (m *FarmerModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CustomerModel is the customer table
type CustomerModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName      string    `gorm:"not null"`
	LastName       string    `gorm:"not null"`
	Email          string    `gorm:"not null;uniqueIndex"`
	PasswordHash   string    `gorm:"not null"`
	Phone          string
	AddressLine1   string
	AddressLine2   string
	City           string
	PostalCode     string
	Country        string    `gorm:"default:'Israel'"`
	MarketingOptIn bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (CustomerModel) TableName() string { return "customer" }

func (m *CustomerModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProductModel is the product table. StockQuantity is never written
// unconditionally; see stock.go.
type ProductModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FarmerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	CategoryID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	UnitLabelID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name             string          `gorm:"not null"`
	Description      string
	UnitSize         decimal.Decimal `gorm:"type:numeric(10,2)"`
	PricePerUnit     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency         string          `gorm:"size:3;not null;default:'ILS'"`
	StockQuantity    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MinOrderQuantity decimal.Decimal `gorm:"type:numeric(12,2);not null;default:1"`
	MaxOrderQuantity decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	IsActive         bool            `gorm:"index;not null;default:true"`
	IsOrganic        bool            `gorm:"not null;default:false"`
	AvailableFrom    *time.Time      `gorm:"type:date"`
	AvailableUntil   *time.Time      `gorm:"type:date"`
	ImageURL         string
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

func (ProductModel) TableName() string { return "product" }

func (m *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OrderModel is the orders table
type OrderModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	FarmerID   uuid.UUID `gorm:"type:uuid;index;not null"`

	Status           string `gorm:"size:20;index;not null;default:'DRAFT'"`
	PaymentStatus    string `gorm:"size:20;not null;default:'PENDING'"`
	PaymentProvider  string
	PaymentReference string

	SubtotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Currency       string          `gorm:"size:3;not null;default:'ILS'"`

	// Shipping address snapshot
	ShippingName       string
	ShippingPhone      string
	ShippingAddress1   string
	ShippingAddress2   string
	ShippingCity       string
	ShippingPostalCode string
	ShippingCountry    string `gorm:"default:'Israel'"`

	CustomerNotes string
	InternalNotes string

	CreatedAt time.Time `gorm:"index;autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Items    []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment *ShipmentModel   `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string { return "orders" }

func (m *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OrderItemModel is the order_item table. Rows are immutable once the
// order leaves DRAFT; corrections happen via cancellation.
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	LineSubtotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineDiscount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	LineTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (OrderItemModel) TableName() string { return "order_item" }

func (m *OrderItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ShipmentModel is the shipment table; order_id is unique so an order can
// have at most one shipment.
type ShipmentModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Status                string    `gorm:"size:20;index;not null;default:'PENDING'"`
	CarrierName           string
	TrackingNumber        string     `gorm:"index"`
	EstimatedDeliveryDate *time.Time `gorm:"type:date"`
	ShippedAt             *time.Time
	DeliveredAt           *time.Time

	// Optional address override
	ShippingName       string
	ShippingPhone      string
	ShippingAddress1   string
	ShippingAddress2   string
	ShippingCity       string
	ShippingPostalCode string
	ShippingCountry    string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ShipmentModel) TableName() string { return "shipment" }

func (m *ShipmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CartModel is the cart table. SessionID supports anonymous carts.
type CartModel struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	SessionID  string        `gorm:"index;not null"`
	CustomerID uuid.NullUUID `gorm:"type:uuid;index"`
	Status     string        `gorm:"size:20;index;not null;default:'ACTIVE'"`
	CreatedAt  time.Time     `gorm:"autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime"`

	Items []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (CartModel) TableName() string { return "cart" }

func (m *CartModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CartItemModel is the cart_item table. UnitPrice is the price at the
// time the item was added; checkout snapshots the live price instead.
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (CartItemModel) TableName() string { return "cart_item" }

func (m *CartItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Migrate runs auto-migration for the full schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CategoryModel{},
		&UnitLabelModel{},
		&FarmerModel{},
		&CustomerModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ShipmentModel{},
		&CartModel{},
		&CartItemModel{},
	)
}
