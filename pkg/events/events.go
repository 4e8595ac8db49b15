package events

import "time"

// Exchange names
const (
	ExchangeCommerce = "commerce.events"
)

// Routing keys
const (
	RoutingKeyOrderCreated      = "order.created"
	RoutingKeyOrderCancelled    = "order.cancelled"
	RoutingKeyShipmentDelivered = "shipment.delivered"
)

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	Version   string            `json:"version"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	TraceID   string            `json:"trace_id"`
	Payload   OrderEventPayload `json:"payload"`
}

// OrderCancelledEvent is published when an order is cancelled and its
// stock restored
type OrderCancelledEvent struct {
	Version   string            `json:"version"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	TraceID   string            `json:"trace_id"`
	Payload   OrderEventPayload `json:"payload"`
}

// OrderEventPayload contains order data
type OrderEventPayload struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(payload OrderEventPayload, traceID string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		Version:   "1.0",
		EventType: "order.created",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(payload OrderEventPayload, traceID string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		Version:   "1.0",
		EventType: "order.cancelled",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}

// ShipmentDeliveredEvent is published when a shipment reaches DELIVERED
// and its order is fulfilled
type ShipmentDeliveredEvent struct {
	Version   string                   `json:"version"`
	EventType string                   `json:"event_type"`
	Timestamp time.Time                `json:"timestamp"`
	TraceID   string                   `json:"trace_id"`
	Payload   ShipmentDeliveredPayload `json:"payload"`
}

// ShipmentDeliveredPayload contains shipment data
type ShipmentDeliveredPayload struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	TrackingNumber string     `json:"tracking_number"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

// NewShipmentDeliveredEvent creates a new ShipmentDeliveredEvent
func NewShipmentDeliveredEvent(payload ShipmentDeliveredPayload, traceID string) *ShipmentDeliveredEvent {
	return &ShipmentDeliveredEvent{
		Version:   "1.0",
		EventType: "shipment.delivered",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}
