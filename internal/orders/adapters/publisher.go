package adapters

import (
	"context"

	"fieldtoyou/internal/orders/domain"
	"fieldtoyou/pkg/events"
	"fieldtoyou/pkg/logger"
	"fieldtoyou/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishOrderCreated publishes an order created event
func (p *RabbitMQPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)
	event := events.NewOrderCreatedEvent(orderPayload(order), traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyOrderCreated, event)
}

// PublishOrderCancelled publishes an order cancelled event
func (p *RabbitMQPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)
	event := events.NewOrderCancelledEvent(orderPayload(order), traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyOrderCancelled, event)
}

func orderPayload(order *domain.Order) events.OrderEventPayload {
	return events.OrderEventPayload{
		ID:          order.ID.String(),
		CustomerID:  order.CustomerID.String(),
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.String(),
		Currency:    order.Currency,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
}
