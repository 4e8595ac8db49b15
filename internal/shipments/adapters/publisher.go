package adapters

import (
	"context"

	"fieldtoyou/internal/shipments/domain"
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

// PublishShipmentDelivered publishes a shipment delivered event
func (p *RabbitMQPublisher) PublishShipmentDelivered(ctx context.Context, shipment *domain.Shipment) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewShipmentDeliveredEvent(events.ShipmentDeliveredPayload{
		ID:             shipment.ID.String(),
		OrderID:        shipment.OrderID.String(),
		TrackingNumber: shipment.TrackingNumber,
		DeliveredAt:    shipment.DeliveredAt,
	}, traceID)

	return p.publisher.Publish(ctx, events.RoutingKeyShipmentDelivered, event)
}
