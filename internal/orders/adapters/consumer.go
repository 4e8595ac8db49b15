package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "fieldtoyou/pkg/errors"
	"fieldtoyou/pkg/events"
	"fieldtoyou/pkg/logger"
	"fieldtoyou/pkg/rabbitmq"
)

// DeliveryNoter records a confirmed delivery against an order
type DeliveryNoter interface {
	NoteDelivered(ctx context.Context, orderID uuid.UUID, trackingNumber string, deliveredAt *time.Time) error
}

// ShipmentDeliveredConsumer consumes shipment delivered events and stamps
// the delivery confirmation on the order record
type ShipmentDeliveredConsumer struct {
	consumer *rabbitmq.Consumer
	noter    DeliveryNoter
	log      *logger.Logger
}

// NewShipmentDeliveredConsumer creates a new shipment delivered consumer
func NewShipmentDeliveredConsumer(conn *rabbitmq.Connection, noter DeliveryNoter, log *logger.Logger) (*ShipmentDeliveredConsumer, error) {
	consumer, err := rabbitmq.NewConsumer(
		conn,
		"orders.shipment-delivered",
		events.ExchangeCommerce,
		[]string{events.RoutingKeyShipmentDelivered},
		log,
	)
	if err != nil {
		return nil, err
	}

	return &ShipmentDeliveredConsumer{
		consumer: consumer,
		noter:    noter,
		log:      log,
	}, nil
}

// Start starts consuming messages
func (c *ShipmentDeliveredConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

func (c *ShipmentDeliveredConsumer) handleMessage(ctx context.Context, body []byte) error {
	var event events.ShipmentDeliveredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.WithContext(ctx).Error("failed to unmarshal shipment delivered event",
			zap.Error(err),
		)
		return err
	}

	orderID, err := uuid.Parse(event.Payload.OrderID)
	if err != nil {
		c.log.WithContext(ctx).Error("shipment delivered event has an invalid order id",
			zap.String("order_id", event.Payload.OrderID),
			zap.Error(err),
		)
		return err
	}

	if err := c.noter.NoteDelivered(ctx, orderID, event.Payload.TrackingNumber, event.Payload.DeliveredAt); err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			// Requeueing cannot make an unknown order appear
			c.log.WithContext(ctx).Warn("delivered shipment references an unknown order",
				zap.String("order_id", event.Payload.OrderID),
			)
			return nil
		}
		return err
	}

	c.log.WithContext(ctx).Info("delivery recorded on order",
		zap.String("order_id", event.Payload.OrderID),
		zap.String("shipment_id", event.Payload.ID),
		zap.String("tracking_number", event.Payload.TrackingNumber),
	)
	return nil
}
