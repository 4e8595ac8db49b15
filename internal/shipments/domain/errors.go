package domain

import (
	"fmt"

	"github.com/google/uuid"

	"fieldtoyou/pkg/errors"
)

// Domain-specific errors
var (
	ErrTrackingRequired = errors.NewValidation("a tracking number is required to mark a shipment shipped", nil)
)

// NewShipmentNotFound creates a not found error with the shipment ID
func NewShipmentNotFound(id uuid.UUID) error {
	return errors.NewNotFound("shipment", id)
}

// NewInvalidTransition reports a disallowed shipment status transition
func NewInvalidTransition(shipmentID uuid.UUID, from, to Status) error {
	return errors.New(errors.CodeInvalidShipmentTransition,
		fmt.Sprintf("shipment status cannot change from %s to %s", from, to),
		map[string]interface{}{
			"shipment_id": shipmentID,
			"from":        string(from),
			"to":          string(to),
		})
}

// NewOrderNotFulfillable rejects creating a shipment for an order that
// has not reached a fulfillable status
func NewOrderNotFulfillable(orderID uuid.UUID, orderStatus string) error {
	return errors.NewConflict(
		fmt.Sprintf("order %s is %s; shipments are created once an order is PAID", orderID, orderStatus))
}

// NewShipmentExists rejects a second shipment for an order
func NewShipmentExists(orderID uuid.UUID) error {
	return errors.NewConflict(
		fmt.Sprintf("order %s already has a shipment", orderID))
}
