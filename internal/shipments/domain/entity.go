package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the physical fulfillment state of a shipment
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPacked    Status = "PACKED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Transitions is the allow-list of shipment status transitions.
// CANCELLED is reachable only before the carrier has the parcel; a
// SHIPPED shipment is tracked to delivery.
var Transitions = map[Status][]Status{
	StatusPending:   {StatusPacked, StatusCancelled},
	StatusPacked:    {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether next is a permitted transition from s
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range Transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus validates a shipment status string from the API
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPacked, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Address is an optional delivery address override
type Address struct {
	Name       string
	Phone      string
	Address1   string
	Address2   string
	City       string
	PostalCode string
	Country    string
}

// Shipment is the fulfillment companion of an order, 1:1 and
// lifecycle-bound to it but progressing on its own timeline
type Shipment struct {
	ID                    uuid.UUID
	OrderID               uuid.UUID
	Status                Status
	CarrierName           string
	TrackingNumber        string
	EstimatedDeliveryDate *time.Time
	ShippedAt             *time.Time
	DeliveredAt           *time.Time
	Address               Address
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewShipment creates a PENDING shipment for an order
func NewShipment(orderID uuid.UUID, carrierName string, estimatedDelivery *time.Time, address Address) *Shipment {
	return &Shipment{
		OrderID:               orderID,
		Status:                StatusPending,
		CarrierName:           carrierName,
		EstimatedDeliveryDate: estimatedDelivery,
		Address:               address,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
}

// Advance moves the shipment to next, enforcing the transition table and
// the per-transition rules: SHIPPED requires a tracking number and stamps
// shipped_at, DELIVERED stamps delivered_at.
func (s *Shipment) Advance(next Status, trackingNumber string, now time.Time) error {
	if !s.Status.CanTransitionTo(next) {
		return NewInvalidTransition(s.ID, s.Status, next)
	}

	switch next {
	case StatusShipped:
		if strings.TrimSpace(trackingNumber) == "" && strings.TrimSpace(s.TrackingNumber) == "" {
			return ErrTrackingRequired
		}
		if trackingNumber != "" {
			s.TrackingNumber = trackingNumber
		}
		shipped := now
		s.ShippedAt = &shipped
	case StatusDelivered:
		delivered := now
		s.DeliveredAt = &delivered
	}

	s.Status = next
	s.UpdatedAt = now
	return nil
}
