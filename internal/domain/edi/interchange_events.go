package edi

import (
	"github.com/tradelink/backend/internal/domain/shared"
)

// AggregateTypeInterchange is the aggregate type identifier for interchange events
const AggregateTypeInterchange = "Interchange"

// Event type constants double as transport subjects, so they use the
// dotted lower-case form.
const (
	EventTypeInterchangeQueued      = "edi.interchange.queued"
	EventTypeInterchangeTransmitted = "edi.interchange.transmitted"
	EventTypeInterchangeReceived    = "edi.interchange.received"
	EventTypeInterchangeAccepted    = "edi.interchange.accepted"
	EventTypeInterchangeRejected    = "edi.interchange.rejected"
)

// InterchangeQueuedEvent is raised when an encoded order starts waiting for dispatch
type InterchangeQueuedEvent struct {
	shared.BaseDomainEvent
	MessageRef  string `json:"message_ref"`
	PayloadSize int    `json:"payload_size"`
}

// NewInterchangeQueuedEvent creates a new InterchangeQueuedEvent
func NewInterchangeQueuedEvent(interchange *Interchange) *InterchangeQueuedEvent {
	return &InterchangeQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterchangeQueued, AggregateTypeInterchange, interchange.ID),
		MessageRef:      interchange.MessageRef,
		PayloadSize:     interchange.PayloadSize,
	}
}

// EventType returns the event type
func (e *InterchangeQueuedEvent) EventType() string {
	return EventTypeInterchangeQueued
}

// InterchangeTransmittedEvent is raised when the payload goes out on the transport
type InterchangeTransmittedEvent struct {
	shared.BaseDomainEvent
	MessageRef string `json:"message_ref"`
}

// NewInterchangeTransmittedEvent creates a new InterchangeTransmittedEvent
func NewInterchangeTransmittedEvent(interchange *Interchange) *InterchangeTransmittedEvent {
	return &InterchangeTransmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterchangeTransmitted, AggregateTypeInterchange, interchange.ID),
		MessageRef:      interchange.MessageRef,
	}
}

// EventType returns the event type
func (e *InterchangeTransmittedEvent) EventType() string {
	return EventTypeInterchangeTransmitted
}

// InterchangeReceivedEvent is raised when a message arrives from a partner
type InterchangeReceivedEvent struct {
	shared.BaseDomainEvent
	MessageRef  string `json:"message_ref"`
	PayloadSize int    `json:"payload_size"`
}

// NewInterchangeReceivedEvent creates a new InterchangeReceivedEvent
func NewInterchangeReceivedEvent(interchange *Interchange) *InterchangeReceivedEvent {
	return &InterchangeReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterchangeReceived, AggregateTypeInterchange, interchange.ID),
		MessageRef:      interchange.MessageRef,
		PayloadSize:     interchange.PayloadSize,
	}
}

// EventType returns the event type
func (e *InterchangeReceivedEvent) EventType() string {
	return EventTypeInterchangeReceived
}

// InterchangeAcceptedEvent is raised when an inbound message becomes an order
type InterchangeAcceptedEvent struct {
	shared.BaseDomainEvent
	MessageRef string `json:"message_ref"`
	OrderID    string `json:"order_id"`
}

// NewInterchangeAcceptedEvent creates a new InterchangeAcceptedEvent
func NewInterchangeAcceptedEvent(interchange *Interchange) *InterchangeAcceptedEvent {
	orderID := ""
	if interchange.OrderID != nil {
		orderID = interchange.OrderID.String()
	}
	return &InterchangeAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterchangeAccepted, AggregateTypeInterchange, interchange.ID),
		MessageRef:      interchange.MessageRef,
		OrderID:         orderID,
	}
}

// EventType returns the event type
func (e *InterchangeAcceptedEvent) EventType() string {
	return EventTypeInterchangeAccepted
}

// InterchangeRejectedEvent is raised when an inbound message is turned away
type InterchangeRejectedEvent struct {
	shared.BaseDomainEvent
	MessageRef  string   `json:"message_ref"`
	Diagnostics []string `json:"diagnostics"`
}

// NewInterchangeRejectedEvent creates a new InterchangeRejectedEvent
func NewInterchangeRejectedEvent(interchange *Interchange) *InterchangeRejectedEvent {
	return &InterchangeRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInterchangeRejected, AggregateTypeInterchange, interchange.ID),
		MessageRef:      interchange.MessageRef,
		Diagnostics:     interchange.Diagnostics,
	}
}

// EventType returns the event type
func (e *InterchangeRejectedEvent) EventType() string {
	return EventTypeInterchangeRejected
}
