package edi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// InterchangeDirection tells whether the interchange left this system or
// arrived from a trading partner.
type InterchangeDirection string

const (
	InterchangeDirectionOutbound InterchangeDirection = "OUTBOUND"
	InterchangeDirectionInbound  InterchangeDirection = "INBOUND"
)

// InterchangeStatus represents the status of an interchange
type InterchangeStatus string

const (
	// Outbound lifecycle
	InterchangeStatusPending     InterchangeStatus = "PENDING"
	InterchangeStatusTransmitted InterchangeStatus = "TRANSMITTED"

	// Inbound lifecycle
	InterchangeStatusReceived InterchangeStatus = "RECEIVED"
	InterchangeStatusAccepted InterchangeStatus = "ACCEPTED"
	InterchangeStatusRejected InterchangeStatus = "REJECTED"
)

// IsValid checks if the status is a valid InterchangeStatus
func (s InterchangeStatus) IsValid() bool {
	switch s {
	case InterchangeStatusPending, InterchangeStatusTransmitted,
		InterchangeStatusReceived, InterchangeStatusAccepted, InterchangeStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of InterchangeStatus
func (s InterchangeStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InterchangeStatus) CanTransitionTo(target InterchangeStatus) bool {
	switch s {
	case InterchangeStatusPending:
		return target == InterchangeStatusTransmitted
	case InterchangeStatusReceived:
		return target == InterchangeStatusAccepted || target == InterchangeStatusRejected
	}
	return false
}

// Interchange is the envelope record of one exchanged message. The payload
// itself lives in the archive; the aggregate tracks identity, size and
// processing state.
type Interchange struct {
	shared.BaseAggregateRoot
	Direction InterchangeDirection `gorm:"type:varchar(10);not null;index"`
	// MessageRef is the message reference echoed between header and
	// trailer. Inbound duplicates are detected on it.
	MessageRef      string            `gorm:"type:varchar(35);not null;uniqueIndex"`
	OrderID         *uuid.UUID        `gorm:"type:uuid;index"`
	BuyerPartnerID  *uuid.UUID        `gorm:"type:uuid"`
	SellerPartnerID *uuid.UUID        `gorm:"type:uuid"`
	PayloadSize     int               `gorm:"not null"`
	SegmentCount    int               `gorm:"not null"`
	Status          InterchangeStatus `gorm:"type:varchar(20);not null;index"`
	// ArchiveKey locates the raw payload in the archive store
	ArchiveKey string `gorm:"type:varchar(255)"`
	// Diagnostics holds the findings that led to a rejection
	Diagnostics   []string `gorm:"type:jsonb;serializer:json"`
	TransmittedAt *time.Time
	ProcessedAt   *time.Time
}

// TableName returns the table name for GORM
func (Interchange) TableName() string {
	return "interchanges"
}

// NewOutboundInterchange records an encoded order awaiting transmission
func NewOutboundInterchange(orderID, buyerPartnerID, sellerPartnerID uuid.UUID, messageRef string, payloadSize, segmentCount int) (*Interchange, error) {
	if messageRef == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Message reference cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if payloadSize <= 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Payload size must be positive")
	}
	if segmentCount < 2 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "An interchange carries at least a header and a trailer")
	}

	interchange := &Interchange{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Direction:         InterchangeDirectionOutbound,
		MessageRef:        messageRef,
		OrderID:           &orderID,
		BuyerPartnerID:    &buyerPartnerID,
		SellerPartnerID:   &sellerPartnerID,
		PayloadSize:       payloadSize,
		SegmentCount:      segmentCount,
		Status:            InterchangeStatusPending,
	}

	interchange.AddDomainEvent(NewInterchangeQueuedEvent(interchange))

	return interchange, nil
}

// NewInboundInterchange records a message that arrived from a partner,
// before any decision about it has been made
func NewInboundInterchange(messageRef string, payloadSize, segmentCount int) (*Interchange, error) {
	if messageRef == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Message reference cannot be empty")
	}
	if payloadSize <= 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Payload size must be positive")
	}

	interchange := &Interchange{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Direction:         InterchangeDirectionInbound,
		MessageRef:        messageRef,
		PayloadSize:       payloadSize,
		SegmentCount:      segmentCount,
		Status:            InterchangeStatusReceived,
	}

	interchange.AddDomainEvent(NewInterchangeReceivedEvent(interchange))

	return interchange, nil
}

// MarkTransmitted records that the payload went out on the transport
func (i *Interchange) MarkTransmitted() error {
	if !i.Status.CanTransitionTo(InterchangeStatusTransmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transmit interchange in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InterchangeStatusTransmitted
	i.TransmittedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInterchangeTransmittedEvent(i))

	return nil
}

// Accept links the inbound interchange to the order it produced
func (i *Interchange) Accept(orderID, buyerPartnerID, sellerPartnerID uuid.UUID) error {
	if !i.Status.CanTransitionTo(InterchangeStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept interchange in %s status", i.Status))
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	now := time.Now()
	i.Status = InterchangeStatusAccepted
	i.OrderID = &orderID
	i.BuyerPartnerID = &buyerPartnerID
	i.SellerPartnerID = &sellerPartnerID
	i.ProcessedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInterchangeAcceptedEvent(i))

	return nil
}

// Reject records why the inbound interchange could not become an order
func (i *Interchange) Reject(diagnostics []string) error {
	if !i.Status.CanTransitionTo(InterchangeStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject interchange in %s status", i.Status))
	}
	if len(diagnostics) == 0 {
		return shared.NewDomainError("INVALID_DIAGNOSTICS", "Rejection requires at least one diagnostic")
	}

	now := time.Now()
	i.Status = InterchangeStatusRejected
	i.Diagnostics = diagnostics
	i.ProcessedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInterchangeRejectedEvent(i))

	return nil
}

// SetArchiveKey records where the raw payload was archived
func (i *Interchange) SetArchiveKey(key string) {
	i.ArchiveKey = key
	i.UpdatedAt = time.Now()
}

// IsPending returns true if the interchange awaits transmission
func (i *Interchange) IsPending() bool {
	return i.Status == InterchangeStatusPending
}

// IsTransmitted returns true if the interchange went out
func (i *Interchange) IsTransmitted() bool {
	return i.Status == InterchangeStatusTransmitted
}

// IsAccepted returns true if the inbound interchange produced an order
func (i *Interchange) IsAccepted() bool {
	return i.Status == InterchangeStatusAccepted
}

// IsRejected returns true if the inbound interchange was turned away
func (i *Interchange) IsRejected() bool {
	return i.Status == InterchangeStatusRejected
}

// IsInbound returns true for interchanges received from a partner
func (i *Interchange) IsInbound() bool {
	return i.Direction == InterchangeDirectionInbound
}
