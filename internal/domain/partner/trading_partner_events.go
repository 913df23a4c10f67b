package partner

import (
	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeTradingPartner = "TradingPartner"

// Event type constants
const (
	EventTypePartnerCreated        = "TradingPartnerCreated"
	EventTypePartnerUpdated        = "TradingPartnerUpdated"
	EventTypePartnerStatusChanged  = "TradingPartnerStatusChanged"
	EventTypePartnerPartyIDChanged = "TradingPartnerPartyIDChanged"
	EventTypePartnerDeleted        = "TradingPartnerDeleted"
)

// TradingPartnerCreatedEvent is published when a new partner is created
type TradingPartnerCreatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID            `json:"partner_id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	PartyID   string               `json:"party_id"`
	Currency  valueobject.Currency `json:"currency"`
}

// NewTradingPartnerCreatedEvent creates a new TradingPartnerCreatedEvent
func NewTradingPartnerCreatedEvent(partner *TradingPartner) *TradingPartnerCreatedEvent {
	return &TradingPartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerCreated, AggregateTypeTradingPartner, partner.ID),
		PartnerID:       partner.ID,
		Code:            partner.Code,
		Name:            partner.Name,
		PartyID:         partner.PartyID,
		Currency:        partner.Currency,
	}
}

// TradingPartnerUpdatedEvent is published when partner details change
type TradingPartnerUpdatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID            `json:"partner_id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Currency  valueobject.Currency `json:"currency"`
}

// NewTradingPartnerUpdatedEvent creates a new TradingPartnerUpdatedEvent
func NewTradingPartnerUpdatedEvent(partner *TradingPartner) *TradingPartnerUpdatedEvent {
	return &TradingPartnerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerUpdated, AggregateTypeTradingPartner, partner.ID),
		PartnerID:       partner.ID,
		Code:            partner.Code,
		Name:            partner.Name,
		Currency:        partner.Currency,
	}
}

// TradingPartnerStatusChangedEvent is published when a partner's status changes
type TradingPartnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID     `json:"partner_id"`
	Code      string        `json:"code"`
	OldStatus PartnerStatus `json:"old_status"`
	NewStatus PartnerStatus `json:"new_status"`
}

// NewTradingPartnerStatusChangedEvent creates a new TradingPartnerStatusChangedEvent
func NewTradingPartnerStatusChangedEvent(partner *TradingPartner, oldStatus, newStatus PartnerStatus) *TradingPartnerStatusChangedEvent {
	return &TradingPartnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerStatusChanged, AggregateTypeTradingPartner, partner.ID),
		PartnerID:       partner.ID,
		Code:            partner.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TradingPartnerPartyIDChangedEvent is published when the wire identifier changes
type TradingPartnerPartyIDChangedEvent struct {
	shared.BaseDomainEvent
	PartnerID  uuid.UUID `json:"partner_id"`
	Code       string    `json:"code"`
	OldPartyID string    `json:"old_party_id"`
	NewPartyID string    `json:"new_party_id"`
}

// NewTradingPartnerPartyIDChangedEvent creates a new TradingPartnerPartyIDChangedEvent
func NewTradingPartnerPartyIDChangedEvent(partner *TradingPartner, oldPartyID string) *TradingPartnerPartyIDChangedEvent {
	return &TradingPartnerPartyIDChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerPartyIDChanged, AggregateTypeTradingPartner, partner.ID),
		PartnerID:       partner.ID,
		Code:            partner.Code,
		OldPartyID:      oldPartyID,
		NewPartyID:      partner.PartyID,
	}
}

// TradingPartnerDeletedEvent is published when a partner is deleted
type TradingPartnerDeletedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Code      string    `json:"code"`
}

// NewTradingPartnerDeletedEvent creates a new TradingPartnerDeletedEvent
func NewTradingPartnerDeletedEvent(partner *TradingPartner) *TradingPartnerDeletedEvent {
	return &TradingPartnerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerDeleted, AggregateTypeTradingPartner, partner.ID),
		PartnerID:       partner.ID,
		Code:            partner.Code,
	}
}
