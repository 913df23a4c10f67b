package event

import (
	"github.com/tradelink/backend/internal/domain/catalog"
	"github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer
// so persisted or transported events can be deserialized by type name
func RegisterAllEvents(serializer *EventSerializer) {
	// Trade domain - purchase order lifecycle
	serializer.Register(trade.EventTypeOrderCreated, &trade.PurchaseOrderCreatedEvent{})
	serializer.Register(trade.EventTypeOrderReceived, &trade.PurchaseOrderReceivedEvent{})
	serializer.Register(trade.EventTypeOrderConfirmed, &trade.PurchaseOrderConfirmedEvent{})
	serializer.Register(trade.EventTypeOrderTransmitted, &trade.PurchaseOrderTransmittedEvent{})
	serializer.Register(trade.EventTypeOrderAcknowledged, &trade.PurchaseOrderAcknowledgedEvent{})
	serializer.Register(trade.EventTypeOrderCancelled, &trade.PurchaseOrderCancelledEvent{})

	// EDI domain - interchange lifecycle
	serializer.Register(edi.EventTypeInterchangeQueued, &edi.InterchangeQueuedEvent{})
	serializer.Register(edi.EventTypeInterchangeTransmitted, &edi.InterchangeTransmittedEvent{})
	serializer.Register(edi.EventTypeInterchangeReceived, &edi.InterchangeReceivedEvent{})
	serializer.Register(edi.EventTypeInterchangeAccepted, &edi.InterchangeAcceptedEvent{})
	serializer.Register(edi.EventTypeInterchangeRejected, &edi.InterchangeRejectedEvent{})

	// Catalog domain
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductIdentifiersChanged, &catalog.ProductIdentifiersChangedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})

	// Partner domain
	serializer.Register(partner.EventTypePartnerCreated, &partner.TradingPartnerCreatedEvent{})
	serializer.Register(partner.EventTypePartnerUpdated, &partner.TradingPartnerUpdatedEvent{})
	serializer.Register(partner.EventTypePartnerStatusChanged, &partner.TradingPartnerStatusChangedEvent{})
	serializer.Register(partner.EventTypePartnerPartyIDChanged, &partner.TradingPartnerPartyIDChangedEvent{})
	serializer.Register(partner.EventTypePartnerDeleted, &partner.TradingPartnerDeletedEvent{})
}
