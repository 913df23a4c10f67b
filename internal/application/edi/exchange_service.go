package edi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/catalog"
	"github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/edifact"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/trade"
	"github.com/tradelink/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// inboundDedupPrefix namespaces message references in the idempotency
	// store so other consumers of the store cannot collide with them.
	inboundDedupPrefix = "edi:inbound:"

	defaultDispatchWorkers = 4
	defaultDispatchLimit   = 50
)

// ComplianceError reports why an order cannot go out on the wire. Every
// finding names the order field or catalog product that blocks encoding.
type ComplianceError struct {
	Findings []string
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("order failed %d compliance check(s): %s", len(e.Findings), strings.Join(e.Findings, "; "))
}

// RejectionError reports that an inbound message was recorded and turned
// away. The diagnostics match what was stored on the interchange.
type RejectionError struct {
	MessageRef  string
	Diagnostics []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("inbound message %s rejected: %s", e.MessageRef, strings.Join(e.Diagnostics, "; "))
}

// ExchangeService orchestrates the exchange of ORDERS messages: encoding
// confirmed purchase orders for transmission, turning inbound messages into
// purchase orders, and re-dispatching interchanges the transport refused.
type ExchangeService struct {
	orderRepo       trade.PurchaseOrderRepository
	partnerRepo     partner.TradingPartnerRepository
	productRepo     catalog.ProductRepository
	interchangeRepo edi.InterchangeRepository
	publisher       edi.InterchangePublisher
	archive         edi.InterchangeArchive
	idempotency     shared.IdempotencyStore
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	encoder         *edifact.Encoder
	decoder         *edifact.Decoder
	validator       *edifact.Validator
	dedupTTL        time.Duration
	dispatchWorkers int
	logger          *zap.Logger
}

// ExchangeServiceConfig holds the collaborators and tuning knobs for the
// exchange service
type ExchangeServiceConfig struct {
	OrderRepo       trade.PurchaseOrderRepository
	PartnerRepo     partner.TradingPartnerRepository
	ProductRepo     catalog.ProductRepository
	InterchangeRepo edi.InterchangeRepository
	Publisher       edi.InterchangePublisher
	Archive         edi.InterchangeArchive
	Idempotency     shared.IdempotencyStore
	EventPublisher  shared.EventPublisher
	BusinessMetrics *telemetry.BusinessMetrics

	// MaxMessageSize caps raw inbound payloads; zero keeps the codec default
	MaxMessageSize int
	// DedupTTL is how long inbound message references are remembered;
	// zero applies the default retention window
	DedupTTL time.Duration
	// DispatchWorkers bounds concurrent transmissions in DispatchPending
	DispatchWorkers int
	Logger          *zap.Logger
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(config ExchangeServiceConfig) *ExchangeService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dedupTTL := config.DedupTTL
	if dedupTTL <= 0 {
		dedupTTL = shared.DefaultIdempotencyConfig().TTL
	}

	workers := config.DispatchWorkers
	if workers <= 0 {
		workers = defaultDispatchWorkers
	}

	var codecOpts []edifact.Option
	if config.MaxMessageSize > 0 {
		codecOpts = append(codecOpts, edifact.WithMaxMessageSize(config.MaxMessageSize))
	}

	return &ExchangeService{
		orderRepo:       config.OrderRepo,
		partnerRepo:     config.PartnerRepo,
		productRepo:     config.ProductRepo,
		interchangeRepo: config.InterchangeRepo,
		publisher:       config.Publisher,
		archive:         config.Archive,
		idempotency:     config.Idempotency,
		eventPublisher:  config.EventPublisher,
		businessMetrics: config.BusinessMetrics,
		encoder:         edifact.NewEncoder(codecOpts...),
		decoder:         edifact.NewDecoder(codecOpts...),
		validator:       edifact.NewValidator(codecOpts...),
		dedupTTL:        dedupTTL,
		dispatchWorkers: workers,
		logger:          logger,
	}
}

// EncodeOrder encodes a confirmed purchase order, archives the payload,
// queues an interchange, and attempts immediate transmission. When the
// transport refuses the payload the interchange stays pending and the
// order is still marked transmitted; DispatchPending retries the payload.
func (s *ExchangeService) EncodeOrder(ctx context.Context, orderID uuid.UUID) (*EncodeOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "encode_order",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !order.IsConfirmed() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot encode order in %s status", order.Status))
	}

	buyer, err := s.partnerRepo.FindByID(ctx, order.BuyerPartnerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.partnerRepo.FindByID(ctx, order.SellerPartnerID)
	if err != nil {
		return nil, err
	}

	findings := s.collectComplianceFindings(ctx, order, buyer, seller)
	if len(findings) > 0 {
		return nil, &ComplianceError{Findings: findings}
	}

	message, err := s.encoder.Encode(order.AsDocument(buyer.PartyID, seller.PartyID))
	if err != nil {
		return nil, err
	}

	payload := message.String()
	messageRef := message.Reference()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMessageRef, messageRef,
		telemetry.SpanAttrPayloadSize, len(payload),
		telemetry.SpanAttrSegmentCount, message.SegmentCount())

	interchange, err := edi.NewOutboundInterchange(
		order.ID,
		order.BuyerPartnerID,
		order.SellerPartnerID,
		messageRef,
		len(payload),
		message.SegmentCount(),
	)
	if err != nil {
		return nil, err
	}

	// The archive copy is the only durable home of the payload until it is
	// transmitted; losing it would strand the interchange.
	archiveKey, err := s.archive.Store(ctx, interchange, payload)
	if err != nil {
		err = fmt.Errorf("archive payload: %w", err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	interchange.SetArchiveKey(archiveKey)

	if err := s.interchangeRepo.Save(ctx, interchange); err != nil {
		return nil, err
	}

	transmitted := false
	if err := s.publisher.Publish(ctx, interchange, payload); err != nil {
		telemetry.AddEvent(span, "interchange.publish_refused",
			telemetry.SpanAttrMessageRef, messageRef)
		s.logger.Warn("Transport refused payload, interchange stays queued",
			zap.String("message_ref", messageRef),
			zap.Error(err))
	} else {
		if err := interchange.MarkTransmitted(); err != nil {
			return nil, err
		}
		if err := s.interchangeRepo.Save(ctx, interchange); err != nil {
			return nil, err
		}
		transmitted = true
	}

	if err := order.MarkTransmitted(messageRef); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordMessageEncoded(ctx, len(payload))
	}
	s.publishEvents(ctx, order, interchange)

	s.logger.Info("Order encoded",
		zap.String("order_number", order.OrderNumber),
		zap.String("message_ref", messageRef),
		zap.Int("payload_size", len(payload)),
		zap.Bool("transmitted", transmitted))

	return &EncodeOrderResponse{
		OrderID:       order.ID,
		InterchangeID: interchange.ID,
		MessageRef:    messageRef,
		Payload:       payload,
		PayloadSize:   len(payload),
		SegmentCount:  message.SegmentCount(),
		Transmitted:   transmitted,
	}, nil
}

// collectComplianceFindings gathers everything that blocks the order from
// the wire: partners that cannot trade and catalog products that fail the
// transmission checks. Order lines reference products by SKU.
func (s *ExchangeService) collectComplianceFindings(ctx context.Context, order *trade.PurchaseOrder, buyer, seller *partner.TradingPartner) []string {
	var findings []string

	if !buyer.CanTrade() {
		findings = append(findings, fmt.Sprintf("buyer partner %s cannot trade (%s)", buyer.Code, buyer.Status))
	}
	if !seller.CanTrade() {
		findings = append(findings, fmt.Sprintf("seller partner %s cannot trade (%s)", seller.Code, seller.Status))
	}

	skus := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		skus = append(skus, strings.ToUpper(item.ProductCode))
	}

	products, err := s.productRepo.FindBySKUs(ctx, skus)
	if err != nil {
		findings = append(findings, fmt.Sprintf("catalog lookup failed: %v", err))
		return findings
	}

	bySKU := make(map[string]*catalog.Product, len(products))
	for i := range products {
		bySKU[products[i].SKU] = &products[i]
	}

	for _, item := range order.Items {
		product, ok := bySKU[strings.ToUpper(item.ProductCode)]
		if !ok {
			findings = append(findings, fmt.Sprintf("line %d: product %s is not in the catalog", item.LineNumber, item.ProductCode))
			continue
		}
		for _, f := range product.EDICompliance() {
			findings = append(findings, fmt.Sprintf("%s: %s", product.SKU, f.String()))
		}
	}

	return findings
}

// ProcessInbound decodes a raw inbound message and records it. An accepted
// message becomes a confirmed purchase order; a message that decodes but
// cannot be accepted is recorded as a rejected interchange carrying
// diagnostics. Each message reference is processed at most once within the
// retention window, whatever the outcome.
func (s *ExchangeService) ProcessInbound(ctx context.Context, payload string) (*ProcessInboundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "process_inbound",
		telemetry.WithAttribute(telemetry.SpanAttrPayloadSize, len(payload)))
	defer span.End()

	document, decodeErr := s.decoder.Decode(payload)
	if decodeErr != nil {
		telemetry.RecordError(span, decodeErr)
		var oversized *edifact.OversizedInputError
		if errors.As(decodeErr, &oversized) {
			// Nothing of this size gets parsed for a reference
			return nil, decodeErr
		}
		return nil, s.recordUndecodable(ctx, payload, decodeErr)
	}

	// The decoder ran the full structural check, so the envelope parses.
	message, err := edifact.ParseMessage(payload)
	if err != nil {
		return nil, err
	}
	messageRef := message.Reference()
	telemetry.SetAttributes(span, telemetry.SpanAttrMessageRef, messageRef)

	newlyMarked, err := s.idempotency.MarkProcessed(ctx, inboundDedupPrefix+messageRef, s.dedupTTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}
	if !newlyMarked {
		if s.businessMetrics != nil {
			s.businessMetrics.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeDuplicate, len(payload))
		}
		s.logger.Info("Duplicate inbound message",
			zap.String("message_ref", messageRef))
		return nil, shared.ErrDuplicateMessage
	}

	diagnostics := s.resolveInboundDiagnostics(ctx, document)
	if len(diagnostics) > 0 {
		return nil, s.rejectInbound(ctx, messageRef, payload, message.SegmentCount(), diagnostics)
	}

	buyer, err := s.partnerRepo.FindByPartyID(ctx, document.BuyerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.partnerRepo.FindByPartyID(ctx, document.SellerID)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewReceivedPurchaseOrder(
		document.Number,
		buyer.ID,
		seller.ID,
		document.OrderDate,
		messageRef,
		s.linkCatalogProducts(ctx, document.Items),
	)
	if err != nil {
		// The document decoded but its values cannot form an order
		return nil, s.rejectInbound(ctx, messageRef, payload, message.SegmentCount(), []string{err.Error()})
	}

	interchange, err := edi.NewInboundInterchange(messageRef, len(payload), message.SegmentCount())
	if err != nil {
		return nil, err
	}
	if err := interchange.Accept(order.ID, buyer.ID, seller.ID); err != nil {
		return nil, err
	}
	s.archiveInbound(ctx, interchange, payload)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.interchangeRepo.Save(ctx, interchange); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeAccepted, len(payload))
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.DirectionInbound, order.TotalAmount)
	}
	s.publishEvents(ctx, order, interchange)

	s.logger.Info("Inbound message accepted",
		zap.String("message_ref", messageRef),
		zap.String("order_number", order.OrderNumber),
		zap.Int("line_count", len(order.Items)))

	return &ProcessInboundResponse{
		InterchangeID: interchange.ID,
		MessageRef:    messageRef,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PayloadSize:   len(payload),
		SegmentCount:  message.SegmentCount(),
		LineCount:     len(order.Items),
	}, nil
}

// recordUndecodable records a rejected interchange for a message whose
// envelope is intact but whose content failed decoding. When even the
// envelope is broken there is no reference to record under, and the decode
// error goes back alone.
func (s *ExchangeService) recordUndecodable(ctx context.Context, payload string, decodeErr error) error {
	message, parseErr := edifact.ParseMessage(payload)
	if parseErr != nil {
		if s.businessMetrics != nil {
			s.businessMetrics.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeRejected, len(payload))
		}
		return decodeErr
	}
	messageRef := message.Reference()

	newlyMarked, err := s.idempotency.MarkProcessed(ctx, inboundDedupPrefix+messageRef, s.dedupTTL)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !newlyMarked {
		return shared.ErrDuplicateMessage
	}

	var diagnostics []string
	var structural *edifact.StructuralViolationError
	if errors.As(decodeErr, &structural) {
		diagnostics = structural.Violations.Flatten()
	} else {
		diagnostics = []string{decodeErr.Error()}
	}

	if err := s.recordRejectedInterchange(ctx, messageRef, payload, message.SegmentCount(), diagnostics); err != nil {
		return err
	}

	return decodeErr
}

// rejectInbound records the rejection and returns the error the caller
// reports upstream.
func (s *ExchangeService) rejectInbound(ctx context.Context, messageRef, payload string, segmentCount int, diagnostics []string) error {
	if err := s.recordRejectedInterchange(ctx, messageRef, payload, segmentCount, diagnostics); err != nil {
		return err
	}
	return &RejectionError{MessageRef: messageRef, Diagnostics: diagnostics}
}

func (s *ExchangeService) recordRejectedInterchange(ctx context.Context, messageRef, payload string, segmentCount int, diagnostics []string) error {
	interchange, err := edi.NewInboundInterchange(messageRef, len(payload), segmentCount)
	if err != nil {
		return err
	}
	if err := interchange.Reject(diagnostics); err != nil {
		return err
	}
	s.archiveInbound(ctx, interchange, payload)

	if err := s.interchangeRepo.Save(ctx, interchange); err != nil {
		return err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeRejected, len(payload))
	}
	s.publishEvents(ctx, interchange)

	s.logger.Warn("Inbound message rejected",
		zap.String("message_ref", messageRef),
		zap.Strings("diagnostics", diagnostics))

	return nil
}

// archiveInbound archives an inbound payload. The caller still holds the
// original payload, so a failed archive write degrades the audit trail
// without blocking the exchange.
func (s *ExchangeService) archiveInbound(ctx context.Context, interchange *edi.Interchange, payload string) {
	key, err := s.archive.Store(ctx, interchange, payload)
	if err != nil {
		s.logger.Warn("Failed to archive inbound payload",
			zap.String("message_ref", interchange.MessageRef),
			zap.Error(err))
		return
	}
	interchange.SetArchiveKey(key)
}

// resolveInboundDiagnostics checks that a decoded document can be accepted:
// both parties must resolve to registered, tradeable partners and the
// document number must not collide with an order already on file.
func (s *ExchangeService) resolveInboundDiagnostics(ctx context.Context, document *edifact.Order) []string {
	var diagnostics []string

	buyer, err := s.partnerRepo.FindByPartyID(ctx, document.BuyerID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		diagnostics = append(diagnostics, fmt.Sprintf("buyer party %s is not a registered trading partner", document.BuyerID))
	case err != nil:
		diagnostics = append(diagnostics, fmt.Sprintf("buyer party lookup failed: %v", err))
	case !buyer.CanTrade():
		diagnostics = append(diagnostics, fmt.Sprintf("buyer partner %s cannot trade (%s)", buyer.Code, buyer.Status))
	}

	seller, err := s.partnerRepo.FindByPartyID(ctx, document.SellerID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		diagnostics = append(diagnostics, fmt.Sprintf("seller party %s is not a registered trading partner", document.SellerID))
	case err != nil:
		diagnostics = append(diagnostics, fmt.Sprintf("seller party lookup failed: %v", err))
	case !seller.CanTrade():
		diagnostics = append(diagnostics, fmt.Sprintf("seller partner %s cannot trade (%s)", seller.Code, seller.Status))
	}

	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, document.Number)
	if err != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("order number lookup failed: %v", err))
	} else if exists {
		diagnostics = append(diagnostics, fmt.Sprintf("an order numbered %s already exists", document.Number))
	}

	return diagnostics
}

// linkCatalogProducts matches decoded line items to catalog products by
// SKU. Lines whose codes are not in the catalog stay unlinked; the order
// preserves the wire values either way.
func (s *ExchangeService) linkCatalogProducts(ctx context.Context, items []edifact.OrderItem) []trade.ReceivedLine {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, strings.ToUpper(item.ProductCode))
	}

	bySKU := make(map[string]*catalog.Product)
	products, err := s.productRepo.FindBySKUs(ctx, skus)
	if err != nil {
		s.logger.Warn("Catalog lookup failed, lines stay unlinked", zap.Error(err))
	} else {
		for i := range products {
			bySKU[products[i].SKU] = &products[i]
		}
	}

	lines := make([]trade.ReceivedLine, 0, len(items))
	for _, item := range items {
		line := trade.ReceivedLine{
			LineNumber:  item.LineNumber,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
		if product, ok := bySKU[strings.ToUpper(item.ProductCode)]; ok {
			id := product.ID
			line.ProductID = &id
			line.ProductName = product.Name
		}
		lines = append(lines, line)
	}
	return lines
}

// ValidateMessage runs the structural check without touching any state.
// The message is not decoded and nothing is recorded.
func (s *ExchangeService) ValidateMessage(ctx context.Context, payload string) *ValidateMessageResponse {
	violations := s.validator.Validate(payload)

	if s.businessMetrics != nil && !violations.Empty() {
		counts := make(map[string]int, len(violations))
		for category, problems := range violations {
			counts[category] = len(problems)
		}
		s.businessMetrics.RecordValidationFindings(ctx, counts)
	}

	return &ValidateMessageResponse{
		Valid:  violations.Empty(),
		Errors: violations.Flatten(),
	}
}

// DispatchPending retransmits queued outbound interchanges, oldest first.
// Transmissions run concurrently up to the configured worker bound; one
// failed interchange does not stop the rest.
func (s *ExchangeService) DispatchPending(ctx context.Context, limit int) (*DispatchResult, error) {
	if limit <= 0 {
		limit = defaultDispatchLimit
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "dispatch_pending")
	defer span.End()

	pending, err := s.interchangeRepo.FindPending(ctx, limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, "pending_count", len(pending))

	var dispatched, failed atomic.Int64

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("dispatch_pending", nil), func(ctx context.Context) {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.dispatchWorkers)

		for i := range pending {
			interchange := &pending[i]
			group.Go(func() error {
				if err := s.dispatchOne(groupCtx, interchange); err != nil {
					failed.Add(1)
					s.logger.Warn("Dispatch failed",
						zap.String("message_ref", interchange.MessageRef),
						zap.Error(err))
				} else {
					dispatched.Add(1)
				}
				return nil
			})
		}
		_ = group.Wait()
	})

	result := &DispatchResult{
		Dispatched: int(dispatched.Load()),
		Failed:     int(failed.Load()),
	}

	if result.Dispatched > 0 || result.Failed > 0 {
		s.logger.Info("Dispatch run finished",
			zap.Int("dispatched", result.Dispatched),
			zap.Int("failed", result.Failed))
	}

	return result, nil
}

func (s *ExchangeService) dispatchOne(ctx context.Context, interchange *edi.Interchange) error {
	payload, err := s.archive.Retrieve(ctx, interchange.ArchiveKey)
	if err != nil {
		return fmt.Errorf("retrieve payload: %w", err)
	}

	if err := s.publisher.Publish(ctx, interchange, payload); err != nil {
		return err
	}

	if err := interchange.MarkTransmitted(); err != nil {
		return err
	}
	if err := s.interchangeRepo.Save(ctx, interchange); err != nil {
		return err
	}

	s.publishEvents(ctx, interchange)
	return nil
}

// GetInterchange retrieves an interchange by ID
func (s *ExchangeService) GetInterchange(ctx context.Context, id uuid.UUID) (*InterchangeResponse, error) {
	interchange, err := s.interchangeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToInterchangeResponse(interchange)
	return &response, nil
}

// GetInterchangeByRef retrieves an interchange by message reference
func (s *ExchangeService) GetInterchangeByRef(ctx context.Context, messageRef string) (*InterchangeResponse, error) {
	interchange, err := s.interchangeRepo.FindByMessageRef(ctx, messageRef)
	if err != nil {
		return nil, err
	}

	response := ToInterchangeResponse(interchange)
	return &response, nil
}

// GetInterchangePayload retrieves the archived raw payload of an interchange
func (s *ExchangeService) GetInterchangePayload(ctx context.Context, id uuid.UUID) (string, error) {
	interchange, err := s.interchangeRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if interchange.ArchiveKey == "" {
		return "", shared.NewDomainError("NOT_ARCHIVED", "Interchange has no archived payload")
	}

	return s.archive.Retrieve(ctx, interchange.ArchiveKey)
}

// ListInterchanges retrieves interchanges with filtering and pagination
func (s *ExchangeService) ListInterchanges(ctx context.Context, filter InterchangeListFilter) ([]InterchangeResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.Direction != "" {
		domainFilter.Filters["direction"] = filter.Direction
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}

	interchanges, err := s.interchangeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.interchangeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInterchangeResponses(interchanges), total, nil
}

// eventCarrier is satisfied by every aggregate root that records domain
// events.
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (s *ExchangeService) publishEvents(ctx context.Context, carriers ...eventCarrier) {
	if s.eventPublisher == nil {
		return
	}

	for _, carrier := range carriers {
		events := carrier.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish domain events", zap.Error(err))
		}
		carrier.ClearDomainEvents()
	}
}
