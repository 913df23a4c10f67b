package edifact

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Decoder parses raw ORDERS message text back into orders. Decoding never
// trusts the input: the size ceiling is applied before any splitting, the
// full structural check runs before extraction, and only then are the
// segment values interpreted.
type Decoder struct {
	maxSize   int
	validator *Validator
}

// NewDecoder builds a decoder with the configured size ceiling.
func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{
		maxSize:   o.maxMessageSize,
		validator: &Validator{maxSize: o.maxMessageSize},
	}
}

// Decode parses raw message text into an order. It returns
// OversizedInputError for input above the size ceiling,
// StructuralViolationError when the grammar check finds problems, and
// SemanticError when a well-formed message carries values that do not
// amount to a complete order.
func (d *Decoder) Decode(raw string) (*Order, error) {
	if len(raw) > d.maxSize {
		return nil, &OversizedInputError{Size: len(raw), Limit: d.maxSize}
	}
	segments := splitSegments(raw)
	violations := ValidationErrors{}
	d.validator.check(segments, violations)
	if !violations.Empty() {
		return nil, &StructuralViolationError{Violations: violations}
	}
	return extractOrder(segments)
}

// lineState tracks which of the per-line segments have been seen for one
// LIN, so missing quantities and prices surface as findings instead of
// zero values.
type lineState struct {
	hasQuantity bool
	hasPrice    bool
}

// extractOrder interprets structurally valid segments as an order. Segment
// tags outside the subset are skipped. A NAD with a qualifier already seen
// replaces the earlier party.
func extractOrder(segments []string) (*Order, error) {
	order := &Order{}
	var (
		sawNumber bool
		sawDate   bool
		lines     []lineState
	)

	for _, raw := range segments {
		seg := parseSegment(raw)
		switch seg.Tag() {
		case TagBGM:
			order.Number = unescape(seg.Element(1))
			sawNumber = true

		case TagDTM:
			comps := splitRelease(seg.Element(0), ComponentSeparator)
			date, err := time.Parse(dateLayoutCCYYMMDD, comps[1])
			if err != nil {
				return nil, &SemanticError{Segment: TagDTM, Reason: "document date is not a valid calendar date"}
			}
			order.OrderDate = date
			sawDate = true

		case TagNAD:
			switch seg.Element(0) {
			case partyQualifierBuyer:
				order.BuyerID = unescape(seg.Element(1))
			case partyQualifierSeller:
				order.SellerID = unescape(seg.Element(1))
			}

		case TagLIN:
			line, err := strconv.Atoi(seg.Element(0))
			if err != nil || line < 1 {
				return nil, &SemanticError{Segment: TagLIN, Reason: "line number must be a positive integer"}
			}
			comps := splitRelease(seg.Element(1), ComponentSeparator)
			order.Items = append(order.Items, OrderItem{
				LineNumber:  line,
				ProductCode: unescape(comps[0]),
			})
			lines = append(lines, lineState{})

		case TagQTY:
			if len(order.Items) == 0 {
				return nil, &SemanticError{Segment: TagQTY, Reason: "quantity segment appears before any line item"}
			}
			comps := splitRelease(seg.Element(0), ComponentSeparator)
			qty, err := strconv.Atoi(comps[1])
			if err != nil || qty < 1 {
				return nil, &SemanticError{Segment: TagQTY, Reason: "ordered quantity must be a positive integer"}
			}
			order.Items[len(order.Items)-1].Quantity = qty
			lines[len(lines)-1].hasQuantity = true

		case TagMOA:
			if len(order.Items) == 0 {
				return nil, &SemanticError{Segment: TagMOA, Reason: "amount segment appears before any line item"}
			}
			comps := splitRelease(seg.Element(0), ComponentSeparator)
			price, err := decimal.NewFromString(comps[1])
			if err != nil {
				return nil, &SemanticError{Segment: TagMOA, Reason: "unit price is not a valid decimal"}
			}
			order.Items[len(order.Items)-1].UnitPrice = price
			lines[len(lines)-1].hasPrice = true
		}
	}

	switch {
	case !sawNumber:
		return nil, &SemanticError{Reason: "message carries no document number (BGM)"}
	case order.BuyerID == "":
		return nil, &SemanticError{Reason: "message carries no buyer party (NAD+BY)"}
	case order.SellerID == "":
		return nil, &SemanticError{Reason: "message carries no seller party (NAD+SE)"}
	case !sawDate:
		return nil, &SemanticError{Reason: "message carries no document date (DTM)"}
	case len(order.Items) == 0:
		return nil, &SemanticError{Reason: "message carries no line items (LIN)"}
	}
	for i, state := range lines {
		if !state.hasQuantity {
			return nil, &SemanticError{Reason: fmt.Sprintf("line %d carries no quantity (QTY)", order.Items[i].LineNumber)}
		}
		if !state.hasPrice {
			return nil, &SemanticError{Reason: fmt.Sprintf("line %d carries no unit price (MOA)", order.Items[i].LineNumber)}
		}
	}

	return order, nil
}
