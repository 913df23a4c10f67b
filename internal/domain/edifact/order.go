package edifact

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the trade document carried by an ORDERS message. It holds only
// the fields the wire format encodes; lifecycle state such as order status
// stays with the owning service. The codec borrows orders for encoding and
// returns fresh, caller-owned values when decoding.
type Order struct {
	// Number is the organization-unique document number.
	Number string
	// BuyerID and SellerID are the party identifiers exchanged in NAD
	// segments, agreed per trading relationship.
	BuyerID  string
	SellerID string
	// OrderDate is a calendar date; time of day is not transmitted.
	OrderDate time.Time
	// Items are the order lines in line-number order on the wire.
	Items []OrderItem
}

// OrderItem is one LIN/QTY/MOA line of an order.
type OrderItem struct {
	// LineNumber is positive and unique within the order; it defines the
	// LIN emission order.
	LineNumber int
	// ProductCode is the buyer's article number for the line.
	ProductCode string
	// Quantity is the ordered quantity, always positive.
	Quantity int
	// UnitPrice is non-negative; the currency is implied by the trading
	// relationship and not carried in the message subset.
	UnitPrice decimal.Decimal
}

// checkRequired verifies the fields the wire format cannot do without.
func (o Order) checkRequired() error {
	switch {
	case strings.TrimSpace(o.Number) == "":
		return &MissingFieldError{Field: "order number"}
	case strings.TrimSpace(o.BuyerID) == "":
		return &MissingFieldError{Field: "buyer id"}
	case strings.TrimSpace(o.SellerID) == "":
		return &MissingFieldError{Field: "seller id"}
	case len(o.Items) == 0:
		return &MissingFieldError{Field: "items"}
	}
	return nil
}

// itemsInLineOrder returns a copy of the items sorted by line number.
func (o Order) itemsInLineOrder() []OrderItem {
	items := append([]OrderItem(nil), o.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LineNumber < items[j].LineNumber
	})
	return items
}
