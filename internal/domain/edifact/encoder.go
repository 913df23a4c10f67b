package edifact

import "strconv"

// Encoder renders orders as UN/EDIFACT ORDERS messages.
type Encoder struct {
	newReference func() string
}

// NewEncoder builds an encoder. Every call to Encode draws a fresh message
// reference from the configured generator.
func NewEncoder(opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{newReference: o.newReference}
}

// Encode turns an order into a complete ORDERS message. Items are emitted
// in line-number order regardless of their order in the slice, and every
// free-text value is released so no field can smuggle a service character
// into the segment stream. The UNT trailer declares the count of segments
// before it and repeats the UNH reference.
func (e *Encoder) Encode(order Order) (*Message, error) {
	if err := order.checkRequired(); err != nil {
		return nil, err
	}

	items := order.itemsInLineOrder()
	ref := escape(e.newReference())

	segments := make([]Segment, 0, fixedSegmentCount+perItemSegmentCount*len(items)+1)
	segments = append(segments,
		NewSegment(TagUNH, ref, composite(messageType, directoryVersion, directoryRelease, controllingAgency, associationCode)),
		NewSegment(TagBGM, documentTypePurchaseOrder, escape(order.Number), messageFunctionOriginal),
		NewSegment(TagDTM, composite(qualifierDocumentDate, order.OrderDate.Format(dateLayoutCCYYMMDD), dateFormatCCYYMMDD)),
		NewSegment(TagNAD, partyQualifierBuyer, escape(order.BuyerID)),
		NewSegment(TagNAD, partyQualifierSeller, escape(order.SellerID)),
	)
	for _, item := range items {
		segments = append(segments,
			NewSegment(TagLIN, strconv.Itoa(item.LineNumber), composite(escape(item.ProductCode), itemCodeListBuyer)),
			NewSegment(TagQTY, composite(qualifierOrderedQuantity, strconv.Itoa(item.Quantity))),
			NewSegment(TagMOA, composite(qualifierLineAmount, item.UnitPrice.String())),
		)
	}
	segments = append(segments,
		NewSegment(TagUNS, sectionSummary),
		NewSegment(TagCNT, composite(qualifierLineItemCount, strconv.Itoa(len(items)))),
	)
	// The trailer count covers every segment before the trailer itself.
	segments = append(segments, NewSegment(TagUNT, strconv.Itoa(len(segments)), ref))

	return NewMessage(segments)
}
