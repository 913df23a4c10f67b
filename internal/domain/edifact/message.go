package edifact

import (
	"errors"
	"strconv"
	"strings"
)

// Envelope violations reported by NewMessage.
var (
	ErrEnvelopeIncomplete = errors.New("edifact: message requires at least a header and a trailer segment")
	ErrHeaderMissing      = errors.New("edifact: first segment must be UNH")
	ErrTrailerMissing     = errors.New("edifact: last segment must be UNT")
	ErrTrailerCount       = errors.New("edifact: trailer segment count does not match the message")
	ErrTrailerReference   = errors.New("edifact: trailer reference does not match the header reference")
)

// Message is an ordered, immutable sequence of segments forming one ORDERS
// transmission. Messages are transient: they are built and discarded within
// a single encode or decode call and carry no identity of their own.
type Message struct {
	segments []Segment
}

// NewMessage assembles a message and enforces the envelope invariant: UNH
// first, UNT last, and a trailer whose declared count equals the number of
// segments before the trailer and whose reference matches the header.
func NewMessage(segments []Segment) (*Message, error) {
	if len(segments) < 2 {
		return nil, ErrEnvelopeIncomplete
	}
	header := segments[0]
	trailer := segments[len(segments)-1]
	if header.Tag() != TagUNH {
		return nil, ErrHeaderMissing
	}
	if trailer.Tag() != TagUNT {
		return nil, ErrTrailerMissing
	}
	declared, err := strconv.Atoi(trailer.Element(0))
	if err != nil || declared != len(segments)-1 {
		return nil, ErrTrailerCount
	}
	if trailer.Element(1) != header.Element(0) {
		return nil, ErrTrailerReference
	}
	return &Message{segments: append([]Segment(nil), segments...)}, nil
}

// ParseMessage splits raw wire text into segments and assembles a message,
// enforcing the same envelope invariant as NewMessage. It interprets no
// segment content beyond the envelope; callers that need an order run the
// Decoder instead.
func ParseMessage(raw string) (*Message, error) {
	parts := splitSegments(raw)
	segments := make([]Segment, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, parseSegment(p))
	}
	return NewMessage(segments)
}

// Segments returns a copy of the message's segments in order.
func (m *Message) Segments() []Segment {
	return append([]Segment(nil), m.segments...)
}

// SegmentCount returns the number of segments including the trailer.
func (m *Message) SegmentCount() int {
	return len(m.segments)
}

// Reference returns the message reference carried by the header.
func (m *Message) Reference() string {
	return unescape(m.segments[0].Element(0))
}

// String renders the full wire text of the message.
func (m *Message) String() string {
	var b strings.Builder
	for _, seg := range m.segments {
		b.WriteString(seg.String())
	}
	return b.String()
}
