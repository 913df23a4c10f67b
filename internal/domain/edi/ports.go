package edi

import (
	"context"
)

// InterchangePublisher pushes an outbound payload onto the transport that
// carries it to the trading partner.
type InterchangePublisher interface {
	// Publish sends the payload. A nil error means the transport accepted
	// it durably.
	Publish(ctx context.Context, interchange *Interchange, payload string) error
}

// InterchangeArchive stores raw payloads verbatim so exchanged documents
// can be audited later.
type InterchangeArchive interface {
	// Store archives the payload and returns the key it is retrievable under
	Store(ctx context.Context, interchange *Interchange, payload string) (string, error)

	// Retrieve returns the payload stored under the key
	Retrieve(ctx context.Context, key string) (string, error)
}
