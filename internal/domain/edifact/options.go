package edifact

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxMessageSize is the raw input ceiling applied when no override
// is configured. One mebibyte comfortably covers a 200-line order while
// keeping pathological payloads out of the parser.
const DefaultMaxMessageSize = 1 << 20

// Option adjusts encoder, decoder, or validator construction.
type Option func(*options)

type options struct {
	maxMessageSize int
	newReference   func() string
}

func defaultOptions() options {
	return options{
		maxMessageSize: DefaultMaxMessageSize,
		newReference:   newMessageReference,
	}
}

// WithMaxMessageSize overrides the raw input size ceiling in bytes.
// Non-positive values are ignored.
func WithMaxMessageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMessageSize = n
		}
	}
}

// WithReferenceGenerator overrides how encoders produce message reference
// numbers. Tests use it to make encoded output deterministic.
func WithReferenceGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newReference = fn
		}
	}
}

// newMessageReference produces a fresh interchange-unique reference. The
// UNH reference field is limited to 14 characters in the directory, so the
// UUID is compacted and truncated.
func newMessageReference() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
