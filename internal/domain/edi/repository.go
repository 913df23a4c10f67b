package edi

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// InterchangeRepository defines the interface for interchange persistence
type InterchangeRepository interface {
	// FindByID finds an interchange by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Interchange, error)

	// FindByMessageRef finds an interchange by its message reference
	FindByMessageRef(ctx context.Context, messageRef string) (*Interchange, error)

	// FindByOrderID finds the interchanges linked to an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Interchange, error)

	// FindPending returns up to limit outbound interchanges awaiting dispatch,
	// oldest first
	FindPending(ctx context.Context, limit int) ([]Interchange, error)

	// FindByStatus returns interchanges in the given status
	FindByStatus(ctx context.Context, status InterchangeStatus, filter shared.Filter) ([]Interchange, error)

	// FindAll returns interchanges matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Interchange, error)

	// Save creates or updates an interchange
	Save(ctx context.Context, interchange *Interchange) error

	// Count counts interchanges matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts interchanges in the given status
	CountByStatus(ctx context.Context, status InterchangeStatus) (int64, error)

	// ExistsByMessageRef checks whether a message reference was seen before
	ExistsByMessageRef(ctx context.Context, messageRef string) (bool, error)
}
