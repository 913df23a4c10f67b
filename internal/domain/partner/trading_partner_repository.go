package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// TradingPartnerRepository defines the interface for partner persistence
type TradingPartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TradingPartner, error)

	// FindByCode finds a partner by its code
	FindByCode(ctx context.Context, code string) (*TradingPartner, error)

	// FindByPartyID finds a partner by its wire identifier
	FindByPartyID(ctx context.Context, partyID string) (*TradingPartner, error)

	// FindAll finds all partners matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]TradingPartner, error)

	// FindActive finds all active partners
	FindActive(ctx context.Context, filter shared.Filter) ([]TradingPartner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *TradingPartner) error

	// Delete deletes a partner
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts partners matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a partner with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsByPartyID checks if a partner with the given wire identifier exists
	ExistsByPartyID(ctx context.Context, partyID string) (bool, error)
}
