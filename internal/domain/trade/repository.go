package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its document number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll returns purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus returns purchase orders in the given status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByPartner returns purchase orders where the partner is buyer or seller
	FindByPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order together with its lines
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking based on the aggregate version
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a purchase order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns the number of purchase orders in the given status
	CountByStatus(ctx context.Context, status PurchaseOrderStatus) (int64, error)

	// ExistsByOrderNumber checks whether an order with the document number exists
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
