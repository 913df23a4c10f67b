package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInterchangeRepository implements InterchangeRepository using GORM
type GormInterchangeRepository struct {
	db *gorm.DB
}

// NewGormInterchangeRepository creates a new GormInterchangeRepository
func NewGormInterchangeRepository(db *gorm.DB) *GormInterchangeRepository {
	return &GormInterchangeRepository{db: db}
}

// FindByID finds an interchange by its ID
func (r *GormInterchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*edi.Interchange, error) {
	var interchange edi.Interchange
	if err := r.db.WithContext(ctx).First(&interchange, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &interchange, nil
}

// FindByMessageRef finds an interchange by its message reference
func (r *GormInterchangeRepository) FindByMessageRef(ctx context.Context, messageRef string) (*edi.Interchange, error) {
	var interchange edi.Interchange
	if err := r.db.WithContext(ctx).Where("message_ref = ?", messageRef).First(&interchange).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &interchange, nil
}

// FindByOrderID finds the interchanges linked to an order
func (r *GormInterchangeRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]edi.Interchange, error) {
	var interchanges []edi.Interchange
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&interchanges).Error; err != nil {
		return nil, err
	}
	return interchanges, nil
}

// FindPending returns up to limit outbound interchanges awaiting dispatch,
// oldest first
func (r *GormInterchangeRepository) FindPending(ctx context.Context, limit int) ([]edi.Interchange, error) {
	var interchanges []edi.Interchange
	query := r.db.WithContext(ctx).
		Where("direction = ? AND status = ?", edi.InterchangeDirectionOutbound, edi.InterchangeStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&interchanges).Error; err != nil {
		return nil, err
	}
	return interchanges, nil
}

// FindByStatus returns interchanges in the given status
func (r *GormInterchangeRepository) FindByStatus(ctx context.Context, status edi.InterchangeStatus, filter shared.Filter) ([]edi.Interchange, error) {
	var interchanges []edi.Interchange
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&edi.Interchange{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&interchanges).Error; err != nil {
		return nil, err
	}
	return interchanges, nil
}

// FindAll returns interchanges matching the filter
func (r *GormInterchangeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]edi.Interchange, error) {
	var interchanges []edi.Interchange
	query := r.applyFilter(r.db.WithContext(ctx).Model(&edi.Interchange{}), filter)

	if err := query.Find(&interchanges).Error; err != nil {
		return nil, err
	}
	return interchanges, nil
}

// Save creates or updates an interchange
func (r *GormInterchangeRepository) Save(ctx context.Context, interchange *edi.Interchange) error {
	return r.db.WithContext(ctx).Save(interchange).Error
}

// Count counts interchanges matching the filter
func (r *GormInterchangeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&edi.Interchange{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts interchanges in the given status
func (r *GormInterchangeRepository) CountByStatus(ctx context.Context, status edi.InterchangeStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&edi.Interchange{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByMessageRef checks whether a message reference was seen before
func (r *GormInterchangeRepository) ExistsByMessageRef(ctx context.Context, messageRef string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&edi.Interchange{}).
		Where("message_ref = ?", messageRef).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormInterchangeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InterchangeSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInterchangeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("message_ref ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormInterchangeRepository implements InterchangeRepository
var _ edi.InterchangeRepository = (*GormInterchangeRepository)(nil)
