package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTradingPartnerRepository implements TradingPartnerRepository using GORM
type GormTradingPartnerRepository struct {
	db *gorm.DB
}

// NewGormTradingPartnerRepository creates a new GormTradingPartnerRepository
func NewGormTradingPartnerRepository(db *gorm.DB) *GormTradingPartnerRepository {
	return &GormTradingPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormTradingPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.TradingPartner, error) {
	var p partner.TradingPartner
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCode finds a partner by its code
func (r *GormTradingPartnerRepository) FindByCode(ctx context.Context, code string) (*partner.TradingPartner, error) {
	var p partner.TradingPartner
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByPartyID finds a partner by its wire identifier
func (r *GormTradingPartnerRepository) FindByPartyID(ctx context.Context, partyID string) (*partner.TradingPartner, error) {
	var p partner.TradingPartner
	if err := r.db.WithContext(ctx).Where("party_id = ?", partyID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all partners matching the filter
func (r *GormTradingPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.TradingPartner, error) {
	var partners []partner.TradingPartner
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.TradingPartner{}), filter)

	if err := query.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// FindActive finds all active partners
func (r *GormTradingPartnerRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.TradingPartner, error) {
	var partners []partner.TradingPartner
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.TradingPartner{}).
			Where("status = ?", partner.PartnerStatusActive),
		filter,
	)

	if err := query.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Save creates or updates a partner
func (r *GormTradingPartnerRepository) Save(ctx context.Context, p *partner.TradingPartner) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a partner
func (r *GormTradingPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.TradingPartner{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts partners matching the filter
func (r *GormTradingPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.TradingPartner{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a partner with the given code exists
func (r *GormTradingPartnerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.TradingPartner{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByPartyID checks if a partner with the given wire identifier exists
func (r *GormTradingPartnerRepository) ExistsByPartyID(ctx context.Context, partyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.TradingPartner{}).
		Where("party_id = ?", partyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormTradingPartnerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TradingPartnerSortFields, "code")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTradingPartnerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR party_id ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		}
	}

	return query
}

// Ensure GormTradingPartnerRepository implements TradingPartnerRepository
var _ partner.TradingPartnerRepository = (*GormTradingPartnerRepository)(nil)
