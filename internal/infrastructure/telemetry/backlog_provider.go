// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormBacklogProvider implements BacklogProvider using GORM.
// It queries the interchanges table directly for aggregated counts.
type GormBacklogProvider struct {
	db *gorm.DB
}

// NewGormBacklogProvider creates a new GormBacklogProvider.
func NewGormBacklogProvider(db *gorm.DB) *GormBacklogProvider {
	return &GormBacklogProvider{db: db}
}

// CountPendingInterchanges returns the number of outbound interchanges still awaiting transmission.
func (p *GormBacklogProvider) CountPendingInterchanges(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("interchanges").
		Where("direction = ? AND status = ?", "OUTBOUND", "PENDING").
		Count(&count).Error

	return count, err
}
