package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/trade"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPurchaseOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&trade.PurchaseOrder{}, &trade.PurchaseOrderItem{})
	require.NoError(t, err)

	return db
}

func newDraftOrder(t *testing.T) *trade.PurchaseOrder {
	t.Helper()

	order, err := trade.NewPurchaseOrder("ORD20230901ABCD", uuid.New(), uuid.New(), time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	productID := uuid.New()
	_, err = order.AddItem(productID, "SKU-1001", "Industrial Widget", 10, decimal.RequireFromString("49.99"))
	require.NoError(t, err)

	return order
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	t.Run("saves and reloads order with lines", func(t *testing.T) {
		order := newDraftOrder(t)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "ORD20230901ABCD", found.OrderNumber)
		assert.Equal(t, trade.OrderDirectionOutbound, found.Direction)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 1, found.Items[0].LineNumber)
		assert.Equal(t, "SKU-1001", found.Items[0].ProductCode)
		assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("499.90")))
	})

	t.Run("finds by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, "ORD20230901ABCD")
		require.NoError(t, err)
		assert.Equal(t, "ORD20230901ABCD", found.OrderNumber)
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown order number", func(t *testing.T) {
		_, err := repo.FindByOrderNumber(ctx, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPurchaseOrderRepository_SaveRemovesDroppedLines(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftOrder(t)
	secondProduct := uuid.New()
	item, err := order.AddItem(secondProduct, "SKU-1002", "Spare Part", 5, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.RemoveItem(item.ID))
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "SKU-1001", found.Items[0].ProductCode)
}

func TestGormPurchaseOrderRepository_FindByStatusAndPartner(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	confirmed := newDraftOrder(t)
	confirmed.OrderNumber = "ORD20230902AAAA"
	require.NoError(t, confirmed.Confirm())
	require.NoError(t, repo.Save(ctx, confirmed))

	drafts, err := repo.FindByStatus(ctx, trade.PurchaseOrderStatusDraft, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, order.ID, drafts[0].ID)

	byPartner, err := repo.FindByPartner(ctx, confirmed.BuyerPartnerID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, byPartner, 1)
	assert.Equal(t, confirmed.ID, byPartner[0].ID)

	count, err := repo.CountByStatus(ctx, trade.PurchaseOrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormPurchaseOrderRepository_ExistsByOrderNumber(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	exists, err := repo.ExistsByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrderNumber(ctx, "ORD-UNKNOWN")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormPurchaseOrderRepository_SaveWithLock(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("saves when version matches", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)

		loaded.Remark = "updated under lock"
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated under lock", found.Remark)
		assert.Greater(t, found.Version, order.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		stale.Version = stale.Version - 1

		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
	})
}

func TestGormPurchaseOrderRepository_Delete(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, repo.Delete(ctx, order.ID))

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&trade.PurchaseOrderItem{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	assert.ErrorIs(t, repo.Delete(ctx, order.ID), shared.ErrNotFound)
}
