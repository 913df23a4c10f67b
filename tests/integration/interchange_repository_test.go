package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/infrastructure/persistence"
)

// TestInterchangeRepository_Integration tests the InterchangeRepository against a real PostgreSQL database
func TestInterchangeRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormInterchangeRepository(testDB.DB)
	ctx := context.Background()

	orderID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("Save and FindByID for outbound interchange", func(t *testing.T) {
		interchange, err := edi.NewOutboundInterchange(orderID, buyerID, sellerID, "TL20260315000001", 420, 12)
		require.NoError(t, err)
		interchange.SetArchiveKey("outbound/2026/03/TL20260315000001.edi")

		require.NoError(t, repo.Save(ctx, interchange))

		found, err := repo.FindByID(ctx, interchange.ID)
		require.NoError(t, err)
		assert.Equal(t, edi.InterchangeDirectionOutbound, found.Direction)
		assert.Equal(t, "TL20260315000001", found.MessageRef)
		require.NotNil(t, found.OrderID)
		assert.Equal(t, orderID, *found.OrderID)
		assert.Equal(t, "outbound/2026/03/TL20260315000001.edi", found.ArchiveKey)
		assert.True(t, found.IsPending())
	})

	t.Run("FindByMessageRef", func(t *testing.T) {
		found, err := repo.FindByMessageRef(ctx, "TL20260315000001")
		require.NoError(t, err)
		assert.Equal(t, 420, found.PayloadSize)
		assert.Equal(t, 12, found.SegmentCount)

		_, err = repo.FindByMessageRef(ctx, "TL00000000000000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unique message ref index rejects duplicates", func(t *testing.T) {
		duplicate, err := edi.NewOutboundInterchange(uuid.New(), buyerID, sellerID, "TL20260315000001", 100, 8)
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, duplicate))
	})

	t.Run("FindPending returns oldest first and respects the limit", func(t *testing.T) {
		second, err := edi.NewOutboundInterchange(uuid.New(), buyerID, sellerID, "TL20260315000002", 300, 10)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, second))

		pending, err := repo.FindPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "TL20260315000001", pending[0].MessageRef)

		pending, err = repo.FindPending(ctx, 1)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "TL20260315000001", pending[0].MessageRef)
	})

	t.Run("transmission removes interchange from the pending backlog", func(t *testing.T) {
		interchange, err := repo.FindByMessageRef(ctx, "TL20260315000001")
		require.NoError(t, err)
		require.NoError(t, interchange.MarkTransmitted())
		require.NoError(t, repo.Save(ctx, interchange))

		pending, err := repo.FindPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "TL20260315000002", pending[0].MessageRef)

		found, err := repo.FindByMessageRef(ctx, "TL20260315000001")
		require.NoError(t, err)
		assert.True(t, found.IsTransmitted())
		assert.NotNil(t, found.TransmittedAt)
	})

	t.Run("rejected inbound interchange keeps its diagnostics", func(t *testing.T) {
		inbound, err := edi.NewInboundInterchange("TL20260316000001", 210, 9)
		require.NoError(t, err)
		require.NoError(t, inbound.Reject([]string{
			"buyer party 0000000000000 is not a registered trading partner",
			"line 2: unknown product code SKU-9999",
		}))
		require.NoError(t, repo.Save(ctx, inbound))

		found, err := repo.FindByMessageRef(ctx, "TL20260316000001")
		require.NoError(t, err)
		assert.Equal(t, edi.InterchangeDirectionInbound, found.Direction)
		assert.True(t, found.IsRejected())
		require.Len(t, found.Diagnostics, 2)
		assert.Contains(t, found.Diagnostics[0], "not a registered trading partner")
	})

	t.Run("FindByStatus and CountByStatus", func(t *testing.T) {
		rejected, err := repo.FindByStatus(ctx, edi.InterchangeStatusRejected, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, rejected, 1)
		assert.Equal(t, "TL20260316000001", rejected[0].MessageRef)

		count, err := repo.CountByStatus(ctx, edi.InterchangeStatusTransmitted)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("FindByOrderID", func(t *testing.T) {
		interchanges, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, interchanges, 1)
		assert.Equal(t, "TL20260315000001", interchanges[0].MessageRef)
	})

	t.Run("ExistsByMessageRef", func(t *testing.T) {
		exists, err := repo.ExistsByMessageRef(ctx, "TL20260316000001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByMessageRef(ctx, "TL99999999999999")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Count with direction filter", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{
			Filters: map[string]interface{}{"direction": string(edi.InterchangeDirectionInbound)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
