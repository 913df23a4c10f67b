package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelink/backend/internal/domain/edi"
)

func newArchiveTestInterchange(t *testing.T, messageRef string) *edi.Interchange {
	t.Helper()
	interchange, err := edi.NewOutboundInterchange(uuid.New(), uuid.New(), uuid.New(), messageRef, 512, 12)
	require.NoError(t, err)
	return interchange
}

func TestInMemoryInterchangeArchive_StoreAndRetrieve(t *testing.T) {
	archive := NewInMemoryInterchangeArchive()
	ctx := context.Background()

	interchange := newArchiveTestInterchange(t, "ORD20260831-0001")
	payload := "UNH+ORD20260831-0001+ORDERS:D:01B:UN'UNT+2+ORD20260831-0001'"

	key, err := archive.Store(ctx, interchange, payload)
	require.NoError(t, err)
	assert.Contains(t, key, "outbound/")
	assert.Contains(t, key, "ORD20260831-0001.edi")

	got, err := archive.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, archive.Len())
}

func TestInMemoryInterchangeArchive_Store_Validation(t *testing.T) {
	archive := NewInMemoryInterchangeArchive()
	ctx := context.Background()

	t.Run("nil interchange", func(t *testing.T) {
		_, err := archive.Store(ctx, nil, "payload")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interchange is required")
	})

	t.Run("empty payload", func(t *testing.T) {
		interchange := newArchiveTestInterchange(t, "ORD20260831-0002")
		_, err := archive.Store(ctx, interchange, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payload is required")
	})
}

func TestInMemoryInterchangeArchive_Retrieve_NotFound(t *testing.T) {
	archive := NewInMemoryInterchangeArchive()
	ctx := context.Background()

	t.Run("unknown key", func(t *testing.T) {
		_, err := archive.Retrieve(ctx, "outbound/2026/08/31/MISSING.edi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := archive.Retrieve(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive key is required")
	})
}

func TestInMemoryInterchangeArchive_Store_OverwritesSameRef(t *testing.T) {
	archive := NewInMemoryInterchangeArchive()
	ctx := context.Background()

	interchange := newArchiveTestInterchange(t, "ORD20260831-0003")

	_, err := archive.Store(ctx, interchange, "first")
	require.NoError(t, err)
	key, err := archive.Store(ctx, interchange, "second")
	require.NoError(t, err)

	got, err := archive.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, archive.Len())
}
