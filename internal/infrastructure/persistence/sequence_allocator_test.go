package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

func setupSequenceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.DocumentSequenceModel{})
	require.NoError(t, err)

	return db
}

func TestSequenceAllocator_Next(t *testing.T) {
	db := setupSequenceTestDB(t)
	allocator := NewGormSequenceAllocator(db)
	ctx := context.Background()

	t.Run("starts at one and increments", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			n, err := allocator.Next(ctx, billing.SequenceKindInvoice, 2026)
			require.NoError(t, err)
			assert.Equal(t, want, n)
		}
	})

	t.Run("kinds carry independent series", func(t *testing.T) {
		n, err := allocator.Next(ctx, billing.SequenceKindReceipt, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = allocator.Next(ctx, billing.SequenceKindInvoice, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("series restart each year", func(t *testing.T) {
		n, err := allocator.Next(ctx, billing.SequenceKindInvoice, 2027)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := allocator.Next(ctx, billing.SequenceKind("presupuesto"), 2026)
		require.Error(t, err)
	})
}

func TestSequenceAllocator_RollbackReleasesNumber(t *testing.T) {
	db := setupSequenceTestDB(t)
	allocator := NewGormSequenceAllocator(db)
	manager := NewTxManager(&Database{DB: db})
	ctx := context.Background()

	_, err := allocator.Next(ctx, billing.SequenceKindInvoice, 2026)
	require.NoError(t, err)

	// An aborted transaction must not burn the number it was handed.
	err = manager.Do(ctx, func(txCtx context.Context) error {
		n, err := allocator.Next(txCtx, billing.SequenceKindInvoice, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return assert.AnError
	})
	require.Error(t, err)

	n, err := allocator.Next(ctx, billing.SequenceKindInvoice, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
