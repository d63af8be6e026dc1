package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
)

// The sqlite-backed tests cover the counter semantics; this one uses
// sqlmock with the postgres dialect to pin down the row lock the
// allocator must take so concurrent allocations serialize.
func setupMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func TestSequenceAllocator_Next_LocksCounterRow(t *testing.T) {
	db, mock := setupMockPostgres(t)
	allocator := NewGormSequenceAllocator(db)

	mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE kind = \$1 AND year = \$2 ORDER BY "document_sequences"\."kind" LIMIT \$3 FOR UPDATE`).
		WithArgs("factura", 2026, 1).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "year", "last_number"}).
			AddRow("factura", 2026, 41))

	mock.ExpectExec(`UPDATE "document_sequences" SET "last_number"=\$1 WHERE kind = \$2 AND year = \$3`).
		WithArgs(int64(42), "factura", 2026).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := allocator.Next(context.Background(), billing.SequenceKindInvoice, 2026)

	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceAllocator_Next_RejectsUnknownKind(t *testing.T) {
	db, mock := setupMockPostgres(t)
	allocator := NewGormSequenceAllocator(db)

	_, err := allocator.Next(context.Background(), billing.SequenceKind("albaran"), 2026)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
