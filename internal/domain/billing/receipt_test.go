package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func TestNewReceipt(t *testing.T) {
	t.Run("amount is the tax-inclusive sum of the items", func(t *testing.T) {
		r, err := NewReceipt(2026, 1, uuid.New(), uuid.New(), "Tintado de Lunas", testItems())

		require.NoError(t, err)
		assert.True(t, r.Amount.Equal(decimal.NewFromInt(130)))
		assert.Equal(t, ReceiptStatusActive, r.Status)
	})

	t.Run("requires an appointment", func(t *testing.T) {
		_, err := NewReceipt(2026, 1, uuid.New(), uuid.Nil, "Tintado de Lunas", testItems())

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_APPOINTMENT", derr.Code)
	})

	t.Run("requires a description", func(t *testing.T) {
		_, err := NewReceipt(2026, 1, uuid.New(), uuid.New(), " ", testItems())
		assert.Error(t, err)
	})
}

func TestReceiptConversionState(t *testing.T) {
	r, err := NewReceipt(2026, 5, uuid.New(), uuid.New(), "Tintado de Lunas", testItems())
	require.NoError(t, err)

	t.Run("marks an active receipt converted once", func(t *testing.T) {
		require.NoError(t, r.MarkConverted())
		assert.Equal(t, ReceiptStatusConverted, r.Status)
	})

	t.Run("second conversion is an invalid state", func(t *testing.T) {
		err := r.MarkConverted()

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("converted receipts cannot change items", func(t *testing.T) {
		err := r.ReplaceItems(testItems())
		assert.Error(t, err)
	})
}
