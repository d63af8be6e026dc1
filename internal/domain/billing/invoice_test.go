package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func testItems() []LineItem {
	return []LineItem{
		{Description: "Tintado de Lunas", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		{Description: "Lavado", Quantity: 2, UnitPrice: decimal.NewFromInt(15)},
	}
}

func TestNewInvoice(t *testing.T) {
	t.Run("derives totals from items", func(t *testing.T) {
		inv, err := NewInvoice(2026, 1, uuid.New(), "Ana García", testItems())

		require.NoError(t, err)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(130)))
		assert.True(t, inv.Subtotal.Add(inv.VAT).Equal(inv.Total))
		assert.Equal(t, int64(1), inv.SeqNumber)
		assert.Equal(t, 2026, inv.Year)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := NewInvoice(2026, 1, uuid.New(), "Ana García", nil)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ITEMS_REQUIRED", derr.Code)
	})

	t.Run("rejects an item without description", func(t *testing.T) {
		items := []LineItem{{Description: "  ", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
		_, err := NewInvoice(2026, 1, uuid.New(), "Ana García", items)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_ITEM_DESCRIPTION", derr.Code)
	})

	t.Run("rejects missing client", func(t *testing.T) {
		_, err := NewInvoice(2026, 1, uuid.Nil, "Ana García", testItems())
		assert.Error(t, err)
	})

	t.Run("rejects a zero sequence number", func(t *testing.T) {
		_, err := NewInvoice(2026, 0, uuid.New(), "Ana García", testItems())
		assert.Error(t, err)
	})
}

func TestInvoiceReplaceItems(t *testing.T) {
	inv, err := NewInvoice(2026, 3, uuid.New(), "Ana García", testItems())
	require.NoError(t, err)

	t.Run("recomputes totals wholesale", func(t *testing.T) {
		err := inv.ReplaceItems([]LineItem{{Description: "Pulido de Faros", Quantity: 1, UnitPrice: decimal.NewFromInt(30)}})

		require.NoError(t, err)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("24.79")))
		assert.True(t, inv.VAT.Equal(decimal.RequireFromString("5.21")))
		assert.Len(t, inv.Items, 1)
	})

	t.Run("keeps old items when the new set is invalid", func(t *testing.T) {
		err := inv.ReplaceItems(nil)

		assert.Error(t, err)
		assert.Len(t, inv.Items, 1)
	})
}

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "2026-0042", FormatDocumentNumber(2026, 42))
	assert.Equal(t, "2025-0001", FormatDocumentNumber(2025, 1))
	assert.Equal(t, "2026-12345", FormatDocumentNumber(2026, 12345))
}
