package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitVAT(t *testing.T) {
	t.Run("backs 21 percent out of a 30 euro total", func(t *testing.T) {
		subtotal, vat := SplitVAT(decimal.NewFromInt(30))

		assert.True(t, subtotal.Equal(decimal.RequireFromString("24.79")), "subtotal %s", subtotal)
		assert.True(t, vat.Equal(decimal.RequireFromString("5.21")), "vat %s", vat)
	})

	t.Run("backs 21 percent out of a 100 euro total", func(t *testing.T) {
		subtotal, vat := SplitVAT(decimal.NewFromInt(100))

		assert.True(t, subtotal.Equal(decimal.RequireFromString("82.64")))
		assert.True(t, vat.Equal(decimal.RequireFromString("17.36")))
	})

	t.Run("parts always re-add to the total", func(t *testing.T) {
		for _, raw := range []string{"0.01", "1", "19.99", "123.45", "999999.99"} {
			total := decimal.RequireFromString(raw)
			subtotal, vat := SplitVAT(total)
			assert.True(t, subtotal.Add(vat).Equal(total), "total %s split into %s + %s", total, subtotal, vat)
		}
	})

	t.Run("zero total splits into zeros", func(t *testing.T) {
		subtotal, vat := SplitVAT(decimal.Zero)
		assert.True(t, subtotal.IsZero())
		assert.True(t, vat.IsZero())
	})
}
