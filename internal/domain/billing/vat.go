package billing

import "github.com/shopspring/decimal"

// VATRate is the Spanish general VAT rate applied to every document.
var VATRate = decimal.NewFromFloat(0.21)

// SplitVAT backs the tax out of a tax-inclusive total:
// subtotal = round2(total / 1.21), vat = round2(total - subtotal).
// The two parts always re-add to the original total.
func SplitVAT(total decimal.Decimal) (subtotal, vat decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(VATRate)
	subtotal = total.Div(divisor).Round(2)
	vat = total.Sub(subtotal).Round(2)
	return subtotal, vat
}
