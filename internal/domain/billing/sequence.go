package billing

import "context"

// SequenceKind identifies an independently numbered document series
type SequenceKind string

const (
	SequenceKindInvoice SequenceKind = "factura"
	SequenceKindReceipt SequenceKind = "recibo"
)

// IsValid checks if the kind is a valid SequenceKind
func (k SequenceKind) IsValid() bool {
	return k == SequenceKindInvoice || k == SequenceKindReceipt
}

// String returns the string representation of SequenceKind
func (k SequenceKind) String() string {
	return string(k)
}

// SequenceAllocator hands out the next number in a per-kind, per-year
// series. Next must run inside the transaction that persists the document
// and must lock the counter row so concurrent callers never receive the
// same number. Numbers are never reused, even after deletes.
type SequenceAllocator interface {
	Next(ctx context.Context, kind SequenceKind, year int) (int64, error)
}
