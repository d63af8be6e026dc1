package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the bucket size for the income/expense summary
type Granularity string

const (
	GranularityDay   Granularity = "dia"
	GranularityWeek  Granularity = "semana"
	GranularityMonth Granularity = "mes"
)

// IsValid checks if the granularity is a valid Granularity
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// String returns the string representation of Granularity
func (g Granularity) String() string {
	return string(g)
}

// SummaryRow is one time bucket of the ledger summary. Buckets with no
// activity do not appear.
type SummaryRow struct {
	Period   string          `json:"periodo"`
	Income   decimal.Decimal `json:"ingresos"`
	Expenses decimal.Decimal `json:"gastos"`
}

// SummaryQuery bounds the ledger summary
type SummaryQuery struct {
	Granularity Granularity
	From        *time.Time
	To          *time.Time
}

// IncomePoint is one day of the dashboard income chart
type IncomePoint struct {
	Period string          `json:"periodo"`
	Income decimal.Decimal `json:"ingresos"`
}

// ReportRepository runs the grouped ledger queries that back the
// summary and dashboard views
type ReportRepository interface {
	Summary(ctx context.Context, query SummaryQuery) ([]SummaryRow, error)
	// DailyIncome returns income totals per day inside [from, to).
	// Days without income are absent.
	DailyIncome(ctx context.Context, from, to time.Time) ([]IncomePoint, error)
}

// MonthSnapshot holds one month's totals for the dashboard
type MonthSnapshot struct {
	Income   decimal.Decimal `json:"ingresos"`
	Expenses decimal.Decimal `json:"gastos"`
}

// DashboardSummary is the landing-page snapshot: current month totals,
// operational counters and deltas against the previous month.
type DashboardSummary struct {
	Month               MonthSnapshot   `json:"mesActual"`
	PreviousMonth       MonthSnapshot   `json:"mesAnterior"`
	IncomeTrendPct      decimal.Decimal `json:"tendenciaIngresos"`
	ExpenseTrendPct     decimal.Decimal `json:"tendenciaGastos"`
	PendingAppointments int64           `json:"citasPendientes"`
	NewClients          int64           `json:"clientesNuevos"`
	InvoicedTotal       decimal.Decimal `json:"totalFacturado"`
}

// TrendPct computes the percentage change between two month totals.
// A zero previous month reads as +100% when the current month has
// activity and 0% otherwise.
func TrendPct(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}
