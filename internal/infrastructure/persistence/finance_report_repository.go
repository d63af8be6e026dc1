package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// GormReportRepository implements ReportRepository using GORM. The bucket
// expression depends on the SQL dialect, so the repository picks it from
// the connected driver; tests run the same query against sqlite.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// bucketExpr returns the SQL expression that formats the transaction date
// into the requested bucket label
func (r *GormReportRepository) bucketExpr(g finance.Granularity) string {
	sqlite := r.db.Dialector.Name() == "sqlite"
	switch g {
	case finance.GranularityDay:
		if sqlite {
			return "strftime('%Y-%m-%d', date)"
		}
		return "to_char(date, 'YYYY-MM-DD')"
	case finance.GranularityWeek:
		if sqlite {
			return "strftime('%Y-W%W', date)"
		}
		return "to_char(date, 'IYYY-\"W\"IW')"
	default:
		if sqlite {
			return "strftime('%Y-%m', date)"
		}
		return "to_char(date, 'YYYY-MM')"
	}
}

// Summary groups the ledger into time buckets of income and expenses.
// Buckets with no activity are simply absent from the result.
func (r *GormReportRepository) Summary(ctx context.Context, query finance.SummaryQuery) ([]finance.SummaryRow, error) {
	if !query.Granularity.IsValid() {
		return nil, shared.NewDomainError("INVALID_GRANULARITY", "Granularidad no válida")
	}

	bucket := r.bucketExpr(query.Granularity)
	q := dbFromContext(ctx, r.db).
		Table("transactions").
		Select(bucket + " AS period, " +
			"COALESCE(SUM(CASE WHEN type = 'ingreso' THEN amount ELSE 0 END), 0) AS income, " +
			"COALESCE(SUM(CASE WHEN type = 'gasto' THEN amount ELSE 0 END), 0) AS expenses")

	if query.From != nil {
		q = q.Where("date >= ?", query.From.UTC())
	}
	if query.To != nil {
		q = q.Where("date <= ?", query.To.UTC())
	}

	var rows []struct {
		Period   string
		Income   decimal.Decimal
		Expenses decimal.Decimal
	}
	if err := q.Group(bucket).Order("period ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]finance.SummaryRow, len(rows))
	for i, row := range rows {
		result[i] = finance.SummaryRow{
			Period:   row.Period,
			Income:   row.Income,
			Expenses: row.Expenses,
		}
	}
	return result, nil
}

// DailyIncome sums income per day inside [from, to). Days without any
// income transaction do not appear; the caller fills the gaps.
func (r *GormReportRepository) DailyIncome(ctx context.Context, from, to time.Time) ([]finance.IncomePoint, error) {
	day := "to_char(date, 'YYYY-MM-DD')"
	if r.db.Dialector.Name() == "sqlite" {
		day = "strftime('%Y-%m-%d', date)"
	}

	var rows []struct {
		Period string
		Income decimal.Decimal
	}
	err := dbFromContext(ctx, r.db).
		Table("transactions").
		Select(day+" AS period, COALESCE(SUM(amount), 0) AS income").
		Where("type = ?", finance.TransactionTypeIncome).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Group(day).
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make([]finance.IncomePoint, len(rows))
	for i, row := range rows {
		points[i] = finance.IncomePoint{Period: row.Period, Income: row.Income}
	}
	return points, nil
}

// Ensure GormReportRepository implements the interface
var _ finance.ReportRepository = (*GormReportRepository)(nil)
