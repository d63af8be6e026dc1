package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/cache"
)

// ReportService serves the ledger summary and the dashboard snapshot.
// The dashboard snapshot is cached; the ledger writers invalidate it.
type ReportService struct {
	reportRepo      finance.ReportRepository
	ledgerRepo      finance.TransactionRepository
	appointmentRepo scheduling.AppointmentRepository
	clientRepo      partner.ClientRepository
	invoiceRepo     billing.InvoiceRepository
	cache           *cache.DashboardCache
	logger          *zap.Logger
}

// NewReportService creates a new ReportService. cache may be nil when
// Redis is not configured; the dashboard then always hits the database.
func NewReportService(
	reportRepo finance.ReportRepository,
	ledgerRepo finance.TransactionRepository,
	appointmentRepo scheduling.AppointmentRepository,
	clientRepo partner.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	dashboardCache *cache.DashboardCache,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		ledgerRepo:      ledgerRepo,
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		invoiceRepo:     invoiceRepo,
		cache:           dashboardCache,
		logger:          logger,
	}
}

// Summary returns the income/expense totals bucketed by day, week or
// month. Buckets with no activity do not appear.
func (s *ReportService) Summary(ctx context.Context, req SummaryRequest) ([]finance.SummaryRow, error) {
	granularity := finance.Granularity(req.Granularity)
	if !granularity.IsValid() {
		return nil, shared.NewDomainError("INVALID_GRANULARITY", "Agrupación no válida")
	}
	return s.reportRepo.Summary(ctx, finance.SummaryQuery{
		Granularity: granularity,
		From:        req.From,
		To:          req.To,
	})
}

// IncomeChart returns the current month's income, one point per calendar
// day. Days without income come back as zero so the chart has no holes.
func (s *ReportService) IncomeChart(ctx context.Context) ([]finance.IncomePoint, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	points, err := s.reportRepo.DailyIncome(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		byDay[p.Period] = p.Income
	}

	days := int(nextMonth.Sub(monthStart).Hours() / 24)
	chart := make([]finance.IncomePoint, days)
	for i := 0; i < days; i++ {
		key := monthStart.AddDate(0, 0, i).Format("2006-01-02")
		chart[i] = finance.IncomePoint{Period: key, Income: byDay[key]}
	}
	return chart, nil
}

// Dashboard returns the landing-page snapshot, served from cache when a
// fresh copy exists
func (s *ReportService) Dashboard(ctx context.Context) (*finance.DashboardSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	summary, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, nil
}

// InvalidateDashboard drops the cached snapshot after a ledger write
func (s *ReportService) InvalidateDashboard(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *ReportService) buildDashboard(ctx context.Context) (*finance.DashboardSummary, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	month, err := s.monthSnapshot(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	prev, err := s.monthSnapshot(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, err
	}

	pending, err := s.appointmentRepo.CountByStatus(ctx, scheduling.AppointmentStatusPending)
	if err != nil {
		return nil, err
	}
	newClients, err := s.clientRepo.CountCreatedBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	invoiced, err := s.invoiceRepo.SumTotalBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	return &finance.DashboardSummary{
		Month:               month,
		PreviousMonth:       prev,
		IncomeTrendPct:      finance.TrendPct(month.Income, prev.Income),
		ExpenseTrendPct:     finance.TrendPct(month.Expenses, prev.Expenses),
		PendingAppointments: pending,
		NewClients:          newClients,
		InvoicedTotal:       invoiced,
	}, nil
}

func (s *ReportService) monthSnapshot(ctx context.Context, from, to time.Time) (finance.MonthSnapshot, error) {
	income, err := s.ledgerRepo.SumByTypeBetween(ctx, finance.TransactionTypeIncome, from, to)
	if err != nil {
		return finance.MonthSnapshot{}, err
	}
	expenses, err := s.ledgerRepo.SumByTypeBetween(ctx, finance.TransactionTypeExpense, from, to)
	if err != nil {
		return finance.MonthSnapshot{}, err
	}
	return finance.MonthSnapshot{Income: income, Expenses: expenses}, nil
}
