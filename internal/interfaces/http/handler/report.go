package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/francisjavinico/backend-tintado/internal/application/finance"
)

// ReportHandler handles financial report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *financeapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *financeapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary returns income and expense totals grouped by period
func (h *ReportHandler) Summary(c *gin.Context) {
	var req financeapp.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rows, err := h.reportService.Summary(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// IncomeChart returns the current month's daily income series
func (h *ReportHandler) IncomeChart(c *gin.Context) {
	chart, err := h.reportService.IncomeChart(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, chart)
}

// Dashboard returns the month-to-date business snapshot
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
