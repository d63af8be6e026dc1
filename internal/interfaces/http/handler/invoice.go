package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/francisjavinico/backend-tintado/internal/application/billing"
	documentsapp "github.com/francisjavinico/backend-tintado/internal/application/documents"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService  *billingapp.InvoiceService
	documentService *documentsapp.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, documentService *documentsapp.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// Create issues a manual invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get returns an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns invoices matching the document filters
func (h *InvoiceHandler) List(c *gin.Context) {
	var req billingapp.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// Balance returns the aggregated totals of the filtered invoices
func (h *InvoiceHandler) Balance(c *gin.Context) {
	var req billingapp.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	balance, err := h.invoiceService.Balance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// Update replaces the line items of an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// ResendEmail queues another copy of the invoice for the client
func (h *InvoiceHandler) ResendEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.invoiceService.ResendEmail(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Factura reenviada por email"})
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PDF renders and downloads the invoice document
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	data, err := h.documentService.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=factura-%s.pdf", invoice.Number))
	c.Data(http.StatusOK, "application/pdf", data)
}
