package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/francisjavinico/backend-tintado/internal/application/billing"
	documentsapp "github.com/francisjavinico/backend-tintado/internal/application/documents"
)

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService  *billingapp.ReceiptService
	documentService *documentsapp.DocumentService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *billingapp.ReceiptService, documentService *documentsapp.DocumentService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:  receiptService,
		documentService: documentService,
	}
}

// Create issues a receipt manually
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req billingapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Update corrects a receipt's line items
func (h *ReceiptHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req billingapp.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.receiptService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Get returns a receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List returns receipts matching the document filters
func (h *ReceiptHandler) List(c *gin.Context) {
	var req billingapp.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.receiptService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// Balance returns the aggregated totals of the filtered receipts
func (h *ReceiptHandler) Balance(c *gin.Context) {
	var req billingapp.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	balance, err := h.receiptService.Balance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// Convert turns an active receipt into an invoice
func (h *ReceiptHandler) Convert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	invoice, err := h.receiptService.ConvertToInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// ResendEmail queues another copy of the receipt for the client
func (h *ReceiptHandler) ResendEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.receiptService.ResendEmail(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Recibo reenviado por email"})
}

// Delete removes a receipt
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PDF renders and downloads the receipt document
func (h *ReceiptHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	data, err := h.documentService.ReceiptPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=recibo-%s.pdf", receipt.Number))
	c.Data(http.StatusOK, "application/pdf", data)
}
