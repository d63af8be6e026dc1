package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/francisjavinico/backend-tintado/internal/application/finance"
)

// TransactionHandler handles financial ledger endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *financeapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *financeapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create records a manual ledger entry
func (h *TransactionHandler) Create(c *gin.Context) {
	var req financeapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.transactionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// Get returns a ledger entry by ID
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	entry, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List returns ledger entries. Without filters it returns the latest
// movements, with filters a paginated result.
func (h *TransactionHandler) List(c *gin.Context) {
	var req financeapp.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.transactionService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// Update modifies a manual ledger entry
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req financeapp.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.transactionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Delete removes a manual ledger entry
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
