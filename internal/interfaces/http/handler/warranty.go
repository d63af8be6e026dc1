package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	documentsapp "github.com/francisjavinico/backend-tintado/internal/application/documents"
	warrantyapp "github.com/francisjavinico/backend-tintado/internal/application/warranty"
)

// WarrantyHandler handles warranty endpoints
type WarrantyHandler struct {
	BaseHandler
	warrantyService *warrantyapp.WarrantyService
	documentService *documentsapp.DocumentService
}

// NewWarrantyHandler creates a new WarrantyHandler
func NewWarrantyHandler(warrantyService *warrantyapp.WarrantyService, documentService *documentsapp.DocumentService) *WarrantyHandler {
	return &WarrantyHandler{
		warrantyService: warrantyService,
		documentService: documentService,
	}
}

// Create issues a warranty manually
func (h *WarrantyHandler) Create(c *gin.Context) {
	var req warrantyapp.CreateWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	w, err := h.warrantyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, w)
}

// Get returns a warranty by ID
func (h *WarrantyHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	w, err := h.warrantyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, w)
}

// List returns warranties with pagination
func (h *WarrantyHandler) List(c *gin.Context) {
	var req warrantyapp.ListWarrantiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.warrantyService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// Update corrects a warranty's description or coverage window
func (h *WarrantyHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req warrantyapp.UpdateWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	w, err := h.warrantyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, w)
}

// Delete removes a warranty
func (h *WarrantyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.warrantyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PDF renders and downloads the warranty certificate
func (h *WarrantyHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	data, err := h.documentService.WarrantyPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=garantia-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}
