package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/francisjavinico/backend-tintado/internal/application/partner"
	warrantyapp "github.com/francisjavinico/backend-tintado/internal/application/warranty"
)

// ClientHandler handles client management endpoints
type ClientHandler struct {
	BaseHandler
	clientService   *partnerapp.ClientService
	warrantyService *warrantyapp.WarrantyService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService, warrantyService *warrantyapp.WarrantyService) *ClientHandler {
	return &ClientHandler{
		clientService:   clientService,
		warrantyService: warrantyService,
	}
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, client)
}

// Get returns a client by ID
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// GetByPhone looks a client up by phone number
func (h *ClientHandler) GetByPhone(c *gin.Context) {
	phone := c.Query("telefono")
	if phone == "" {
		h.BadRequest(c, "El parámetro telefono es obligatorio")
		return
	}

	client, err := h.clientService.GetByPhone(c.Request.Context(), phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// List returns clients with search and pagination
func (h *ClientHandler) List(c *gin.Context) {
	var req partnerapp.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.clientService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// Update modifies a client
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req partnerapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Warranties lists the warranties issued to a client
func (h *ClientHandler) Warranties(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	warranties, err := h.warrantyService.ListByClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warranties)
}
