package handler

import (
	"github.com/gin-gonic/gin"

	schedulingapp "github.com/francisjavinico/backend-tintado/internal/application/scheduling"
	warrantyapp "github.com/francisjavinico/backend-tintado/internal/application/warranty"
)

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	BaseHandler
	appointmentService *schedulingapp.AppointmentService
	finalizeService    *schedulingapp.FinalizeService
	warrantyService    *warrantyapp.WarrantyService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(
	appointmentService *schedulingapp.AppointmentService,
	finalizeService *schedulingapp.FinalizeService,
	warrantyService *warrantyapp.WarrantyService,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		finalizeService:    finalizeService,
		warrantyService:    warrantyService,
	}
}

// Create books an appointment
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req schedulingapp.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, appointment)
}

// Get returns an appointment by ID
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// List returns appointments filtered by status and date range
func (h *AppointmentHandler) List(c *gin.Context) {
	var req schedulingapp.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.appointmentService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// PendingToday returns the pending appointments scheduled for today
func (h *AppointmentHandler) PendingToday(c *gin.Context) {
	appointments, err := h.appointmentService.PendingToday(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointments)
}

// Update modifies a pending appointment
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req schedulingapp.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// CheckIn links a registered client to a pending appointment
func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req schedulingapp.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appointment, err := h.appointmentService.CheckIn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// Finalize completes an appointment, issuing the billing document, the
// warranty when applicable and the automatic ledger entry
func (h *AppointmentHandler) Finalize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req schedulingapp.FinalizeAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.finalizeService.Finalize(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel marks a pending appointment as cancelled
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	appointment, err := h.appointmentService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// Delete removes an appointment
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Warranty returns the warranty issued for an appointment
func (h *AppointmentHandler) Warranty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	w, err := h.warrantyService.GetByAppointment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, w)
}
