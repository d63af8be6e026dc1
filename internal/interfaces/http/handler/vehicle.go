package handler

import (
	"github.com/gin-gonic/gin"

	schedulingapp "github.com/francisjavinico/backend-tintado/internal/application/scheduling"
)

// VehicleHandler handles vehicle catalog endpoints
type VehicleHandler struct {
	BaseHandler
	vehicleService *schedulingapp.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService *schedulingapp.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Create registers a vehicle, returning the existing entry when the
// make/model/year/doors tuple is already known
func (h *VehicleHandler) Create(c *gin.Context) {
	var req schedulingapp.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, vehicle)
}

// Get returns a vehicle by ID
func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	vehicle, err := h.vehicleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vehicle)
}

// Search returns vehicles matching the autocomplete query
func (h *VehicleHandler) Search(c *gin.Context) {
	var req schedulingapp.ListVehiclesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.vehicleService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Page(&h.BaseHandler, c, page)
}

// BudgetStats returns historic budget aggregates for a vehicle
func (h *VehicleHandler) BudgetStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	stats, err := h.vehicleService.BudgetStats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Update corrects a vehicle entry
func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req schedulingapp.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vehicle)
}

// Delete removes a vehicle
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
