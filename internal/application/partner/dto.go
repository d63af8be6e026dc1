package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
)

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	Name             string  `json:"nombre" binding:"required,min=1,max=100"`
	Surname          string  `json:"apellido" binding:"required,min=1,max=100"`
	Phone            string  `json:"telefono" binding:"required,telefono_es"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Address          *string `json:"direccion" binding:"omitempty,max=300"`
	DocumentIdentity *string `json:"documentoIdentidad" binding:"omitempty,max=20"`
	DataConsent      bool    `json:"consentimientoLOPD"`
	MarketingOptIn   bool    `json:"aceptaPromociones"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name             *string `json:"nombre" binding:"omitempty,min=1,max=100"`
	Surname          *string `json:"apellido" binding:"omitempty,min=1,max=100"`
	Phone            *string `json:"telefono"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Address          *string `json:"direccion" binding:"omitempty,max=300"`
	DocumentIdentity *string `json:"documentoIdentidad" binding:"omitempty,max=20"`
	MarketingOptIn   *bool   `json:"aceptaPromociones"`
}

// ListClientsRequest represents the client listing filters
type ListClientsRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"nombre"`
	Surname          string    `json:"apellido"`
	FullName         string    `json:"nombreCompleto"`
	Email            *string   `json:"email"`
	Phone            string    `json:"telefono"`
	Address          *string   `json:"direccion"`
	DocumentIdentity *string   `json:"documentoIdentidad"`
	DataConsent      bool      `json:"consentimientoLOPD"`
	MarketingOptIn   bool      `json:"aceptaPromociones"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// toClientResponse converts a domain client to its response shape
func toClientResponse(c *partner.Client) *ClientResponse {
	return &ClientResponse{
		ID:               c.ID,
		Name:             c.Name,
		Surname:          c.Surname,
		FullName:         c.FullName(),
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		DocumentIdentity: c.DocumentIdentity,
		DataConsent:      c.DataConsent,
		MarketingOptIn:   c.MarketingOptIn,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
