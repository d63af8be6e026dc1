package partner

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
)

// Client represents a customer of the workshop
type Client struct {
	shared.BaseEntity
	Name             string  `json:"nombre"`
	Surname          string  `json:"apellido"`
	Email            *string `json:"email"`
	Phone            string  `json:"telefono"`
	Address          *string `json:"direccion"`
	DocumentIdentity *string `json:"documentoIdentidad"`
	DataConsent      bool    `json:"consentimientoLOPD"`
	MarketingOptIn   bool    `json:"aceptaPromociones"`
}

// NewClient creates a client, validating the fields the front desk captures
func NewClient(name, surname, phone string, email, address, documentIdentity *string, dataConsent, marketingOptIn bool) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
	}
	if strings.TrimSpace(surname) == "" {
		return nil, shared.NewDomainError("INVALID_SURNAME", "El apellido es obligatorio")
	}
	if !shared.IsValidSpanishMobile(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Teléfono móvil español no válido")
	}
	if !dataConsent {
		return nil, shared.NewDomainError("CONSENT_REQUIRED", "Debe aceptar la política de protección de datos")
	}
	if email != nil && strings.TrimSpace(*email) == "" {
		email = nil
	}
	if documentIdentity != nil && strings.TrimSpace(*documentIdentity) == "" {
		documentIdentity = nil
	}

	return &Client{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             strings.TrimSpace(name),
		Surname:          strings.TrimSpace(surname),
		Email:            email,
		Phone:            shared.NormalizeSpanishMobile(phone),
		Address:          address,
		DocumentIdentity: documentIdentity,
		DataConsent:      dataConsent,
		MarketingOptIn:   marketingOptIn,
	}, nil
}

// FullName returns the display name used on documents
func (c *Client) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

// HasEmail reports whether the client can receive documents by email
func (c *Client) HasEmail() bool {
	return c.Email != nil && strings.TrimSpace(*c.Email) != ""
}

// ClientFilter narrows client listings
type ClientFilter struct {
	shared.Filter
	Search string
}

// ClientRepository defines persistence for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByPhone(ctx context.Context, phone string) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	FindByDocumentIdentity(ctx context.Context, doc string) (*Client, error)
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	Save(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
