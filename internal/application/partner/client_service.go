package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Name, req.Surname, req.Phone,
		req.Email, req.Address, req.DocumentIdentity, req.DataConsent, req.MarketingOptIn)
	if err != nil {
		return nil, err
	}

	// Phone is the front desk's lookup key, one client per number
	existing, err := s.clientRepo.FindByPhone(ctx, client.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un cliente con ese teléfono")
	}

	if client.DocumentIdentity != nil {
		existing, err = s.clientRepo.FindByDocumentIdentity(ctx, *client.DocumentIdentity)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un cliente con ese documento de identidad")
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID returns one client
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	return toClientResponse(client), nil
}

// GetByPhone looks a client up by phone number
func (s *ClientService) GetByPhone(ctx context.Context, phone string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByPhone(ctx, shared.NormalizeSpanishMobile(phone))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	return toClientResponse(client), nil
}

// List returns clients matching the search, paginated
func (s *ClientService) List(ctx context.Context, req ListClientsRequest) (*shared.Paginated[ClientResponse], error) {
	filter := partner.ClientFilter{
		Filter: shared.Filter{Page: req.Page, PageSize: req.PageSize},
		Search: strings.TrimSpace(req.Search),
	}

	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = *toClientResponse(&clients[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Update modifies a client's editable fields
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
		}
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		if strings.TrimSpace(*req.Surname) == "" {
			return nil, shared.NewDomainError("INVALID_SURNAME", "El apellido es obligatorio")
		}
		client.Surname = strings.TrimSpace(*req.Surname)
	}
	if req.Phone != nil {
		if !shared.IsValidSpanishMobile(*req.Phone) {
			return nil, shared.NewDomainError("INVALID_PHONE", "Teléfono móvil español no válido")
		}
		normalized := shared.NormalizeSpanishMobile(*req.Phone)
		if normalized != client.Phone {
			other, err := s.clientRepo.FindByPhone(ctx, normalized)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != client.ID {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un cliente con ese teléfono")
			}
			client.Phone = normalized
		}
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			client.Email = nil
		} else {
			client.Email = req.Email
		}
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.DocumentIdentity != nil {
		if strings.TrimSpace(*req.DocumentIdentity) == "" {
			client.DocumentIdentity = nil
		} else {
			other, err := s.clientRepo.FindByDocumentIdentity(ctx, *req.DocumentIdentity)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != client.ID {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un cliente con ese documento de identidad")
			}
			client.DocumentIdentity = req.DocumentIdentity
		}
	}
	if req.MarketingOptIn != nil {
		client.MarketingOptIn = *req.MarketingOptIn
	}
	client.Touch()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}
	return s.clientRepo.Delete(ctx, id)
}
