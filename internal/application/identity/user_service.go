package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

// UserService handles back-office account administration
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers an account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role := identity.Role(req.Role)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Rol no válido")
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un usuario con ese email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(req.Name, req.Email, string(hash), role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID returns one account
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List returns accounts, paginated
func (s *UserService) List(ctx context.Context, req ListUsersRequest) (*shared.Paginated[UserResponse], error) {
	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize}
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = *toUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &page, nil
}

// Update edits an account
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			other, err := s.userRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe un usuario con ese email")
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		if !role.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Rol no válido")
		}
		user.Role = role
	}
	user.Touch()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Usuario no encontrado")
	}
	return user, nil
}
