package identity

import (
	"context"
	"strings"
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/google/uuid"
)

// Role represents what a user may do in the back office
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "empleado"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// User is a back-office account
type User struct {
	shared.BaseEntity
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// NewUser creates a user with an already-hashed password
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email no válido")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "La contraseña es obligatoria")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Rol no válido")
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}

// UserRepository defines persistence for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordResetToken is a single-use, short-lived credential emailed to a
// user who forgot their password
type PasswordResetToken struct {
	shared.BaseEntity
	Token     string    `json:"-"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
}

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = 30 * time.Minute

// NewPasswordResetToken creates a token valid for ResetTokenTTL
func NewPasswordResetToken(token, email string) *PasswordResetToken {
	return &PasswordResetToken{
		BaseEntity: shared.NewBaseEntity(),
		Token:      token,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		ExpiresAt:  time.Now().UTC().Add(ResetTokenTTL),
	}
}

// IsUsable reports whether the token can still reset a password
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// Consume marks the token as spent
func (t *PasswordResetToken) Consume() error {
	if t.Used {
		return shared.NewDomainError("TOKEN_USED", "El enlace de restablecimiento ya fue utilizado")
	}
	t.Used = true
	t.Touch()
	return nil
}

// ResetTokenRepository defines persistence for password reset tokens
type ResetTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	Save(ctx context.Context, token *PasswordResetToken) error
	Update(ctx context.Context, token *PasswordResetToken) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
