package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/auth"
)

// AuthService handles login and the password reset flow
type AuthService struct {
	userRepo     identity.UserRepository
	tokenRepo    identity.ResetTokenRepository
	dispatchRepo shared.DispatchRepository
	jwtService   *auth.JWTService
	frontendURL  string
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	tokenRepo identity.ResetTokenRepository,
	dispatchRepo shared.DispatchRepository,
	jwtService *auth.JWTService,
	frontendURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		dispatchRepo: dispatchRepo,
		jwtService:   jwtService,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// Login authenticates a user and issues a JWT
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	// Same error for a missing user and a wrong password
	if user == nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Credenciales no válidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Credenciales no válidas")
	}

	issued, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresAt: issued.ExpiresAt,
		User:      *toUserResponse(user),
	}, nil
}

// HasUsers reports whether any account exists yet. The setup screen of
// the front end uses it to decide between login and first-run.
func (s *AuthService) HasUsers(ctx context.Context) (bool, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// CreateFirstUser creates the initial admin account. It only works on an
// empty user table, so the endpoint is harmless once the system is set up.
func (s *AuthService) CreateFirstUser(ctx context.Context, req CreateFirstUserRequest) (*UserResponse, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Ya existe al menos un usuario. No se puede crear otro usuario inicial")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(req.Name, req.Email, string(hash), identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("first admin account created", zap.String("user_id", user.ID.String()))
	return toUserResponse(user), nil
}

// ForgotPassword issues a reset token and queues the email. It answers
// the same whether or not the address belongs to an account, so the
// endpoint cannot be used to probe for registered emails.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}

	raw, err := randomToken()
	if err != nil {
		return err
	}
	token := identity.NewPasswordResetToken(raw, user.Email)
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return err
	}

	payload, err := json.Marshal(shared.PasswordResetPayload{
		UserID:    user.ID,
		UserName:  user.Name,
		Email:     user.Email,
		ResetLink: fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.frontendURL, "/"), raw),
	})
	if err != nil {
		return err
	}
	job := shared.NewDispatchJob(shared.DispatchKindPasswordReset, user.ID, payload)
	return s.dispatchRepo.Save(ctx, job)
}

// ResetPassword consumes a reset token and sets the new password
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	token, err := s.tokenRepo.FindByToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if token == nil || !token.IsUsable(time.Now().UTC()) {
		return shared.NewDomainError("INVALID_TOKEN", "El enlace de restablecimiento no es válido o ha caducado")
	}

	user, err := s.userRepo.FindByEmail(ctx, token.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.NewDomainError("INVALID_TOKEN", "El enlace de restablecimiento no es válido o ha caducado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Touch()

	if err := token.Consume(); err != nil {
		return err
	}
	if err := s.tokenRepo.Update(ctx, token); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
