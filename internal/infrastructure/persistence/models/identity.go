package models

import (
	"time"

	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
)

// UserModel is the persistence model for the User entity.
type UserModel struct {
	BaseModel
	Name         string        `gorm:"type:varchar(100);not null"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'empleado'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
}

// ResetTokenModel is the persistence model for password reset tokens.
type ResetTokenModel struct {
	BaseModel
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_reset_tokens_token"`
	Email     string    `gorm:"type:varchar(200);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// ToDomain converts the persistence model to a domain PasswordResetToken.
func (m *ResetTokenModel) ToDomain() *identity.PasswordResetToken {
	return &identity.PasswordResetToken{
		BaseEntity: m.BaseModel.ToDomain(),
		Token:      m.Token,
		Email:      m.Email,
		ExpiresAt:  m.ExpiresAt,
		Used:       m.Used,
	}
}

// FromDomain populates the persistence model from a domain PasswordResetToken.
func (m *ResetTokenModel) FromDomain(t *identity.PasswordResetToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Token = t.Token
	m.Email = t.Email
	m.ExpiresAt = t.ExpiresAt
	m.Used = t.Used
}
