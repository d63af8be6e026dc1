package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func TestNewUser(t *testing.T) {
	t.Run("normalizes the email", func(t *testing.T) {
		u, err := NewUser("Laura", "  LAURA@Example.com ", "$2a$10$hash", RoleEmployee)

		require.NoError(t, err)
		assert.Equal(t, "laura@example.com", u.Email)
		assert.Equal(t, "Laura", u.Name)
		assert.Equal(t, RoleEmployee, u.Role)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := NewUser("   ", "laura@example.com", "$2a$10$hash", RoleEmployee)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_NAME", derr.Code)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		for _, email := range []string{"", "   ", "not-an-email"} {
			_, err := NewUser("Laura", email, "$2a$10$hash", RoleEmployee)
			assert.Error(t, err, "email %q", email)
		}
	})

	t.Run("rejects empty password hashes", func(t *testing.T) {
		_, err := NewUser("Laura", "laura@example.com", "", RoleEmployee)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_PASSWORD", derr.Code)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := NewUser("Laura", "laura@example.com", "$2a$10$hash", Role("gerente"))

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_ROLE", derr.Code)
	})
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleEmployee.IsValid())
	assert.False(t, Role("gerente").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestPasswordResetToken(t *testing.T) {
	t.Run("is usable until it expires", func(t *testing.T) {
		tok := NewPasswordResetToken("abc123", "Laura@Example.com")

		assert.Equal(t, "laura@example.com", tok.Email)
		assert.True(t, tok.IsUsable(time.Now().UTC()))
		assert.False(t, tok.IsUsable(time.Now().UTC().Add(ResetTokenTTL+time.Minute)))
	})

	t.Run("consume is single use", func(t *testing.T) {
		tok := NewPasswordResetToken("abc123", "laura@example.com")

		require.NoError(t, tok.Consume())
		assert.False(t, tok.IsUsable(time.Now().UTC()))

		err := tok.Consume()
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TOKEN_USED", derr.Code)
	})
}
