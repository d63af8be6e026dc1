package warranty

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardWarranty(t *testing.T) {
	w, err := NewStandardWarranty("Lámina cerámica", uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 12, 0), w.EndDate, time.Minute)
	assert.True(t, w.IsActive(time.Now().Add(time.Hour)))
	assert.False(t, w.IsActive(time.Now().AddDate(0, 13, 0)))
}

func TestWarrantyAmend(t *testing.T) {
	w, err := NewStandardWarranty("Lámina cerámica", uuid.New(), uuid.New())
	require.NoError(t, err)

	t.Run("rewrites description and coverage", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, w.Amend("Llumar ATC 05", start, start.AddDate(2, 0, 0)))
		assert.Equal(t, "Llumar ATC 05", w.Description)
		assert.Equal(t, start, w.StartDate)
		assert.True(t, w.IsActive(start.AddDate(1, 0, 0)))
	})

	t.Run("keeps the invariants of creation", func(t *testing.T) {
		start := time.Now()
		assert.Error(t, w.Amend("  ", start, start.AddDate(1, 0, 0)))
		assert.Error(t, w.Amend("Llumar ATC 05", start, start))
	})
}

func TestNewWarrantyValidation(t *testing.T) {
	start := time.Now()

	t.Run("end must come after start", func(t *testing.T) {
		_, err := NewWarranty("Lámina cerámica", start, start, uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("requires a description", func(t *testing.T) {
		_, err := NewWarranty("  ", start, start.AddDate(1, 0, 0), uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("requires client and appointment", func(t *testing.T) {
		_, err := NewWarranty("Lámina cerámica", start, start.AddDate(1, 0, 0), uuid.Nil, uuid.New())
		assert.Error(t, err)

		_, err = NewWarranty("Lámina cerámica", start, start.AddDate(1, 0, 0), uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}
