package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func tintingServices() []RequestedService {
	return []RequestedService{{Category: ServiceCategoryTinting, Name: "Tintado de Lunas"}}
}

func washServices() []RequestedService {
	price := decimal.NewFromInt(30)
	return []RequestedService{{Category: ServiceCategoryWash, Name: "Lavado", Price: &price}}
}

func tieredBudget() Budget {
	return Budget{Basic: dec(150), Mid: dec(220), Premium: dec(300)}
}

func TestBudgetValidate(t *testing.T) {
	t.Run("tinting requires the three tiers", func(t *testing.T) {
		err := Budget{Basic: dec(150), Mid: dec(220)}.Validate(tintingServices())

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "BUDGET_TIERS_REQUIRED", derr.Code)
	})

	t.Run("tinting forbids the single ceiling", func(t *testing.T) {
		b := tieredBudget()
		b.Max = dec(400)
		err := b.Validate(tintingServices())

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "BUDGET_MAX_FORBIDDEN", derr.Code)
	})

	t.Run("non-tinting requires the ceiling", func(t *testing.T) {
		err := Budget{}.Validate(washServices())

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "BUDGET_MAX_REQUIRED", derr.Code)
	})

	t.Run("non-tinting forbids tiers", func(t *testing.T) {
		err := Budget{Max: dec(50), Basic: dec(20)}.Validate(washServices())

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "BUDGET_TIERS_FORBIDDEN", derr.Code)
	})

	t.Run("mixed services count as tinting", func(t *testing.T) {
		services := append(tintingServices(), washServices()...)
		assert.NoError(t, tieredBudget().Validate(services))
	})
}

func TestRequestedServiceValidate(t *testing.T) {
	t.Run("other category requires a description", func(t *testing.T) {
		err := RequestedService{Category: ServiceCategoryOther, Name: "Otros"}.Validate()

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "SERVICE_DESCRIPTION_REQUIRED", derr.Code)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		err := RequestedService{Category: "detailing", Name: "x"}.Validate()
		assert.Error(t, err)
	})

	t.Run("line description prefers the free text for other", func(t *testing.T) {
		desc := "Cambio de escobillas"
		s := RequestedService{Category: ServiceCategoryOther, Name: "Otros", Description: &desc}
		assert.Equal(t, desc, s.LineDescription())

		w := washServices()[0]
		assert.Equal(t, "Lavado", w.LineDescription())
	})
}

func newTestAppointment(t *testing.T) *Appointment {
	t.Helper()
	a, err := NewAppointment(time.Now().Add(24*time.Hour), "612345678", uuid.New(), tintingServices(), tieredBudget(), nil, nil, nil)
	require.NoError(t, err)
	return a
}

func TestNewAppointment(t *testing.T) {
	t.Run("starts pending with a normalized phone", func(t *testing.T) {
		a, err := NewAppointment(time.Now(), "+34 612 345 678", uuid.New(), tintingServices(), tieredBudget(), nil, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, AppointmentStatusPending, a.Status)
		assert.Equal(t, "612345678", a.Phone)
	})

	t.Run("cleans and validates the plate", func(t *testing.T) {
		plate := "1234-bcd"
		a, err := NewAppointment(time.Now(), "612345678", uuid.New(), tintingServices(), tieredBudget(), nil, &plate, nil)

		require.NoError(t, err)
		require.NotNil(t, a.Plate)
		assert.Equal(t, "1234BCD", *a.Plate)
	})

	t.Run("rejects a short plate", func(t *testing.T) {
		plate := "123"
		_, err := NewAppointment(time.Now(), "612345678", uuid.New(), tintingServices(), tieredBudget(), nil, &plate, nil)
		assert.Error(t, err)
	})

	t.Run("rejects a landline phone", func(t *testing.T) {
		_, err := NewAppointment(time.Now(), "912345678", uuid.New(), tintingServices(), tieredBudget(), nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty services", func(t *testing.T) {
		_, err := NewAppointment(time.Now(), "612345678", uuid.New(), nil, tieredBudget(), nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestAppointmentTransitions(t *testing.T) {
	t.Run("complete is one-way", func(t *testing.T) {
		a := newTestAppointment(t)

		require.NoError(t, a.Complete())
		assert.Equal(t, AppointmentStatusCompleted, a.Status)

		err := a.Complete()
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("cancelled appointments cannot complete", func(t *testing.T) {
		a := newTestAppointment(t)

		require.NoError(t, a.Cancel())
		assert.Error(t, a.Complete())
	})
}
