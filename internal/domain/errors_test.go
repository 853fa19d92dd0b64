package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain"
)

func TestRefinamientos_SatisfacenTipoPadre(t *testing.T) {
	assert.ErrorIs(t, domain.ErrAlreadyDecided, domain.ErrInvalidState)
	assert.ErrorIs(t, domain.ErrAlreadyConverted, domain.ErrInvalidState)
	assert.ErrorIs(t, domain.ErrInUse, domain.ErrInvalidState)
	assert.ErrorIs(t, domain.ErrDuplicateGRN, domain.ErrDuplicate)
	assert.ErrorIs(t, domain.ErrInvalidQuantity, domain.ErrValidation)
	assert.NotErrorIs(t, domain.ErrAlreadyDecided, domain.ErrDuplicate)
}

func TestStateError_ExponeEstadoActual(t *testing.T) {
	err := domain.StateError(domain.ErrAlreadyDecided, "grn", "approved")

	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "approved")

	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "grn", d.Entity)
	assert.Equal(t, "approved", d.State)
}

func TestFieldError_ExponeCampo(t *testing.T) {
	err := domain.FieldError(domain.ErrInvalidQuantity, "grn", "quantity_received", "debe estar entre 1 y 50")

	assert.ErrorIs(t, err, domain.ErrValidation)
	d, ok := domain.Details(fmtWrap(err))
	require.True(t, ok)
	assert.Equal(t, "quantity_received", d.Field)
}

func fmtWrap(err error) error { return errors.Join(errors.New("contexto"), err) }
