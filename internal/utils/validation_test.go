package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

func TestValidatePlage(t *testing.T) {
	t.Parallel()

	debut := domain.NewDate(2024, time.March, 4)
	fin := domain.NewDate(2024, time.March, 31)

	assert.NoError(t, ValidatePlage(debut, fin))
	assert.NoError(t, ValidatePlage(debut, debut))
	assert.Error(t, ValidatePlage(fin, debut))
	assert.Error(t, ValidatePlage(domain.Date{}, fin))
}

func TestValidateHeures(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHeures("", ""))
	assert.NoError(t, ValidateHeures("08:00", "17:30"))
	assert.Error(t, ValidateHeures("8h00", "17:30"))
	assert.Error(t, ValidateHeures("17:30", "08:00"))
	assert.Error(t, ValidateHeures("08:00", "08:00"))
}

func TestValidatorTranslatesToFrench(t *testing.T) {
	t.Parallel()

	validate, trans, err := NewValidator()
	require.NoError(t, err)

	entry := domain.Availability{
		Date:       domain.NewDate(2024, time.March, 6),
		HeureDebut: "not-a-clock",
		Statut:     domain.StatutDisponible,
		Origine:    domain.OrigineRecurrence,
	}
	err = validate.Struct(entry)
	require.Error(t, err)

	msg := FirstError(err, trans)
	assert.NotEmpty(t, msg)

	t.Run("clock rule accepts HH:MM", func(t *testing.T) {
		entry.UserID = 7
		entry.HeureDebut = "08:30"
		assert.NoError(t, validate.Struct(entry))
	})
}
