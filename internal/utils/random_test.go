package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

func TestRandomWeekdays(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		days := RandomWeekdays()
		require.NotEmpty(t, days)
		require.LessOrEqual(t, len(days), 7)

		seen := map[string]bool{}
		for _, day := range days {
			assert.False(t, seen[day], "duplicate weekday %s", day)
			seen[day] = true
			_, err := domain.ParseWeekdays([]string{day})
			assert.NoError(t, err)
		}
	}
}

func TestRandomTypeGarde(t *testing.T) {
	t.Parallel()

	tg := RandomTypeGarde(4)
	assert.EqualValues(t, 4, tg.ID)
	assert.NotEmpty(t, tg.Nom)
	assert.NoError(t, ValidateHeures(tg.HeureDebut, tg.HeureFin))
	assert.GreaterOrEqual(t, tg.PersonnelRequis, int32(1))
}

func TestRandomAvailabilities(t *testing.T) {
	t.Parallel()

	debut := domain.NewDate(2024, time.March, 1)
	entries := RandomAvailabilities(7, debut, 14, nil)

	require.Len(t, entries, 14)
	for i, entry := range entries {
		assert.EqualValues(t, 7, entry.UserID)
		assert.True(t, entry.Date.Equal(debut.AddDays(i)))
		assert.Equal(t, domain.OrigineRecurrence, entry.Origine)
	}
}

func TestRandomDateIn(t *testing.T) {
	t.Parallel()

	debut := domain.NewDate(2024, time.March, 1)
	fin := domain.NewDate(2024, time.March, 10)

	for i := 0; i < 50; i++ {
		d := RandomDateIn(debut, fin)
		assert.False(t, d.Before(debut))
		assert.False(t, d.After(fin))
	}
	assert.True(t, RandomDateIn(debut, debut).Equal(debut))

	assert.NotEmpty(t, RandomFullName())
}
