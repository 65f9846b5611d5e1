package utils

import (
	"fmt"
	"math/rand"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// Random fixture generators for tests.

var prenoms = []string{
	"Martin", "Julie", "Éric", "Sophie", "Marc", "Isabelle", "Patrick",
	"Caroline", "Stéphane", "Mélanie", "François", "Nathalie",
}

var noms = []string{
	"Tremblay", "Gagnon", "Roy", "Côté", "Bouchard", "Gauthier",
	"Morin", "Lavoie", "Fortin", "Gagné", "Ouellet", "Pelletier",
}

func RandomFullName() string {
	return prenoms[rand.Intn(len(prenoms))] + " " + noms[rand.Intn(len(noms))]
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// RandomWeekdays draws a non-empty random subset of weekday names with a
// Fisher-Yates shuffle.
func RandomWeekdays() []string {
	days := append([]string{}, weekdayNames...)
	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}
	n := rand.Intn(len(days)) + 1
	return days[:n]
}

func RandomTypeGarde(id int64) domain.TypeGarde {
	startHour := rand.Intn(18)
	endHour := startHour + 1 + rand.Intn(23-startHour)
	return domain.TypeGarde{
		ID:               id,
		Nom:              fmt.Sprintf("Garde %c", 'A'+rand.Intn(26)),
		HeureDebut:       fmt.Sprintf("%02d:00", startHour),
		HeureFin:         fmt.Sprintf("%02d:00", endHour),
		PersonnelRequis:  int32(rand.Intn(4) + 1),
		JoursApplicables: RandomWeekdays(),
	}
}

// RandomAvailabilities generates count per-day entries starting at debut,
// alternating statut at the given rate of unavailabilities.
func RandomAvailabilities(userID int64, debut domain.Date, count int, typeGardeID *int64) []domain.Availability {
	entries := make([]domain.Availability, 0, count)
	for i := 0; i < count; i++ {
		statut := domain.StatutDisponible
		if rand.Intn(4) == 0 {
			statut = domain.StatutIndisponible
		}
		entries = append(entries, domain.Availability{
			UserID:      userID,
			Date:        debut.AddDays(i),
			TypeGardeID: typeGardeID,
			Statut:      statut,
			Origine:     domain.OrigineRecurrence,
		})
	}
	return entries
}

// RandomDateIn returns a uniformly random day inside the inclusive range.
func RandomDateIn(debut, fin domain.Date) domain.Date {
	span := 0
	for d := debut; !d.After(fin); d = d.AddDays(1) {
		span++
	}
	if span <= 1 {
		return debut
	}
	return debut.AddDays(rand.Intn(span))
}
