// Package export renders availabilities and planning assignments as
// iCalendar documents, so schedules can be pulled into any calendar client.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

const productID = "-//ProFireManager//pfm-cli//FR"

// Availabilities writes one VEVENT per entry. Entries scoped to a shift type
// use its time bounds; unscoped entries without explicit bounds become
// all-day events.
func Availabilities(entries []domain.Availability, types []domain.TypeGarde, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	typesByID := indexTypes(types)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now().In(loc)
	for _, entry := range entries {
		ev := cal.AddEvent(fmt.Sprintf("dispo-%d@profiremanager", entry.ID))
		ev.SetDtStampTime(now)

		summary := "Disponible"
		if entry.Statut == domain.StatutIndisponible {
			summary = "Indisponible"
		}

		debut, fin := entry.HeureDebut, entry.HeureFin
		if entry.TypeGardeID != nil {
			if tg, ok := typesByID[*entry.TypeGardeID]; ok {
				summary += " - " + tg.Nom
				if debut == "" {
					debut, fin = tg.HeureDebut, tg.HeureFin
				}
			}
		}
		ev.SetSummary(summary)

		setEventTimes(ev, entry.Date, debut, fin, loc)
	}

	return cal.Serialize(), nil
}

// Assignations writes one VEVENT per planning slot.
func Assignations(items []domain.Assignation, types []domain.TypeGarde, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	typesByID := indexTypes(types)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now().In(loc)
	for _, item := range items {
		ev := cal.AddEvent(fmt.Sprintf("assignation-%d@profiremanager", item.ID))
		ev.SetDtStampTime(now)

		summary := "Garde"
		debut, fin := item.HeureDebut, item.HeureFin
		if tg, ok := typesByID[item.TypeGardeID]; ok {
			summary = "Garde - " + tg.Nom
			if debut == "" {
				debut, fin = tg.HeureDebut, tg.HeureFin
			}
		}
		ev.SetSummary(summary)
		ev.SetDescription(fmt.Sprintf("Employé %d", item.UserID))

		setEventTimes(ev, item.Date, debut, fin, loc)
	}

	return cal.Serialize(), nil
}

func indexTypes(types []domain.TypeGarde) map[int64]domain.TypeGarde {
	byID := make(map[int64]domain.TypeGarde, len(types))
	for _, tg := range types {
		byID[tg.ID] = tg
	}
	return byID
}

func setEventTimes(ev *ics.VEvent, day domain.Date, debut, fin string, loc *time.Location) {
	if debut == "" || fin == "" {
		start := day.At("", loc)
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		return
	}

	start := day.At(debut, loc)
	end := day.At(fin, loc)
	// Overnight shifts (e.g. 18:00-06:00) end the next day.
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	ev.SetStartAt(start)
	ev.SetEndAt(end)
}
