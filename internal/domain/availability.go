package domain

import "fmt"

type Statut string

const (
	StatutDisponible   Statut = "disponible"
	StatutIndisponible Statut = "indisponible"
)

type Origine string

const (
	// OrigineManuelle marks an entry whose date was picked explicitly.
	OrigineManuelle Origine = "manuelle"
	// OrigineRecurrence marks an entry generated by recurrence expansion,
	// so that generated entries can later be reset in bulk without touching
	// manual ones.
	OrigineRecurrence Origine = "recurrence"
)

// Availability is one availability or unavailability entry for one employee
// on one calendar day, optionally scoped to a shift type. Entries are always
// per-day, never ranges.
//
// The backend accepts at most one entry per (user, date, shift type, statut)
// tuple and answers 409 with the existing entries when a create overlaps.
type Availability struct {
	ID          int64   `json:"id,omitempty"`
	UserID      int64   `json:"user_id" validate:"required"`
	Date        Date    `json:"date"`
	TypeGardeID *int64  `json:"type_garde_id"` // nil applies to every shift type
	HeureDebut  string  `json:"heure_debut,omitempty" validate:"omitempty,clock"`
	HeureFin    string  `json:"heure_fin,omitempty" validate:"omitempty,clock"`
	Statut      Statut  `json:"statut" validate:"required,oneof=disponible indisponible"`
	Origine     Origine `json:"origine" validate:"required,oneof=manuelle recurrence"`
}

// Key identifies the conceptual entry: the tuple the backend enforces
// uniqueness on.
func (a Availability) Key() string {
	tg := "tous"
	if a.TypeGardeID != nil {
		tg = fmt.Sprintf("%d", *a.TypeGardeID)
	}
	return fmt.Sprintf("%d|%s|%s|%s", a.UserID, a.Date, tg, a.Statut)
}

// Conflict pairs an attempted entry with the existing entries the server
// reported for it. Conflicts are routine, not failures: the user decides
// per conflict whether to replace or keep the existing entries.
type Conflict struct {
	Attempted Availability   `json:"attempted"`
	Existing  []Availability `json:"existing"`
}
