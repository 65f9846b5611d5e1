package domain

// TypeGarde is a shift-type definition: name, time-of-day bounds, required
// headcount and the weekdays it runs on. Availability entries scoped to a
// shift type inherit its time bounds.
type TypeGarde struct {
	ID               int64    `json:"id"`
	Nom              string   `json:"nom"`
	HeureDebut       string   `json:"heure_debut"`
	HeureFin         string   `json:"heure_fin"`
	PersonnelRequis  int32    `json:"personnel_requis"`
	JoursApplicables []string `json:"jours_applicables"` // monday..sunday
	Couleur          string   `json:"couleur,omitempty"`
}
