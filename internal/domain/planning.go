package domain

// Assignation is one planning slot: an employee assigned to a shift type on
// one calendar day.
type Assignation struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Date        Date   `json:"date"`
	TypeGardeID int64  `json:"type_garde_id"`
	HeureDebut  string `json:"heure_debut,omitempty"`
	HeureFin    string `json:"heure_fin,omitempty"`
}

// AttributionTask is returned when a server-side auto-assignment job is
// started. Progress is followed on StreamURL.
type AttributionTask struct {
	TaskID    string `json:"task_id"`
	StreamURL string `json:"stream_url"`
}

const (
	AttributionStatusEnCours = "en_cours"
	AttributionStatusTermine = "termine"
	AttributionStatusErreur  = "erreur"
)

// AttributionProgress is one message of the auto-assignment event stream.
// The stream is terminal once Status is "termine" or "erreur".
type AttributionProgress struct {
	CurrentStep        string  `json:"current_step"`
	ProgressPercentage float64 `json:"progress_percentage"`
	ElapsedTime        float64 `json:"elapsed_time"`
	Status             string  `json:"status"`
	AssignationsCreees *int    `json:"assignations_creees,omitempty"`
	ErrorMessage       string  `json:"error_message,omitempty"`
}

// Terminal reports whether the message closes the stream.
func (p AttributionProgress) Terminal() bool {
	return p.Status == AttributionStatusTermine || p.Status == AttributionStatusErreur
}
