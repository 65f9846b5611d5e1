package submit

import (
	"context"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// Decision is the user's choice for one conflict.
type Decision int

const (
	// DecisionSkip keeps the existing entries and drops the attempted one.
	DecisionSkip Decision = iota
	// DecisionReplace deletes the existing entries, then inserts the
	// attempted one.
	DecisionReplace
)

// ResolveReport tallies the outcome of a resolution pass.
type ResolveReport struct {
	Replaced int
	Skipped  int
	Errors   int
}

// Resolve applies one decision per conflict, in order. Each conflict is
// resolved independently; a failed replace is counted and the pass moves on,
// matching the per-item semantics of Run.
func (s *Submitter) Resolve(ctx context.Context, conflicts []domain.Conflict, decide func(domain.Conflict) Decision) (*ResolveReport, error) {
	report := &ResolveReport{}

	for _, conflict := range conflicts {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if decide(conflict) == DecisionSkip {
			report.Skipped++
			continue
		}

		if err := s.replace(ctx, conflict); err != nil {
			report.Errors++
			s.log.Error("conflict replacement failed",
				"date", conflict.Attempted.Date.String(), "error", err)
			continue
		}
		report.Replaced++
	}

	return report, nil
}

func (s *Submitter) replace(ctx context.Context, conflict domain.Conflict) error {
	for _, existing := range conflict.Existing {
		if err := s.client.DeleteDisponibilite(ctx, existing.ID); err != nil {
			return err
		}
	}

	result, err := s.client.CreateDisponibilite(ctx, conflict.Attempted)
	if err != nil {
		return err
	}
	if result.Conflicted() {
		// The slot should be free after the deletes; a fresh conflict means
		// someone else recreated an entry meanwhile. Leave it to the user.
		return &ReplacementConflictError{Remaining: result.Conflicting}
	}
	return nil
}

// ReplacementConflictError reports that a replace ran into a new conflict
// after deleting the previous entries.
type ReplacementConflictError struct {
	Remaining []domain.Availability
}

func (e *ReplacementConflictError) Error() string {
	return "submit: replacement conflicted again"
}
