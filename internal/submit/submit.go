// Package submit persists recurrence-generated availability entries one at a
// time. The backend validates conflicts per entry, so the loop is strictly
// sequential: a 409 is collected for user resolution, any other failure is
// counted, and neither stops the remaining submissions.
package submit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/profiremanager/pfm-cli/internal/client"
	"github.com/profiremanager/pfm-cli/internal/domain"
)

// progressEvery controls how often the progress callback fires. The last
// item always fires.
const progressEvery = 10

// Progress is the textual status surfaced during a run.
type Progress struct {
	Done  int
	Total int
}

func (p Progress) String() string {
	return fmt.Sprintf("Enregistrement... %d/%d", p.Done, p.Total)
}

// Report summarizes one bulk run. Conflicts are not failures: they wait for
// a Resolve call.
type Report struct {
	RunID     uuid.UUID
	Total     int
	Created   int
	Errors    int
	Conflicts []domain.Conflict
}

type Submitter struct {
	client   *client.Client
	log      *slog.Logger
	progress func(Progress)
}

type Option func(*Submitter)

// WithProgress registers a callback fired every tenth item and on the final
// one.
func WithProgress(fn func(Progress)) Option {
	return func(s *Submitter) { s.progress = fn }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Submitter) { s.log = log }
}

func New(c *client.Client, opts ...Option) *Submitter {
	s := &Submitter{
		client:   c,
		log:      slog.Default(),
		progress: func(Progress) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run submits every entry in order. Counters stay trivially consistent
// because submissions never overlap. The returned report is valid even when
// err is non-nil: cancellation mid-run yields the partial tallies.
func (s *Submitter) Run(ctx context.Context, entries []domain.Availability) (*Report, error) {
	report := &Report{
		RunID: uuid.New(),
		Total: len(entries),
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := s.client.CreateDisponibilite(ctx, entry)
		switch {
		case err != nil:
			report.Errors++
			s.log.Error("entry rejected",
				"run", report.RunID, "date", entry.Date.String(), "error", err)
		case result.Conflicted():
			report.Conflicts = append(report.Conflicts, domain.Conflict{
				Attempted: entry,
				Existing:  result.Conflicting,
			})
		default:
			report.Created++
		}

		done := i + 1
		if done%progressEvery == 0 || done == report.Total {
			s.progress(Progress{Done: done, Total: report.Total})
		}
	}

	s.log.Info("bulk submission finished",
		"run", report.RunID,
		"total", report.Total,
		"created", report.Created,
		"conflicts", len(report.Conflicts),
		"errors", report.Errors)

	return report, nil
}
