package submit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiremanager/pfm-cli/internal/client"
	"github.com/profiremanager/pfm-cli/internal/domain"
	"github.com/profiremanager/pfm-cli/internal/recurrence"
	"github.com/profiremanager/pfm-cli/internal/submit"
	"github.com/profiremanager/pfm-cli/internal/testutil"
)

func setup(t *testing.T) (*testutil.Server, *client.Client) {
	t.Helper()
	srv := testutil.NewServer("caserne-12")
	t.Cleanup(srv.Close)

	c, err := client.New(client.Options{
		BaseURL: srv.BaseURL(),
		Tenant:  srv.Tenant,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return srv, c
}

func entriesFor(userID int64, dates []domain.Date) []domain.Availability {
	out := make([]domain.Availability, 0, len(dates))
	for _, d := range dates {
		out = append(out, domain.Availability{
			UserID:  userID,
			Date:    d,
			Statut:  domain.StatutDisponible,
			Origine: domain.OrigineRecurrence,
		})
	}
	return out
}

func TestRun_CollectsConflictsAndCounts(t *testing.T) {
	t.Parallel()

	srv, c := setup(t)

	debut := domain.NewDate(2024, time.March, 4)
	dates := []domain.Date{debut, debut.AddDays(1), debut.AddDays(2), debut.AddDays(3), debut.AddDays(4)}
	entries := entriesFor(7, dates)

	// Two of the five dates already hold an identical entry.
	srv.Seed(entries[1], entries[3])

	report, err := submit.New(c).Run(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 0, report.Errors)
	require.Len(t, report.Conflicts, 2)
	assert.Equal(t, entries[1].Date, report.Conflicts[0].Attempted.Date)
	assert.Equal(t, entries[3].Date, report.Conflicts[1].Attempted.Date)
	require.Len(t, report.Conflicts[0].Existing, 1)
	assert.NotZero(t, report.RunID)
}

func TestRun_OtherErrorsDoNotHalt(t *testing.T) {
	t.Parallel()

	srv, c := setup(t)

	debut := domain.NewDate(2024, time.April, 1)
	entries := entriesFor(7, []domain.Date{debut, debut.AddDays(1), debut.AddDays(2)})
	srv.FailCreate[debut.AddDays(1).String()] = 500

	report, err := submit.New(c).Run(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Errors)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, 2, srv.EntryCount())
}

func TestRun_ProgressEveryTenAndLast(t *testing.T) {
	t.Parallel()

	_, c := setup(t)

	debut := domain.NewDate(2024, time.January, 1)
	dates := make([]domain.Date, 0, 25)
	for i := 0; i < 25; i++ {
		dates = append(dates, debut.AddDays(i))
	}

	var ticks []submit.Progress
	s := submit.New(c, submit.WithProgress(func(p submit.Progress) {
		ticks = append(ticks, p)
	}))

	report, err := s.Run(context.Background(), entriesFor(7, dates))
	require.NoError(t, err)
	assert.Equal(t, 25, report.Created)

	require.Len(t, ticks, 3)
	assert.Equal(t, submit.Progress{Done: 10, Total: 25}, ticks[0])
	assert.Equal(t, submit.Progress{Done: 20, Total: 25}, ticks[1])
	assert.Equal(t, submit.Progress{Done: 25, Total: 25}, ticks[2])
	assert.Equal(t, "Enregistrement... 25/25", ticks[2].String())
}

func TestRun_CancellationKeepsPartialReport(t *testing.T) {
	t.Parallel()

	_, c := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := submit.New(c).Run(ctx, entriesFor(7, []domain.Date{domain.NewDate(2024, time.May, 1)}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Total)
}

func TestResolve_ReplaceAndSkip(t *testing.T) {
	t.Parallel()

	srv, c := setup(t)

	debut := domain.NewDate(2024, time.March, 4)
	entries := entriesFor(7, []domain.Date{debut, debut.AddDays(1)})
	srv.Seed(entries...)

	s := submit.New(c)
	report, err := s.Run(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 2)

	// Replace the first, skip the second.
	resolved, err := s.Resolve(context.Background(), report.Conflicts, func(conflict domain.Conflict) submit.Decision {
		if conflict.Attempted.Date.Equal(debut) {
			return submit.DecisionReplace
		}
		return submit.DecisionSkip
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resolved.Replaced)
	assert.Equal(t, 1, resolved.Skipped)
	assert.Equal(t, 0, resolved.Errors)
	// Replace is delete+insert, so the total entry count is unchanged.
	assert.Equal(t, 2, srv.EntryCount())
}

func TestExpandThenSubmit_EndToEnd(t *testing.T) {
	t.Parallel()

	_, c := setup(t)

	// Weekly Wednesdays across March 2024, the availability screen's
	// canonical case.
	exp, err := recurrence.Expand(
		domain.Weekly{Days: []time.Weekday{time.Wednesday}},
		domain.NewDate(2024, time.March, 4),
		domain.NewDate(2024, time.March, 31),
	)
	require.NoError(t, err)
	require.Len(t, exp.Dates, 4)

	report, err := submit.New(c).Run(context.Background(), entriesFor(7, exp.Dates))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Created)

	// The client re-fetches truth after mutation instead of merging locally.
	fresh, err := c.ListDisponibilites(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
	for _, entry := range fresh {
		assert.Equal(t, time.Wednesday, entry.Date.Weekday())
		assert.Equal(t, domain.OrigineRecurrence, entry.Origine)
	}
}
