package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// ListAssignations fetches the planning slots inside the inclusive range.
func (c *Client) ListAssignations(ctx context.Context, debut, fin domain.Date) ([]domain.Assignation, error) {
	params := url.Values{}
	params.Set("debut", debut.String())
	params.Set("fin", fin.String())

	var items []domain.Assignation
	if err := c.do(ctx, http.MethodGet, "/planning/assignations?"+params.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AttributionOptions parameterizes the server-side auto-assignment job.
type AttributionOptions struct {
	// Semaine is the Monday of the week to assign.
	Semaine domain.Date
	// Reset clears previously generated assignments first.
	Reset bool
}

// StartAttribution kicks off the auto-assignment job. The job itself runs on
// the server; the returned task carries the stream URL to follow its
// progress with WatchAttribution.
func (c *Client) StartAttribution(ctx context.Context, opts AttributionOptions) (*domain.AttributionTask, error) {
	params := url.Values{}
	if !opts.Semaine.IsZero() {
		params.Set("semaine", opts.Semaine.String())
	}
	params.Set("reset", strconv.FormatBool(opts.Reset))

	var task domain.AttributionTask
	if err := c.do(ctx, http.MethodPost, "/planning/attribution-auto?"+params.Encode(), nil, &task); err != nil {
		return nil, err
	}
	if task.StreamURL == "" {
		return nil, &APIError{Kind: KindServer, Detail: "attribution response carries no stream URL"}
	}
	return &task, nil
}
