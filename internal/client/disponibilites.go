package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// CreateResult is the outcome of a single create. Exactly one of Created or
// Conflicting is set on success: a 409 is data for the conflict-resolution
// flow, not an error.
type CreateResult struct {
	// Created is the persisted entry as the server stored it.
	Created *domain.Availability
	// Conflicting holds the existing entries the server reported for a 409.
	Conflicting []domain.Availability
}

// Conflicted reports whether the create was refused because of overlapping
// entries.
func (r CreateResult) Conflicted() bool { return r.Conflicting != nil }

// conflictEnvelope is the 409 body: { "detail": { "conflicts": [...] } }.
type conflictEnvelope struct {
	Detail struct {
		Conflicts []domain.Availability `json:"conflicts"`
	} `json:"detail"`
}

// CreateDisponibilite persists one availability entry. The server validates
// the (user, date, shift type, statut) uniqueness per entry, which is why
// bulk flows submit entries one at a time.
func (c *Client) CreateDisponibilite(ctx context.Context, entry domain.Availability) (CreateResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/disponibilites", entry)
	if err != nil {
		return CreateResult{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		var envelope conflictEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return CreateResult{}, &APIError{Kind: KindConflict, Status: resp.StatusCode, Detail: "unreadable conflict body", Err: err}
		}
		if len(envelope.Detail.Conflicts) == 0 {
			// 409 without a conflict list means the server refused the
			// entry for another reason; surface it as an error.
			return CreateResult{}, &APIError{Kind: KindConflict, Status: resp.StatusCode, Detail: "conflict without details"}
		}
		return CreateResult{Conflicting: envelope.Detail.Conflicts}, nil
	case resp.StatusCode >= 400:
		return CreateResult{}, decodeError(resp)
	}

	created := entry
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil && err != io.EOF {
		return CreateResult{}, &APIError{Kind: KindServer, Status: resp.StatusCode, Detail: "unreadable response body", Err: err}
	}
	return CreateResult{Created: &created}, nil
}

// ReplaceDisponibilites swaps a user's whole entry set in one call, used for
// simple appends that cannot conflict.
func (c *Client) ReplaceDisponibilites(ctx context.Context, userID int64, entries []domain.Availability) error {
	path := fmt.Sprintf("/disponibilites/%d", userID)
	return c.do(ctx, http.MethodPut, path, entries, nil)
}

func (c *Client) DeleteDisponibilite(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/disponibilites/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListDisponibilites fetches the authoritative entry set for a user. Mutation
// flows always re-fetch through this instead of merging locally.
func (c *Client) ListDisponibilites(ctx context.Context, userID int64) ([]domain.Availability, error) {
	var entries []domain.Availability
	path := fmt.Sprintf("/disponibilites/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) ListTypesGarde(ctx context.Context) ([]domain.TypeGarde, error) {
	var types []domain.TypeGarde
	if err := c.do(ctx, http.MethodGet, "/types-garde", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}
