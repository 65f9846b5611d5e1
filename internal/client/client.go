// Package client talks to the ProFireManager REST API for one tenant. The
// tenant slug and bearer token are carried by the Client itself instead of
// being read from ambient state at every call site.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Options struct {
	// BaseURL is the API root, up to and including the /api segment,
	// e.g. https://app.profiremanager.example/api.
	BaseURL string
	// Tenant is the tenant slug inserted into every path.
	Tenant string
	// Token is the per-tenant bearer token.
	Token string
	// Timeout bounds regular request/response calls. It does not apply to
	// event streams, which are bounded by their context instead.
	Timeout time.Duration
}

type Client struct {
	baseURL string
	tenant  string
	token   string

	http   *http.Client
	stream *http.Client
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if opts.Tenant == "" {
		return nil, errors.New("client: tenant slug is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		tenant:  opts.Tenant,
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
		stream:  &http.Client{},
	}, nil
}

// TokenExpiry extracts the expiry claim from the bearer token without
// verifying the signature (the server owns verification; the client only
// wants to warn before sending requests doomed to 401).
func (c *Client) TokenExpiry() (time.Time, error) {
	if c.token == "" {
		return time.Time{}, errors.New("client: no token configured")
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return time.Time{}, fmt.Errorf("client: cannot parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the configured token carries an expiry claim
// in the past.
func (c *Client) TokenExpired(now time.Time) bool {
	exp, err := c.TokenExpiry()
	if err != nil || exp.IsZero() {
		return false
	}
	return exp.Before(now)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + c.tenant + path
}

// do performs one JSON request. A nil out discards the response body. Error
// statuses are turned into *APIError; callers that need the raw 409 payload
// (conflict collection) handle that status before calling decodeError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindServer, Status: resp.StatusCode, Detail: "unreadable response body", Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindValidation, Detail: "cannot encode request body", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}
	return resp, nil
}

// errorBody is the API's error envelope. Detail is usually a plain string
// but carries a structure on 409.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Err = err
		return apiErr
	}

	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
			apiErr.Detail = detail
			return apiErr
		}
		apiErr.Detail = string(envelope.Detail)
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(raw))
	return apiErr
}
