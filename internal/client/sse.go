package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// ErrStreamLost indicates the event stream ended before a terminal status
// arrived.
var ErrStreamLost = errors.New("client: attribution stream lost before completion")

// WatchAttribution follows the auto-assignment progress stream and calls fn
// for every message. It returns the terminal message once Status is
// "termine" or "erreur"; an "erreur" terminal additionally yields a server
// error carrying the job's error message. Cancel ctx to stop watching; the
// job itself keeps running on the server.
func (c *Client) WatchAttribution(ctx context.Context, streamURL string, fn func(domain.AttributionProgress)) (*domain.AttributionProgress, error) {
	target, err := c.resolveStreamURL(streamURL)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Detail: "invalid stream URL", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &APIError{Kind: KindValidation, Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// The stream client carries no timeout: the stream lives until the job
	// ends or ctx is canceled.
	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			payload := data.String()
			data.Reset()
			if payload == "" {
				continue
			}
			var progress domain.AttributionProgress
			if err := json.Unmarshal([]byte(payload), &progress); err != nil {
				// Skip keep-alives and non-JSON payloads.
				continue
			}
			fn(progress)
			if progress.Terminal() {
				if progress.Status == domain.AttributionStatusErreur {
					return &progress, &APIError{Kind: KindServer, Detail: progress.ErrorMessage}
				}
				return &progress, nil
			}
		default:
			// Comment lines and event/id fields are irrelevant here.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &APIError{Kind: KindNetwork, Detail: "connection lost", Err: err}
	}
	return nil, &APIError{Kind: KindNetwork, Detail: "connection lost", Err: ErrStreamLost}
}

// resolveStreamURL accepts the absolute or server-relative stream URL the
// attribution endpoint returned.
func (c *Client) resolveStreamURL(streamURL string) (string, error) {
	parsed, err := url.Parse(streamURL)
	if err != nil {
		return "", err
	}
	if parsed.IsAbs() {
		return streamURL, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(parsed).String(), nil
}
