package client

import (
	"fmt"
	"net/http"
)

// Kind classifies API failures. The front end used to interpret raw HTTP
// statuses and free-text details at every call site; the client maps them
// once, here.
type Kind int

const (
	// KindValidation covers client-side rejections and 4xx validation
	// answers. Nothing was persisted.
	KindValidation Kind = iota
	// KindConflict marks a 409: the entry overlaps existing ones. Conflicts
	// are expected and routed to user resolution, never treated as fatal.
	KindConflict
	KindNotFound
	KindServer
	// KindNetwork covers transport failures, including a lost event stream.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// APIError is the single error type the client returns for failed calls.
type APIError struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport failures
	Detail string // server-provided detail or a generic fallback
	Err    error  // underlying error, if any
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}
