// ABOUTME: Error taxonomy for storefront API failures
// ABOUTME: Maps transport and HTTP status failures to kinds the UI can render

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure
type Kind int

const (
	KindNetwork Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is returned by every Client call that fails
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	// SessionEnded is set when the failure forced a logout
	SessionEnded bool
	Err          error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("backend returned status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// IsKind reports whether err is an *APIError of the given kind
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// UserMessage renders err as the inline message a screen shows
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Kind {
	case KindNetwork:
		return "Network error. Please try again."
	case KindUnauthorized:
		if apiErr.SessionEnded || apiErr.Message == "" {
			return "Session expired. Please log in again."
		}
		return apiErr.Message
	case KindNotFound:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Not found"
	case KindValidation:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Request rejected"
	default:
		return "Something went wrong. Please try again."
	}
}
