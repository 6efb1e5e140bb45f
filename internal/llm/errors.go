package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
)

// ErrAuth is returned when the provider rejects the API key.
var ErrAuth = errors.New("LLM authentication failed, check GEMINI_API_KEY")

// ErrRateLimited is returned when the provider reports quota exhaustion.
var ErrRateLimited = errors.New("LLM rate limit or quota exceeded")

// ErrTimeout is returned when a call exceeds its configured timeout.
var ErrTimeout = errors.New("LLM call timed out")

// ProviderError wraps a provider failure with its HTTP status, when known.
type ProviderError struct {
	Status int
	Kind   error
	Cause  error
}

func (e *ProviderError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("LLM provider error (status %d): %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("LLM provider error: %v", e.Cause)
}

// Unwrap supports errors.Is against both the kind sentinel and the cause.
func (e *ProviderError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Cause}
}

// classifyError maps provider failures onto ErrAuth, ErrRateLimited and
// ErrTimeout so callers can surface a useful message.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Status: http.StatusGatewayTimeout, Kind: ErrTimeout, Cause: err}
	}

	status := statusOf(err)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{Status: status, Kind: ErrAuth, Cause: err}
	case http.StatusTooManyRequests:
		return &ProviderError{Status: status, Kind: ErrRateLimited, Cause: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key not valid"), strings.Contains(msg, "permission denied"):
		return &ProviderError{Status: status, Kind: ErrAuth, Cause: err}
	case strings.Contains(msg, "resource has been exhausted"), strings.Contains(msg, "quota"):
		return &ProviderError{Status: status, Kind: ErrRateLimited, Cause: err}
	}
	return &ProviderError{Status: status, Cause: err}
}

func statusOf(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		return aerr.HTTPCode()
	}
	return 0
}
