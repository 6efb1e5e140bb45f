package ingestion

import (
	"fmt"
	"net/http"
)

// ExtractError is a resume extraction failure carrying the HTTP status it
// should surface as.
type ExtractError struct {
	Status  int
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

func tooLarge() *ExtractError {
	return &ExtractError{Status: http.StatusRequestEntityTooLarge, Message: "File too large"}
}

func unsupported(what string) *ExtractError {
	return &ExtractError{Status: http.StatusUnsupportedMediaType, Message: fmt.Sprintf("Unsupported file type: %s", what)}
}

func unreadable(message string, cause error) *ExtractError {
	return &ExtractError{Status: http.StatusBadRequest, Message: message, Cause: cause}
}
