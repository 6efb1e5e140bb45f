package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-bender/internal/credits"
	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/fetch"
	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/llm"
)

// validationErrorCode is the error value of every 422 body.
const validationErrorCode = "VALIDATION_ERROR"

// ErrBadRequest indicates a request body that could not be decoded
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// FieldError is one entry of a 422 detail list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		extractErr    *ingestion.ExtractError
		badRequest    *ErrBadRequest
		validationErr validator.ValidationErrors
		evalValidErr  *evaluation.ValidationError
		apiErr        *evaluation.APICallError
		parseErr      *evaluation.ParseError
		providerErr   *llm.ProviderError
		fetchErr      *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &extractErr):
		return extractErr.Status
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &validationErr), errors.As(err, &evalValidErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, credits.ErrNoCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, llm.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr), errors.As(err, &parseErr), errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// validationDetail flattens validator output into field/message pairs.
func validationDetail(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	detail := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		detail = append(detail, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return detail
}
