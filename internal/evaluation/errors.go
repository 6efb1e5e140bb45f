package evaluation

import "fmt"

// APICallError represents a failed call to the model provider
type APICallError struct {
	Step    string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: API call failed: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: API call failed: %s", e.Step, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model reply that is not usable JSON for its schema
type ParseError struct {
	Step    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Step, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents an error during post-processing validation
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
