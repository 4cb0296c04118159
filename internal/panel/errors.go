package panel

import "fmt"

// ValidationError is a client-detected input problem. It blocks the
// operation entirely: no network call is issued for a request that fails
// validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// invalid is shorthand for constructing a ValidationError.
func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
