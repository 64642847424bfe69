package isr

import "fmt"

// ValidationError reports input that cannot be turned into a schema: malformed
// documents, missing required fields, invalid source syntax. The caller has to
// fix the input; retrying the same call cannot succeed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalidf builds a ValidationError from a format string.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
