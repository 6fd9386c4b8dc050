package codec

import "fmt"

// MalformedInputError is returned by Deserialize when the input cannot be
// parsed or does not satisfy the minimum document shape.
type MalformedInputError struct {
	Reason string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed roadmap file: %s: %v", e.Reason, e.Cause)
	}
	return "malformed roadmap file: " + e.Reason
}

// Unwrap exposes the underlying parse error.
func (e *MalformedInputError) Unwrap() error { return e.Cause }

func malformed(reason string, cause error) error {
	return &MalformedInputError{Reason: reason, Cause: cause}
}

func malformedf(cause error, format string, args ...any) error {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...), Cause: cause}
}
