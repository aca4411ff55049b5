package ai

import "fmt"

// MalformedResponseError reports a provider response that could not be parsed
// into a FitAssessment. Raw carries the original model output so callers can
// keep it in the audit trail for diagnosis.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
