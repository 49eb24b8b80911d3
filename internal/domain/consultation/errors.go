package consultation

import (
	"errors"
	"fmt"
)

// Operator-facing failure texts.
const (
	MsgNoSymptoms         = "no symptoms selected"
	MsgServiceUnreachable = "could not reach the diagnostic service"
)

var (
	// ErrNoSymptoms is returned when a submission is attempted with an empty
	// symptom selection. The engine is never contacted.
	ErrNoSymptoms = errors.New(MsgNoSymptoms)

	// ErrSubmissionInFlight is returned when a submission is attempted while
	// another one is still loading.
	ErrSubmissionInFlight = errors.New("consultation already in flight")
)

// ErrorKind classifies a failed call to the inference engine.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindParse     ErrorKind = "parse"
)

// ServiceError wraps any failure talking to the inference engine. All kinds
// are shown to the operator as MsgServiceUnreachable; the detail is for logs.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("engine %s error: HTTP %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("engine %s error: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsServiceError reports whether err is a *ServiceError of the given kind.
func IsServiceError(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

// failureMessage maps a submission error to the text shown to the operator.
func failureMessage(err error) string {
	if errors.Is(err, ErrNoSymptoms) {
		return MsgNoSymptoms
	}
	return MsgServiceUnreachable
}
