package consultation

import "encoding/json"

// Request is the wire payload sent to the inference engine. Both lists are
// catalog ids, never labels, and are always encoded as arrays.
type Request struct {
	Symptoms  []string `json:"symptoms"`
	Allergies []string `json:"allergies"`
}

// NewRequest builds a request from selection snapshots. Nil slices are
// normalised so that the encoded payload always carries both arrays.
func NewRequest(symptoms, allergies []string) Request {
	r := Request{
		Symptoms:  make([]string, len(symptoms)),
		Allergies: make([]string, len(allergies)),
	}
	copy(r.Symptoms, symptoms)
	copy(r.Allergies, allergies)
	return r
}

// Diagnosis is one candidate condition returned by the engine. Disease and
// Treatment are machine identifiers (e.g. "common_cold").
type Diagnosis struct {
	Disease     string `json:"disease"`
	Treatment   string `json:"treatment"`
	Explanation string `json:"explanation"`
}

// Result is the decoded engine response. PatientData holds the engine's echo
// of the submitted payload when present.
type Result struct {
	Status      string          `json:"status"`
	Diagnoses   []Diagnosis     `json:"diagnoses"`
	Warnings    []string        `json:"warnings"`
	PatientData json.RawMessage `json:"patient_data,omitempty"`
}

// State is the phase of the consultation workflow.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the controller's current state. Result is set only in
// StateSuccess and Reason only in StateFailure.
type Outcome struct {
	State  State
	Result *Result
	Reason string
}

func idle() Outcome    { return Outcome{State: StateIdle} }
func loading() Outcome { return Outcome{State: StateLoading} }

func success(r *Result) Outcome {
	return Outcome{State: StateSuccess, Result: r}
}

func failure(reason string) Outcome {
	return Outcome{State: StateFailure, Reason: reason}
}
