package consultation

import (
	"encoding/json"
	"strings"
)

// CodePenicillin is the engine's warning code for a penicillin allergy that
// contraindicates the suggested treatment.
const CodePenicillin = "alert_penicillin"

// Panel texts.
const (
	PenicillinText = "Patient has a reported Penicillin allergy. Suggested treatment (Amoxicillin) is strictly contraindicated."
	NoMatchTitle   = "No matching diagnosis found."
	NoMatchDetail  = "The provided symptoms do not perfectly match any specific disease protocol in the current knowledge base."
	IdleTitle      = "Awaiting Clinical Data"
	IdleDetail     = "Select patient symptoms and known allergies, then run diagnostics to consult the expert system engine."
	LoadingText    = "Consulting Knowledge Base..."
	FailureTitle   = "Consultation Failed"
)

// Warning is a safety warning ready for display. The set of implementations
// is closed: PenicillinContraindication and OtherWarning.
type Warning interface {
	Code() string
	Text() string
	Critical() bool
	warning()
}

// PenicillinContraindication replaces the raw alert_penicillin code.
type PenicillinContraindication struct{}

func (PenicillinContraindication) Code() string   { return CodePenicillin }
func (PenicillinContraindication) Text() string   { return PenicillinText }
func (PenicillinContraindication) Critical() bool { return true }
func (PenicillinContraindication) warning()       {}

func (w PenicillinContraindication) MarshalJSON() ([]byte, error) {
	return marshalWarning(w)
}

// OtherWarning is any warning code without a dedicated message. It is
// displayed verbatim.
type OtherWarning string

func (w OtherWarning) Code() string   { return string(w) }
func (w OtherWarning) Text() string   { return string(w) }
func (w OtherWarning) Critical() bool { return false }
func (OtherWarning) warning()         {}

func (w OtherWarning) MarshalJSON() ([]byte, error) {
	return marshalWarning(w)
}

func marshalWarning(w Warning) ([]byte, error) {
	return json.Marshal(struct {
		Code     string `json:"code"`
		Text     string `json:"text"`
		Critical bool   `json:"critical"`
	}{w.Code(), w.Text(), w.Critical()})
}

// ClassifyWarning maps a raw engine warning code to its display variant.
func ClassifyWarning(code string) Warning {
	if code == CodePenicillin {
		return PenicillinContraindication{}
	}
	return OtherWarning(code)
}

// FormatIdentifier turns an engine identifier such as "common_cold" into
// display text by replacing underscores with spaces. Case is left alone.
func FormatIdentifier(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

type DiagnosisView struct {
	Disease     string `json:"disease"`
	Treatment   string `json:"treatment"`
	Explanation string `json:"explanation"`
}

// Presentation is the display-ready form of a successful Result.
type Presentation struct {
	Diagnoses    []DiagnosisView `json:"diagnoses"`
	Warnings     []Warning       `json:"warnings"`
	NoMatch      bool            `json:"no_match"`
	ShowWarnings bool            `json:"show_warnings"`
	PatientData  json.RawMessage `json:"patient_data,omitempty"`
}

// Present converts a Result for display. It has no side effects.
func Present(r *Result) Presentation {
	p := Presentation{
		Diagnoses: []DiagnosisView{},
		Warnings:  []Warning{},
	}
	if r == nil {
		p.NoMatch = true
		return p
	}

	for _, code := range r.Warnings {
		p.Warnings = append(p.Warnings, ClassifyWarning(code))
	}
	for _, d := range r.Diagnoses {
		p.Diagnoses = append(p.Diagnoses, DiagnosisView{
			Disease:     FormatIdentifier(d.Disease),
			Treatment:   FormatIdentifier(d.Treatment),
			Explanation: d.Explanation,
		})
	}
	p.NoMatch = len(p.Diagnoses) == 0
	p.ShowWarnings = len(p.Warnings) > 0
	p.PatientData = r.PatientData
	return p
}

// Panel is what a surface shows for the current outcome.
type Panel struct {
	State        State         `json:"state"`
	Title        string        `json:"title,omitempty"`
	Detail       string        `json:"detail,omitempty"`
	Presentation *Presentation `json:"result,omitempty"`
}

// Render builds the panel for an outcome.
func Render(o Outcome) Panel {
	switch o.State {
	case StateLoading:
		return Panel{State: o.State, Title: LoadingText}
	case StateFailure:
		return Panel{State: o.State, Title: FailureTitle, Detail: o.Reason}
	case StateSuccess:
		p := Present(o.Result)
		panel := Panel{State: o.State, Presentation: &p}
		if p.NoMatch {
			panel.Title = NoMatchTitle
			panel.Detail = NoMatchDetail
		}
		return panel
	}
	return Panel{State: StateIdle, Title: IdleTitle, Detail: IdleDetail}
}
