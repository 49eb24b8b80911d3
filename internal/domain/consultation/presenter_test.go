package consultation

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestClassifyWarning(t *testing.T) {
	w := ClassifyWarning("alert_penicillin")
	if _, ok := w.(PenicillinContraindication); !ok {
		t.Fatalf("expected PenicillinContraindication, got %T", w)
	}
	if w.Text() != "Patient has a reported Penicillin allergy. Suggested treatment (Amoxicillin) is strictly contraindicated." {
		t.Errorf("unexpected penicillin text: %q", w.Text())
	}
	if !w.Critical() {
		t.Error("expected penicillin warning to be critical")
	}

	other := ClassifyWarning("alert_sulfa")
	if _, ok := other.(OtherWarning); !ok {
		t.Fatalf("expected OtherWarning, got %T", other)
	}
	if other.Text() != "alert_sulfa" {
		t.Errorf("expected verbatim text, got %q", other.Text())
	}
}

func TestFormatIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"common_cold", "common cold"},
		{"rest_and_fluids", "rest and fluids"},
		{"influenza", "influenza"},
		{"Strep_Throat", "Strep Throat"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatIdentifier(tt.in); got != tt.want {
			t.Errorf("FormatIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPresent_DiagnosesFormatted(t *testing.T) {
	p := Present(&Result{
		Status: "success",
		Diagnoses: []Diagnosis{
			{Disease: "common_cold", Treatment: "rest_and_fluids", Explanation: "Symptoms align with a_viral infection."},
		},
	})
	if p.NoMatch {
		t.Error("expected a match")
	}
	d := p.Diagnoses[0]
	if d.Disease != "common cold" || d.Treatment != "rest and fluids" {
		t.Errorf("unexpected formatting: %+v", d)
	}
	if d.Explanation != "Symptoms align with a_viral infection." {
		t.Errorf("explanation must be verbatim, got %q", d.Explanation)
	}
}

func TestPresent_PenicillinOverride(t *testing.T) {
	p := Present(&Result{
		Diagnoses: []Diagnosis{{Disease: "strep_throat", Treatment: "amoxicillin"}},
		Warnings:  []string{"alert_penicillin", "check_renal_function"},
	})
	if !p.ShowWarnings {
		t.Fatal("expected warnings panel")
	}
	if len(p.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(p.Warnings))
	}
	if p.Warnings[0].Text() != PenicillinText {
		t.Errorf("expected penicillin sentence, got %q", p.Warnings[0].Text())
	}
	if p.Warnings[1].Text() != "check_renal_function" {
		t.Errorf("expected verbatim code, got %q", p.Warnings[1].Text())
	}
}

func TestPresent_NoMatch(t *testing.T) {
	p := Present(&Result{Status: "success", Diagnoses: []Diagnosis{}, Warnings: []string{}})
	if !p.NoMatch {
		t.Error("expected NoMatch for empty diagnoses")
	}
	if p.ShowWarnings {
		t.Error("expected warnings panel hidden")
	}

	panel := Render(Outcome{State: StateSuccess, Result: &Result{Status: "success"}})
	if panel.State != StateSuccess {
		t.Errorf("empty diagnoses must still be success, got %s", panel.State)
	}
	if panel.Title != NoMatchTitle || panel.Detail != NoMatchDetail {
		t.Errorf("unexpected no-match texts: %q / %q", panel.Title, panel.Detail)
	}
}

func TestPresent_WarningsWithoutDiagnoses(t *testing.T) {
	p := Present(&Result{Warnings: []string{"alert_penicillin"}})
	if !p.NoMatch || !p.ShowWarnings {
		t.Errorf("expected no-match with warnings, got %+v", p)
	}
}

func TestRender_States(t *testing.T) {
	if p := Render(Outcome{}); p.State != StateIdle || p.Title != IdleTitle {
		t.Errorf("unexpected idle panel: %+v", p)
	}
	if p := Render(Outcome{State: StateLoading}); p.Title != "Consulting Knowledge Base..." {
		t.Errorf("unexpected loading panel: %+v", p)
	}
	p := Render(Outcome{State: StateFailure, Reason: MsgServiceUnreachable})
	if p.Detail != MsgServiceUnreachable || p.Presentation != nil {
		t.Errorf("unexpected failure panel: %+v", p)
	}
}

func TestPanel_JSON(t *testing.T) {
	panel := Render(Outcome{State: StateSuccess, Result: &Result{
		Diagnoses: []Diagnosis{{Disease: "strep_throat", Treatment: "amoxicillin", Explanation: "x"}},
		Warnings:  []string{"alert_penicillin"},
	}})
	b, err := json.Marshal(panel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"state":"success"`, `"disease":"strep throat"`, `"code":"alert_penicillin"`, `"critical":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}
