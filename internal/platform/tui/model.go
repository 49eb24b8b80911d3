// Package tui is the interactive terminal front end: a catalog picker with
// the consultation panel underneath.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/domain/selection"
)

// settledMsg carries the outcome of an engine call back into Update.
type settledMsg struct {
	attempt *consultation.Attempt
	result  *consultation.Result
	err     error
}

// Model is the bubbletea model for one operator session.
type Model struct {
	ctx     context.Context
	catalog *catalog.Catalog
	store   *selection.Store
	ctrl    *consultation.Controller

	section catalog.Kind
	cursor  map[catalog.Kind]int
	notice  string
}

func NewModel(ctx context.Context, cat *catalog.Catalog, store *selection.Store, ctrl *consultation.Controller) Model {
	return Model{
		ctx:     ctx,
		catalog: cat,
		store:   store,
		ctrl:    ctrl,
		section: catalog.KindSymptom,
		cursor:  map[catalog.Kind]int{catalog.KindSymptom: 0, catalog.KindAllergy: 0},
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settledMsg:
		m.ctrl.Settle(msg.attempt, msg.result, msg.err)
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c", "q":
			m.ctrl.Cancel()
			return m, tea.Quit
		case "tab":
			if m.section == catalog.KindSymptom {
				m.section = catalog.KindAllergy
			} else {
				m.section = catalog.KindSymptom
			}
		case "up", "k":
			if m.cursor[m.section] > 0 {
				m.cursor[m.section]--
			}
		case "down", "j":
			if m.cursor[m.section] < len(m.catalog.Entries(m.section))-1 {
				m.cursor[m.section]++
			}
		case " ", "space", "x":
			m.toggle()
		case "enter":
			cmd := m.submit()
			return m, cmd
		case "esc":
			if m.ctrl.Cancel() {
				m.notice = "consultation cancelled"
			}
		case "r":
			m.store.Reset()
		}
	}
	return m, nil
}

func (m Model) toggle() {
	entries := m.catalog.Entries(m.section)
	if len(entries) == 0 {
		return
	}
	id := entries[m.cursor[m.section]].ID
	if m.section == catalog.KindSymptom {
		m.store.ToggleSymptom(id)
	} else {
		m.store.ToggleAllergy(id)
	}
}

// submit starts a consultation and returns the command that performs the
// engine call off the update loop.
func (m *Model) submit() tea.Cmd {
	attempt, err := m.ctrl.Begin(m.ctx)
	if errors.Is(err, consultation.ErrSubmissionInFlight) {
		m.notice = "a consultation is already in progress"
		return nil
	}
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		res, err := attempt.Run()
		return settledMsg{attempt: attempt, result: res, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Doctor Droid - clinical intake\n\n")
	m.writeSection(&b, "Symptoms", catalog.KindSymptom, m.store.HasSymptom)
	b.WriteString("\n")
	m.writeSection(&b, "Known allergies", catalog.KindAllergy, m.store.HasAllergy)

	fmt.Fprintf(&b, "\n%d selected", m.store.SymptomCount())
	switch {
	case m.ctrl.Loading():
		b.WriteString("  [running diagnostics]")
	case !m.ctrl.CanSubmit():
		b.WriteString("  [select a symptom to run diagnostics]")
	}
	b.WriteString("\n\n")

	WritePanel(&b, consultation.Render(m.ctrl.Outcome()))

	if m.notice != "" {
		fmt.Fprintf(&b, "\n%s\n", m.notice)
	}
	b.WriteString("\nspace toggle  tab switch list  enter run diagnostics  esc cancel  r reset  q quit\n")
	return b.String()
}

func (m Model) writeSection(b *strings.Builder, title string, kind catalog.Kind, selected func(string) bool) {
	b.WriteString(title)
	b.WriteString("\n")
	for i, e := range m.catalog.Entries(kind) {
		pointer := " "
		if m.section == kind && m.cursor[kind] == i {
			pointer = ">"
		}
		check := " "
		if selected(e.ID) {
			check = "x"
		}
		fmt.Fprintf(b, "%s [%s] %s\n", pointer, check, e.Label)
	}
}
