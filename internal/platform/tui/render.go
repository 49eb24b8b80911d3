package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/doctordroid/intake/internal/domain/consultation"
)

// WritePanel renders a consultation panel as plain text.
func WritePanel(w io.Writer, panel consultation.Panel) {
	var b strings.Builder

	if panel.Title != "" {
		b.WriteString(panel.Title)
		b.WriteString("\n")
	}
	if panel.Detail != "" {
		b.WriteString(panel.Detail)
		b.WriteString("\n")
	}

	if p := panel.Presentation; p != nil {
		if p.ShowWarnings {
			b.WriteString("\nSAFETY WARNINGS\n")
			for _, warn := range p.Warnings {
				marker := "-"
				if warn.Critical() {
					marker = "!"
				}
				fmt.Fprintf(&b, "  %s %s\n", marker, warn.Text())
			}
		}
		if !p.NoMatch {
			b.WriteString("\nDIAGNOSES\n")
			for i, d := range p.Diagnoses {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, d.Disease)
				fmt.Fprintf(&b, "     Treatment: %s\n", d.Treatment)
				if d.Explanation != "" {
					fmt.Fprintf(&b, "     %s\n", d.Explanation)
				}
			}
		}
	}

	io.WriteString(w, b.String())
}
