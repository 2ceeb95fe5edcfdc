// Package observability provides structured logging, Prometheus metrics and
// formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/proposal-pages/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

type sectionSummary struct {
	name    string
	present bool
	hidden  bool
	items   int
}

func summarize(pd *types.ProposalData) []sectionSummary {
	s := []sectionSummary{{name: "introduction", present: pd.Introduction != nil}}
	if pd.AboutUs != nil {
		s = append(s, sectionSummary{name: "aboutUs", present: true, hidden: pd.AboutUs.HideSection})
	} else {
		s = append(s, sectionSummary{name: "aboutUs"})
	}
	if pd.Team != nil {
		s = append(s, sectionSummary{name: "team", present: true, hidden: pd.Team.HideSection, items: len(types.Visible(pd.Team.Members))})
	} else {
		s = append(s, sectionSummary{name: "team"})
	}
	if pd.Expertise != nil {
		s = append(s, sectionSummary{name: "expertise", present: true, hidden: pd.Expertise.HideSection, items: len(types.Visible(pd.Expertise.Topics))})
	} else {
		s = append(s, sectionSummary{name: "expertise"})
	}
	if pd.Results != nil {
		s = append(s, sectionSummary{name: "results", present: true, hidden: pd.Results.HideSection, items: len(types.Visible(pd.Results.Items))})
	} else {
		s = append(s, sectionSummary{name: "results"})
	}
	if pd.Testimonials != nil {
		s = append(s, sectionSummary{name: "testimonials", present: true, hidden: pd.Testimonials.HideSection, items: len(types.Visible(pd.Testimonials.Items))})
	} else {
		s = append(s, sectionSummary{name: "testimonials"})
	}
	if pd.Steps != nil {
		s = append(s, sectionSummary{name: "steps", present: true, hidden: pd.Steps.HideSection, items: len(types.Visible(pd.Steps.Topics))})
	} else {
		s = append(s, sectionSummary{name: "steps"})
	}
	if pd.Investment != nil {
		s = append(s, sectionSummary{name: "investment", present: true, hidden: pd.Investment.HideSection})
	} else {
		s = append(s, sectionSummary{name: "investment"})
	}
	if pd.Plans != nil {
		s = append(s, sectionSummary{name: "plans", present: true, hidden: pd.Plans.HideSection, items: len(types.Visible(pd.Plans.Items))})
	} else {
		s = append(s, sectionSummary{name: "plans"})
	}
	if pd.FAQ != nil {
		s = append(s, sectionSummary{name: "faq", present: true, hidden: pd.FAQ.HideSection, items: len(types.Visible(pd.FAQ.Items))})
	} else {
		s = append(s, sectionSummary{name: "faq"})
	}
	s = append(s, sectionSummary{name: "footer", present: pd.Footer != nil})
	return s
}

// PrintPayloadSummary outputs which sections a payload carries and how many
// visible items each list will render.
func (p *Printer) PrintPayloadSummary(payload *types.Payload) {
	if payload == nil {
		return
	}

	var sb strings.Builder
	if payload.ProjectValidUntil != nil {
		sb.WriteString(fmt.Sprintf("Valid until: %s\n", *payload.ProjectValidUntil))
	}
	if bc := payload.ButtonConfig; bc != nil {
		sb.WriteString(fmt.Sprintf("Button:      %s (%s)\n", types.Deref(bc.ButtonTitle), types.Deref(bc.ButtonWhereToOpen)))
	}
	if payload.ProposalData == nil {
		sb.WriteString("No proposal data; the template will render unpopulated.")
		p.printBox("PAYLOAD SUMMARY", sb.String())
		return
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}

	for _, s := range summarize(payload.ProposalData) {
		switch {
		case !s.present:
			sb.WriteString(fmt.Sprintf("  ○ %s\n", s.name))
		case s.hidden:
			sb.WriteString(fmt.Sprintf("  ✗ %s (hidden)\n", s.name))
		case s.items > 0:
			sb.WriteString(fmt.Sprintf("  ✓ %s (%d items)\n", s.name, s.items))
		default:
			sb.WriteString(fmt.Sprintf("  ✓ %s\n", s.name))
		}
	}

	p.printBox("PAYLOAD SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrunedFields outputs the fields dropped during payload normalization.
func (p *Printer) PrintPrunedFields(fields []string) {
	if len(fields) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d invalid fields treated as no value:\n\n", len(fields)))
	count := min(len(fields), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", fields[i]))
	}
	if len(fields) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fields)-maxItemsToShow))
	}

	p.printBox("PRUNED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRenderResult outputs where a rendered document was written.
func (p *Printer) PrintRenderResult(template, path string, bytes, warnings int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Template: %s\n", template))
	sb.WriteString(fmt.Sprintf("Output:   %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes\n", bytes))
	if warnings > 0 {
		sb.WriteString(fmt.Sprintf("⚠ %d payload fields had no anchor", warnings))
	} else {
		sb.WriteString("✓ every field found its anchor")
	}
	p.printBox("RENDERED", sb.String())
}
