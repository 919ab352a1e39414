// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/agent-registration/internal/assembly"
	"github.com/jonathan/agent-registration/internal/types"
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMappingSummary outputs a human-readable summary of a classified form.
func (p *Printer) PrintMappingSummary(form *types.RegistrationForm) {
	if form == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("State:    %s\n", form.StateName))
	if form.FileName != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", form.FileName))
	}
	sb.WriteString(fmt.Sprintf("Fields:   %d detected, %d mapped\n", len(form.DetectedFields), form.MappedCount()))
	sb.WriteString("\n")

	if len(form.DetectedFields) > 0 {
		sb.WriteString("Mappings:\n")
		shown := 0
		for _, field := range form.DetectedFields {
			entry, ok := form.Mappings[field.Name]
			if !ok || entry.Target.IsSkip() {
				continue
			}
			if shown == maxItemsToShow {
				break
			}
			shown++

			name := field.Name
			if len(name) > 20 {
				name = name[:17] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s → %s", name, entry.Target))
			if entry.Manual {
				sb.WriteString(" (manual)")
			}
			sb.WriteString("\n")
		}
		if remaining := form.MappedCount() - shown; remaining > 0 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
		}
		sb.WriteString("\n")
	}

	if len(form.AddendumSlots) > 0 {
		sb.WriteString("Addendum Slots:\n")
		for i, slot := range form.AddendumSlots {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, types.AddendumLabels[slot]))
		}
	}

	p.printBox("FORM CLASSIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGenerationReport outputs the outcome of one document generation.
func (p *Printer) PrintGenerationReport(result *assembly.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", result.Stage))
	if result.FileName != "" {
		sb.WriteString(fmt.Sprintf("Output:   %s\n", result.FileName))
	}
	if result.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", result.PageCount))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Fields filled:  %d\n", result.FieldsFilled))
	if len(result.FieldFailures) > 0 {
		sb.WriteString(fmt.Sprintf("Field failures: %d\n", len(result.FieldFailures)))
		count := min(len(result.FieldFailures), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", result.FieldFailures[i]))
		}
		if len(result.FieldFailures) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.FieldFailures)-3))
		}
	}
	if result.OverlaysDrawn > 0 || result.OverlayFailures > 0 {
		sb.WriteString(fmt.Sprintf("Overlays drawn: %d (%d failed)\n", result.OverlaysDrawn, result.OverlayFailures))
	}
	sb.WriteString(fmt.Sprintf("Slots merged:   %d\n", result.SlotsMerged))

	if len(result.SkippedSlots) > 0 {
		sb.WriteString("\nSkipped addendums:\n")
		for _, skipped := range result.SkippedSlots {
			sb.WriteString(fmt.Sprintf("  ⚠ %s (%s)\n", types.AddendumLabels[skipped.Kind], skipped.Reason))
		}
	}

	p.printBox("GENERATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAgentSummary outputs a short profile summary before generation.
func (p *Printer) PrintAgentSummary(agent *types.Agent) {
	if agent == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", agent.DisplayName()))
	if agent.BusinessName != "" {
		sb.WriteString(fmt.Sprintf("Business: %s\n", agent.BusinessName))
	}

	if len(agent.Addendums) > 0 {
		sb.WriteString("\nAddendums on file:\n")
		for _, kind := range types.AddendumKinds {
			add, ok := agent.Addendums[kind]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", types.AddendumLabels[kind], add.Name))
		}
	}

	p.printBox("AGENT PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
