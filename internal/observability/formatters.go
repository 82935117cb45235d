// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/latexpreview"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintResume outputs a human-readable summary of the resume and the
// template it is shown with.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResume(r *types.Resume, selected templates.Kind) {
	if r == nil {
		fmt.Fprintln(p.out, templates.NoResumeMessage)
		return
	}

	var sb strings.Builder
	info := r.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:      %s\n", info.FullName()))
	sb.WriteString(fmt.Sprintf("Email:     %s\n", info.Email))
	sb.WriteString(fmt.Sprintf("Phone:     %s\n", info.Phone))
	if info.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", info.Location))
	}
	template := "(none)"
	if selected.Valid() {
		template = selected.String()
	}
	sb.WriteString(fmt.Sprintf("Template:  %s\n", template))
	if !r.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Updated:   %s\n", r.UpdatedAt.Format("2006-01-02 15:04")))
	}
	sb.WriteString("\n")

	experience := make([]string, 0, len(r.Experience))
	for _, e := range r.Experience {
		experience = append(experience, fmt.Sprintf("%s, %s", e.Position, e.Company))
	}
	writeList(&sb, "Experience", experience, maxItemsToShow)

	education := make([]string, 0, len(r.Education))
	for _, e := range r.Education {
		education = append(education, fmt.Sprintf("%s, %s", e.Degree, e.Institution))
	}
	writeList(&sb, "Education", education, maxItemsToShow)

	skills := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, fmt.Sprintf("%s (%s)", s.Name, s.Level))
	}
	writeList(&sb, "Skills", skills, maxItemsToShow)

	projects := make([]string, 0, len(r.Projects))
	for _, pr := range r.Projects {
		projects = append(projects, pr.Name)
	}
	writeList(&sb, "Projects", projects, 3)

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintFieldErrors outputs the inline errors of a rejected form.
func (p *Printer) PrintFieldErrors(err *validation.FormError) {
	if err == nil || len(err.Fields) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(err.Fields)))
	for i, f := range err.Fields {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", f.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Message))
		if i < len(err.Fields)-1 {
			sb.WriteString("\n")
		}
	}

	title := "INVALID FORM"
	if err.Section != "" {
		title = fmt.Sprintf("INVALID FORM (%s)", err.Section)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnostics outputs the constructs the LaTeX preview dropped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDiagnostics(diags []latexpreview.Diagnostic) {
	if len(diags) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO UNSUPPORTED COMMANDS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dropped %d constructs:\n\n", len(diags)))

	count := min(len(diags), maxItemsToShow)
	for i := 0; i < count; i++ {
		d := diags[i]
		sb.WriteString(fmt.Sprintf("⚠ %s at offset %d\n", d.Command, d.Offset))
		if d.DroppedText != "" {
			sb.WriteString(fmt.Sprintf("  lost: %s\n", d.DroppedText))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(diags) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(diags)-maxItemsToShow))
	}

	p.printBox("UNSUPPORTED COMMANDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutline outputs the heading structure of a converted document.
func (p *Printer) PrintOutline(headings []latexpreview.Heading) {
	if len(headings) == 0 {
		return
	}

	var sb strings.Builder
	for _, h := range headings {
		sb.WriteString(strings.Repeat("  ", max(h.Level-1, 0)))
		sb.WriteString(h.Text)
		sb.WriteString("\n")
	}
	p.printBox("OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates lists the template gallery, marking the selected one.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTemplates(selected templates.Kind) {
	for _, k := range templates.All() {
		marker := " "
		if k == selected {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %-16s %s\n", marker, k.String(), k.DisplayName())
	}
}
