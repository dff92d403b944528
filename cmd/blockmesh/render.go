package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#E74C3C")
	warnFg    = lipgloss.Color("#F39C12")
	borderCol = lipgloss.Color("#243141")

	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle = lipgloss.NewStyle().Foreground(errorFg).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
)

// render formats r for the terminal.
func render(r EvalResult) string {
	var b strings.Builder
	for _, e := range r.Errors {
		b.WriteString(errorStyle.Render("error: "+location(e)) + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString(warnStyle.Render("warning: "+location(w)) + "\n")
	}
	if len(r.Errors) > 0 {
		return b.String()
	}

	switch r.Kind {
	case "":
		b.WriteString(dimStyle.Render(fmt.Sprintf("no dataset (%d scene graph nodes)", r.Nodes)) + "\n")
		return b.String()
	case "number":
		b.WriteString(fmt.Sprintf("%g\n", *r.Number))
		return b.String()
	}

	lines := []string{titleStyle.Render(r.Kind)}
	for _, blk := range r.Blocks {
		name := blk.Path
		if name == "" {
			name = "(unnamed)"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(blk.Color)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s %s", swatch, name,
			dimStyle.Render(fmt.Sprintf("%s, %d points, %d cells", blk.Kind, blk.Points, blk.Cells))))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("total: %d blocks, %d points, %d cells", len(r.Blocks), r.Points, r.Cells)))
	if r.Bounds != nil {
		bb := r.Bounds
		lines = append(lines, dimStyle.Render(fmt.Sprintf("bounds: [%g, %g] x [%g, %g] x [%g, %g]",
			bb[0], bb[1], bb[2], bb[3], bb[4], bb[5])))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")) + "\n")
	return b.String()
}

func location(e EvalErrorData) string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}
