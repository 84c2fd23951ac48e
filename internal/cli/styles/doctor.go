package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DoctorCheck is the outcome of one environment probe.
type DoctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
	// Hint suggests a fix when the check failed.
	Hint string `json:"hint,omitempty"`
}

// DoctorReport aggregates every check.
type DoctorReport struct {
	OverallOK bool          `json:"ok"`
	Checks    []DoctorCheck `json:"checks"`
}

// DoctorRenderer renders a DoctorReport with the theme.
type DoctorRenderer struct {
	theme *Theme
}

// NewDoctorRenderer creates a doctor renderer.
func NewDoctorRenderer(theme *Theme) *DoctorRenderer {
	return &DoctorRenderer{theme: theme}
}

// Render renders the full report.
func (r *DoctorRenderer) Render(report DoctorReport) string {
	header := r.renderHeader(report.OverallOK)

	lines := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		lines = append(lines, r.renderCheck(c))
	}
	body := r.theme.Box.Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (r *DoctorRenderer) renderHeader(ok bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	statusStyle := r.theme.SuccessStyle
	statusText := "OK"
	if !ok {
		statusStyle = r.theme.WarningStyle
		statusText = "Needs attention"
	}

	title := fmt.Sprintf("%s %s", iconStyle.Render(IconDoctor), r.theme.Title.Render("Doctor"))
	badge := r.theme.BadgeMuted.Render(statusStyle.Render(statusText))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (r *DoctorRenderer) renderCheck(c DoctorCheck) string {
	icon := r.theme.SuccessStyle.Render(IconCheck)
	if !c.OK {
		icon = r.theme.ErrorStyle.Render(IconX)
	}

	line := fmt.Sprintf("%s %s", icon, r.theme.Normal.Render(c.Name))
	if c.Detail != "" {
		line += "  " + r.theme.Subtle.Render(c.Detail)
	}
	if c.Error != "" {
		line += "\n    " + r.theme.ErrorStyle.Render(c.Error)
	}
	if !c.OK && c.Hint != "" {
		line += "\n    " + r.theme.Subtle.Render("hint: "+c.Hint)
	}
	return line
}
