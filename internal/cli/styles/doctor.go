package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/nativeview/internal/deps"
)

type DoctorRenderer struct {
	theme *Theme
}

func NewDoctorRenderer(theme *Theme) *DoctorRenderer {
	return &DoctorRenderer{theme: theme}
}

// Render formats a runtime report as a header and one box of checks.
func (r *DoctorRenderer) Render(report deps.Report) string {
	lines := make([]string, 0, len(report.Checks)+1)
	if strings.TrimSpace(report.Prefix) != "" {
		lines = append(lines, fmt.Sprintf(
			"%s %s %s",
			r.theme.Subtle.Render("Prefix"),
			r.theme.Normal.Render(report.Prefix),
			r.theme.Subtle.Render("(pkg-config override)"),
		))
	}
	for _, c := range report.Checks {
		lines = append(lines, r.renderCheck(c))
	}

	header := r.theme.BoxHeader.Render(fmt.Sprintf("%s Runtime (%s)", r.theme.Highlight.Render(IconPackage), report.Platform))
	box := r.theme.Box.Render(header + "\n" + strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, r.renderHeader(report.OK), "", box)
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

func (r *DoctorRenderer) renderCheck(c deps.Status) string {
	icon := IconCheck
	statusStyle := r.theme.SuccessStyle
	status := "OK"
	var summary string

	switch {
	case !c.Installed:
		icon = IconX
		statusStyle = r.theme.ErrorStyle
		status = "Missing"
		summary = c.Error
	case !c.OK:
		icon = IconWarning
		statusStyle = r.theme.WarningStyle
		status = "Too old"
		summary = fmt.Sprintf("have %s, need >= %s", c.Version, c.RequiredVersion)
		if c.Error != "" {
			summary = c.Error
		}
	case c.RequiredVersion != "":
		summary = fmt.Sprintf("%s (>= %s)", c.Version, c.RequiredVersion)
	case c.Version != "":
		summary = c.Version
	default:
		summary = c.Target
	}

	name := r.theme.Normal.Render(c.Name)
	badge := r.theme.BadgeMuted.Render(statusStyle.Render(status))
	source := r.theme.Subtle.Render("[" + string(c.Source) + "]")
	info := r.theme.Subtle.Render(summary)

	return fmt.Sprintf("%s %s %s %s\n  %s", statusStyle.Render(icon), name, badge, source, info)
}
