package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config status messages.
type ConfigRenderer struct {
	theme *Theme
}

func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPath renders the config file location and whether it exists.
func (r *ConfigRenderer) RenderPath(path string, exists bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	note := r.theme.SuccessStyle.Render("exists")
	if !exists {
		note = r.theme.WarningStyle.Render("not created yet")
	}
	return fmt.Sprintf("%s Config %s %s", iconStyle.Render(IconConfig), r.theme.Subtle.Render(path), note)
}
