package console

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles used for interactive output
type Styles struct {
	Title    lipgloss.Style
	Product  lipgloss.Style
	Question lipgloss.Style
	Prompt   lipgloss.Style
	Working  lipgloss.Style
	Review   lipgloss.Style
	Stars    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the default console styles
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Product:  lipgloss.NewStyle().Bold(true),
		Question: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Working:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
		Review:   lipgloss.NewStyle().PaddingLeft(2),
		Stars:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Icons used in console output
const (
	IconSuccess = "✓"
	IconWarning = "⚠️ "
	IconError   = "✗"
	IconStar    = "★"
	IconNoStar  = "☆"
)
