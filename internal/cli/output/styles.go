package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Visible and Hidden mark component visibility
	Visible lipgloss.Style
	Hidden  lipgloss.Style
	// Highlight marks highlighted interaction markers
	Highlight lipgloss.Style
}

// DefaultStyles returns the styles used on a terminal.
func DefaultStyles() *Styles {
	return &Styles{
		Header1:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   lipgloss.NewStyle().Bold(true),
		Bold:      lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Visible:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Hidden:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1:   plain,
		Header2:   plain,
		Bold:      plain,
		Muted:     plain,
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Info:      plain,
		Visible:   plain,
		Hidden:    plain,
		Highlight: plain,
	}
}
