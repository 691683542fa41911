package markup

import (
	"github.com/charmbracelet/lipgloss"
)

// TerminalPrinter renders for an interactive terminal. Icons are plain
// {name} tokens so they compare equal across calls; bold and italics are
// lipgloss styles, which degrade to plain text when output is not a TTY.
type TerminalPrinter struct {
	bold    lipgloss.Style
	italics lipgloss.Style
	link    lipgloss.Style
}

// NewTerminalPrinter returns a terminal printer
func NewTerminalPrinter() *TerminalPrinter {
	return &TerminalPrinter{
		bold:    lipgloss.NewStyle().Bold(true),
		italics: lipgloss.NewStyle().Italic(true),
		link:    lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
	}
}

// Iconify renders {name}
func (p *TerminalPrinter) Iconify(name string, specialChars bool) string {
	return "{" + IconName(name, specialChars) + "}"
}

// Bold renders text in bold
func (p *TerminalPrinter) Bold(text string) string {
	return p.bold.Render(text)
}

// Italics renders text in italics
func (p *TerminalPrinter) Italics(text string) string {
	return p.italics.Render(text)
}

// WikiLink renders the card name underlined; terminals have no link syntax
func (p *TerminalPrinter) WikiLink(name string) string {
	return p.link.Render(name)
}

// ConvertHTML converts ability HTML to styled lines
func (p *TerminalPrinter) ConvertHTML(fragment string) []string {
	return convertHTML(p, fragment)
}

// IconPattern matches {name}
func (p *TerminalPrinter) IconPattern() string {
	return `\{[^{}\s]+\}`
}
