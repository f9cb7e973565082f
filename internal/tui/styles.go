package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/mAF/foundation/monkey/token"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorInfo      = lipgloss.Color("#06B6D4")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	EchoStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Bold(true)

	ProgramStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(colorError)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Token category styles
	keywordStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	operatorStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	delimiterStyle = lipgloss.NewStyle().Foreground(colorMuted)
	literalStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	illegalStyle   = lipgloss.NewStyle().Foreground(colorError).Underline(true)
)

// TokenStyle picks the style for a token kind name
func TokenStyle(kindName string) lipgloss.Style {
	kind, ok := token.ParseKind(kindName)
	switch {
	case !ok || kind == token.ILLEGAL:
		return illegalStyle
	case kind.IsKeyword():
		return keywordStyle
	case kind.IsOperator():
		return operatorStyle
	case kind.IsDelimiter():
		return delimiterStyle
	default:
		return literalStyle
	}
}

func RenderError(err string) string {
	return ErrorMessageStyle.Render("Fehler: " + err)
}

func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}
