package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/adcon/internal/version"
)

// Color palette
var (
	PrimaryColor    = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor  = lipgloss.Color("#43BF6D") // Green
	WarningColor    = lipgloss.Color("#FFA500") // Orange
	ErrorColor      = lipgloss.Color("#FF0000") // Red
	TextColor       = lipgloss.Color("#FAFAFA") // Light text
	SubtleColor     = lipgloss.Color("#626262") // Gray
	BorderColor     = lipgloss.Color("#874BFD") // Purple border
	HighlightColor  = lipgloss.Color("#EE6FF8") // Pink highlight
	BackgroundColor = lipgloss.Color("#1A1A1A") // Dark background
)

// AppName is the application name shown in the header
const AppName = "adcon"

// AppVersion returns the current application version
func AppVersion() string {
	return version.Version
}

// Common styles used across all screens
var (
	// TitleStyle for screen titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle for section headers
	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			MarginTop(1).
			MarginBottom(1)

	// SelectedItemStyle for the focused list row
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// NormalItemStyle for unfocused list rows
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// HelpStyle for help text at the bottom
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	// WarningStyle for warnings and notices
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)

	// InfoBoxStyle for informational boxes
	InfoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	// SpinnerStyle for progress spinners
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// BoxStyle for content boxes
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// ModalStyle for dialog overlays
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 3)

	// FocusedInputStyle for the active text input
	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(HighlightColor)

	// LabelStyle for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// InvalidFieldStyle marks a field that failed validation
	InvalidFieldStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)
)

// RenderTitle renders a screen title
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// RenderSubtitle renders a section header
func RenderSubtitle(subtitle string) string {
	return SubtitleStyle.Render(subtitle)
}

// RenderHelp renders help text
func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}

// RenderError renders an error message
func RenderError(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// RenderSuccess renders a success message
func RenderSuccess(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// RenderWarning renders a warning message
func RenderWarning(msg string) string {
	return WarningStyle.Render("⚠ " + msg)
}

// RenderInfo renders an informational box
func RenderInfo(content string) string {
	return InfoBoxStyle.Render(content)
}

// BuildHeaderContent creates the header content string with app name,
// version, and the signed-in operator (empty before login).
func BuildHeaderContent(operator string) string {
	left := lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		Render(AppName + " v" + AppVersion())

	if operator == "" {
		return left
	}

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render("signed in as " + operator)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// RenderApplicationContainer is the wrapper for all screens. It provides
// the full-terminal panel: bordered container, application header,
// context-sensitive footer. Every screen's View builds its content and
// hands it here together with its help text.
func RenderApplicationContainer(content, footerText, operator string, terminalWidth, terminalHeight int) string {
	header := BuildHeaderContent(operator)
	footer := BuildFooterContent(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)
	styledHeader := headerStyle.Render(header)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)
	styledFooter := footerStyle.Render(footer)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)
	styledContent := contentStyle.Render(content)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styledHeader,
		styledContent,
		styledFooter,
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top)

	bordered := borderStyle.Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}

// RenderModal centers a dialog box over the terminal. The underlying
// screen is replaced rather than composited; dialogs are exclusive.
func RenderModal(content string, terminalWidth, terminalHeight int) string {
	box := ModalStyle.Render(content)
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
