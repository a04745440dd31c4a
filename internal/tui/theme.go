package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the record table. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	CursorForeground   lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color

	SuccessText lipgloss.Color
	ErrorText   lipgloss.Color
}

// DefaultTheme suits dark terminals.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("24"),
	SelectedForeground: lipgloss.Color("231"),
	CursorForeground:   lipgloss.Color("214"),
	HeaderForeground:   lipgloss.Color("111"),
	BorderColor:        lipgloss.Color("238"),
	SuccessText:        lipgloss.Color("114"),
	ErrorText:          lipgloss.Color("203"),
}
