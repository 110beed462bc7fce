package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles for one color scheme. Two are built in,
// matching the dark-mode setting.
type Theme struct {
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	Removed     lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	StatusBar   lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
}

func darkTheme() Theme {
	return Theme{
		Tab:         lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245")),
		TabActive:   lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("212")).Underline(true),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Row:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		RowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")),
		Removed:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		StatusBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")),

		ToastSuccess: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28")),
		ToastError:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")),
		ToastInfo:    lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")),
	}
}

func lightTheme() Theme {
	return Theme{
		Tab:         lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("241")),
		TabActive:   lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("90")).Underline(true),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("90")),
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Row:         lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		RowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("99")),
		Removed:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("250")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("124")),
		StatusBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Background(lipgloss.Color("254")),

		ToastSuccess: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28")),
		ToastError:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")),
		ToastInfo:    lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")),
	}
}

// themeFor picks the theme matching the persisted dark-mode setting.
func themeFor(dark bool) Theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}
