package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBrand = "#1DB954"
	colorOK    = "#04B575"
	colorError = "#E22134"
	colorMiss  = "#FFA500"
	colorMuted = "#626262"
)

var styles = palette{
	title: fg(colorBrand).Bold(true).MarginBottom(1),
	ok:    fg(colorOK).Bold(true),
	err:   fg(colorError).Bold(true),
	warn:  fg(colorMiss),
	help:  fg(colorMuted).Italic(true),
	count: fg(colorBrand).Bold(true),
}

// palette holds the named styles the views render with.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	count lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// mark is green for a playlist with every song found and amber otherwise.
func mark(missing int) string {
	if missing == 0 {
		return styles.ok.Render("✓")
	}
	return styles.warn.Render("✓")
}

// stat renders "label: n" with the number highlighted.
func stat(label string, n int) string {
	return fmt.Sprintf("%s: %s", label, styles.count.Render(fmt.Sprint(n)))
}
