package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"epics-require/internal/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(2)
			}
			return cellStyle
		})
}

// renderModules prints loaded modules in load order, newest first.
func renderModules(modules []types.LoadedModule) string {
	if len(modules) == 0 {
		return dimStyle.Render("no modules loaded") + "\n"
	}
	t := newTable("MODULE", "VERSION")
	for _, module := range modules {
		t.Row(module.Name, module.Version)
	}
	return strings.TrimRight(t.Render(), "\n") + "\n"
}

func renderVersions(versions []types.InstalledVersion) string {
	if len(versions) == 0 {
		return dimStyle.Render("no versions installed") + "\n"
	}
	t := newTable("VERSION", "AVAILABLE", "PATH")
	for _, version := range versions {
		available := "no"
		if version.Available {
			available = "yes"
		}
		t.Row(version.Name, available, version.Path)
	}
	return strings.TrimRight(t.Render(), "\n") + "\n"
}
