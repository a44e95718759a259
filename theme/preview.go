package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"base16builder/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	authorStyle = lipgloss.NewStyle().Faint(true)
)

// RenderSwatches draws the sixteen colours of p as coloured cells.
func RenderSwatches(p model.Palette) string {
	var sb strings.Builder
	for _, c := range p.Colors {
		sb.WriteString(lipgloss.NewStyle().Background(lipgloss.Color("#" + c.Hex)).Render("  "))
	}
	return sb.String()
}

// RenderList formats palettes one per line: slug, swatches, name and
// author.
func RenderList(palettes []model.Palette) string {
	width := len("slug")
	for _, p := range palettes {
		if len(p.Slug) > width {
			width = len(p.Slug)
		}
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(pad("slug", width) + "  " + pad("palette", 2*model.ColorCount) + "  name"))
	sb.WriteByte('\n')
	for _, p := range palettes {
		sb.WriteString(pad(p.Slug, width))
		sb.WriteString("  ")
		sb.WriteString(RenderSwatches(p))
		sb.WriteString("  ")
		sb.WriteString(p.Name)
		if p.Author != "" {
			sb.WriteString(" ")
			sb.WriteString(authorStyle.Render("(" + p.Author + ")"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
