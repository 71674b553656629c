package tui

import (
	"fmt"
	"strings"
)

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHero())
	b.WriteString("\n")

	switch m.stage {
	case stageGenerating:
		b.WriteString(fmt.Sprintf("%s Generating documentation for %q…\n", m.spinner.View(), m.sessionLabel()))
		b.WriteString(helperStyle.Render("Three pipeline stages run in sequence; this can take a minute."))
		b.WriteString("\n")
	case stageFailed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Generation failed: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("Press q to quit."))
		b.WriteString("\n")
	case stageDisplay:
		m.refreshViewportIfDirty()
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *model) renderHero() string {
	title := heroTitleStyle.Render("tracescribe")
	box := heroBoxStyle.Render(title + "  " + taglineStyle.Render(heroTagline))
	return box + "\n"
}

func (m *model) renderStatusBar() string {
	left := m.infoMessage
	if left == "" {
		left = m.sessionLabel()
	}
	help := "↑/↓ scroll · g/G top/bottom · s save · q quit"
	if m.stage != stageDisplay {
		help = "q quit"
	}
	return statusBarStyle.Render(left) + "  " + helperStyle.Render(help)
}

func (m *model) sessionLabel() string {
	if m.config.Session.Title != "" {
		return m.config.Session.Title
	}
	if m.config.Session.ID != "" {
		return m.config.Session.ID
	}
	return "unsaved session"
}
