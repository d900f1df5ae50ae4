package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

func createViewport(item Item, style string, width, height int) viewport.Model {
	vp := viewport.New(width, height-4)
	vp.SetContent(renderItem(item, style, width))
	return vp
}

// renderMarkdown styles assistant markdown, falling back to plain wrapped text
func renderMarkdown(md, style string, wrap int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return wordwrap.String(md, wrap) + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return wordwrap.String(md, wrap) + "\n"
	}
	return out
}

func renderItem(item Item, style string, width int) string {
	conv := item.Conversation
	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Session: "+conv.SessionID) + "\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("Project: %s", conv.ProjectPath)) + "\n")
	branch := conv.GitBranch
	if branch == "" {
		branch = "N/A"
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("Branch: %s | %s", branch, formatTime(conv.Timestamp))) + "\n")
	if item.Score > 0 {
		b.WriteString(metaStyle.Render(fmt.Sprintf("Score: %.2f", item.Score)) + "\n")
	}
	b.WriteString(strings.Repeat("─", width) + "\n\n")

	b.WriteString(sectionStyle.Render("PROBLEM") + "\n")
	b.WriteString(wordwrap.String(item.Problem, wrap) + "\n\n")

	b.WriteString(sectionStyle.Render("SOLUTION") + "\n")
	b.WriteString(renderMarkdown(item.Solution, style, wrap))

	if len(item.Commands) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("COMMANDS (%d)", len(item.Commands))) + "\n")
		for _, cmd := range item.Commands {
			b.WriteString(commandStyle.Render("  $ "+cmd) + "\n")
		}
	}

	if len(item.Files) > 0 {
		b.WriteString("\n" + sectionStyle.Render("FILES") + "\n")
		b.WriteString("  " + strings.Join(item.Files, ", ") + "\n")
	}

	return b.String()
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = listView
		m.current = nil
		m.status = ""
		return m, nil

	case "c":
		if m.current != nil {
			return m, copyResumeCommand(*m.current, m.cfg, m.now(), m.clipboard)
		}
		return m, nil

	case "r":
		if m.current != nil {
			item := *m.current
			m.Launch = &item
			return m, tea.Quit
		}
		return m, nil

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	if m.current == nil {
		return "No session loaded"
	}

	content := m.viewport.View()

	footer := fmt.Sprintf("\n%3.f%%", m.viewport.ScrollPercent()*100)
	if m.status != "" {
		footer += "  " + statusStyle.Render(m.status)
	}
	footer += "\n" + helpStyle.Render("r: resume | c: copy resume command | j/k: scroll | g/G: top/bottom | esc: back | q: quit")

	return content + footer
}
