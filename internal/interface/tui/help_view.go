package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = listView
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
Claude Code History Browser - Help
══════════════════════════════════

RESULT LIST
───────────
  ↑/↓, j/k     Navigate conversations
  Enter        View problem, solution and commands
  r            Resume conversation in Claude Code
  c            Copy resume command to clipboard
  /            Filter the list
  ?            Show this help
  q            Quit

CONVERSATION DETAIL
───────────────────
  r            Resume conversation in Claude Code
  c            Copy resume command to clipboard
  j/k          Scroll line by line
  g/G          Jump to top/bottom
  esc          Back to result list
  q            Back to result list

Press esc to return to the result list
`

	return helpStyle.Render(help)
}
