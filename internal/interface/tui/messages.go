package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/cchistory/internal/core/config"
	"github.com/neilberkman/cchistory/internal/core/session"
)

type errMsg struct {
	err error
}

type itemsLoadedMsg struct {
	items []Item
}

type copiedMsg struct {
	success bool
	message string
}

func loadItems(load Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := load()
		if err != nil {
			return errMsg{err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func copyResumeCommand(item Item, cfg *config.Config, now time.Time, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		cmd, err := session.BuildResumeCommand(item.Conversation, cfg, now)
		if err != nil {
			return errMsg{err}
		}

		// Use cross-platform clipboard library
		if err := write(cmd); err != nil {
			// Fallback: show the command so it can be copied by hand
			return copiedMsg{success: false, message: "Command: " + cmd}
		}

		return copiedMsg{success: true, message: "Resume command copied to clipboard!"}
	}
}
