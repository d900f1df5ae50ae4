package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/cchistory/internal/core/daterange"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
)

const listTitleLen = 100

type resultListItem struct {
	item Item
}

func (i resultListItem) FilterValue() string {
	return i.item.Problem + " " + i.item.Conversation.ProjectPath
}

func (i resultListItem) Title() string {
	return excerpt.Truncate(strings.ReplaceAll(i.item.Problem, "\n", " "), listTitleLen)
}

func (i resultListItem) Description() string {
	conv := i.item.Conversation
	parts := []string{conv.ProjectPath}
	if i.item.Score > 0 {
		parts = append(parts, fmt.Sprintf("score %.2f", i.item.Score))
	}
	parts = append(parts, formatTime(conv.Timestamp))
	return strings.Join(parts, " | ")
}

// resultDelegate renders items with the browser's own selection styling
type resultDelegate struct {
	list.DefaultDelegate
}

func (d resultDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(resultListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := r.Title()
	desc := r.Description()

	if index == m.Index() {
		// Selected item
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	} else {
		// Normal item
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func listHeight(height int) int {
	return height - 3 // title, blank line, help text
}

func createResultList(items []Item, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = resultListItem{item: it}
	}

	delegate := resultDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(listItems, delegate, width, listHeight(height))
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.loaded {
		return m, nil
	}

	// Let the list own every key while the filter prompt is open
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if selected, ok := m.list.SelectedItem().(resultListItem); ok {
			item := selected.item
			m.current = &item
			m.viewport = createViewport(item, m.cfg.GlamourStyle, m.width, m.height)
			m.mode = detailView
			m.status = ""
		}
		return m, nil

	case "c":
		if selected, ok := m.list.SelectedItem().(resultListItem); ok {
			return m, copyResumeCommand(selected.item, m.cfg, m.now(), m.clipboard)
		}
		return m, nil

	case "r":
		if selected, ok := m.list.SelectedItem().(resultListItem); ok {
			item := selected.item
			m.Launch = &item
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	if !m.loaded {
		b.WriteString(itemStyle.Render("Scanning sessions...") + "\n")
	} else if len(m.items) == 0 {
		b.WriteString(itemStyle.Render("No conversations found") + "\n")
	} else {
		b.WriteString(m.list.View() + "\n")
	}

	helpText := "↑/k up • ↓/j down • enter open • r resume • c copy • / filter • q quit • ? more"
	if m.status != "" {
		helpText = statusStyle.Render(m.status)
	}
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func formatTime(timestamp string) string {
	t, ok := daterange.ParseTimestamp(timestamp, time.Local)
	if !ok {
		return "unknown date"
	}
	return humanize.Time(t)
}
