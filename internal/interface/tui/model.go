package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/cchistory/internal/core/config"
	"github.com/neilberkman/cchistory/internal/core/excerpt"
	"github.com/neilberkman/cchistory/internal/core/search"
	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

type viewMode int

const (
	listView viewMode = iota
	detailView
	helpView
)

// Item is one conversation shown in the browser
type Item struct {
	Conversation *ccsessions.Conversation
	Score        float64 // 0 when listed without a query
	Problem      string
	Solution     string
	Commands     []string
	Files        []string
}

// ItemsFromResults converts ranked search results
func ItemsFromResults(results []search.Result) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			Conversation: r.Conversation,
			Score:        r.Score,
			Problem:      r.Problem,
			Solution:     r.Solution,
			Commands:     r.Commands,
			Files:        excerpt.FilesTouched(r.Conversation),
		})
	}
	return items
}

// ItemsFromConversations converts unranked conversations, e.g. a day's digest
func ItemsFromConversations(convs []*ccsessions.Conversation) []Item {
	items := make([]Item, 0, len(convs))
	for _, conv := range convs {
		items = append(items, Item{
			Conversation: conv,
			Problem:      excerpt.Problem(conv),
			Solution:     excerpt.Solution(assistantMessages(conv)),
			Commands:     excerpt.Commands(conv),
			Files:        excerpt.FilesTouched(conv),
		})
	}
	return items
}

func assistantMessages(conv *ccsessions.Conversation) []*ccsessions.Message {
	var msgs []*ccsessions.Message
	for i := range conv.Messages {
		if conv.Messages[i].Role == ccsessions.RoleAssistant {
			msgs = append(msgs, &conv.Messages[i])
		}
	}
	return msgs
}

// Loader produces the items to browse
type Loader func() ([]Item, error)

type Model struct {
	load     Loader
	cfg      *config.Config
	title    string
	mode     viewMode
	list     list.Model
	viewport viewport.Model
	width    int
	height   int
	err      error
	status   string

	loaded  bool
	items   []Item
	current *Item

	now       func() time.Time
	clipboard func(string) error

	// Launch is set when the user asked to resume a conversation on exit
	Launch *Item
}

// New creates a browser titled title over the items returned by load
func New(load Loader, cfg *config.Config, title string) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	return Model{
		load:      load,
		cfg:       cfg,
		title:     title,
		mode:      listView,
		width:     80,
		height:    24,
		now:       time.Now,
		clipboard: clipboard.WriteAll,
	}
}

func (m Model) Init() tea.Cmd {
	return loadItems(m.load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.loaded {
			m.list.SetSize(msg.Width, listHeight(msg.Height))
		}
		if m.current != nil {
			m.viewport = createViewport(*m.current, m.cfg.GlamourStyle, m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == listView && m.loaded && m.list.FilterState() == list.Filtering {
			return m.updateList(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.mode == listView {
				return m, tea.Quit
			}
			// In other views, go back to list
			m.mode = listView
			return m, nil

		case "?":
			m.mode = helpView
			return m, nil
		}

		// Mode-specific key handling
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case detailView:
			return m.updateDetail(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case itemsLoadedMsg:
		m.loaded = true
		m.items = msg.items
		m.list = createResultList(msg.items, m.width, m.height)
		return m, nil

	case copiedMsg:
		m.status = msg.message
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case detailView:
		return m.viewDetail()
	case helpView:
		return m.viewHelp()
	}

	return ""
}
