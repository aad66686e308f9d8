package chat

import (
	"errors"
	"strings"

	"finsight/internal/conversation"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// Update is the bubbletea message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleResize(msg)

	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}
		m = model

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.waiting {
			// Pick up the optimistically appended user message while
			// the request is still in flight.
			m.refreshViewport()
		}

	case sendDoneMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			if errors.Is(msg.err, conversation.ErrBusy) {
				// The rejected draft goes back into the input instead
				// of being lost.
				m.textarea.SetValue(msg.draft)
			}
		}
		m.refreshViewport()

	case historyMsg:
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Could not load conversation history."
		}
		items := make([]list.Item, 0, len(msg.entries))
		for _, e := range msg.entries {
			items = append(items, historyItem{id: e.ID, title: e.Title, date: e.Timestamp})
		}
		m.list.SetItems(items)

	case conversationLoadedMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Could not load that conversation."
		} else {
			m.viewMode = ChatView
			m.refreshViewport()
		}

	case trackerMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Could not load tracked assets."
		} else {
			m.assets = msg.assets
			m.statusText = ""
		}

	case riskMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Risk analysis failed for " + msg.symbol + "."
		} else {
			m.risks[msg.symbol] = msg.analysis
		}

	case newsMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Could not load the news digest."
		} else {
			m.news = msg.digest
			m.statusText = ""
		}

	case guideMsg:
		m.waiting = false
		if msg.err != nil {
			if isForcedLogout(msg.err) {
				m.authRequired = true
			}
			m.statusText = "Could not load the beginner guide."
		} else {
			m.guideNews = msg.digest
			m.guideRec = msg.rec
			m.statusText = ""
		}

	}

	// Route remaining messages to the focused component.
	switch m.viewMode {
	case HistoryView:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	default:
		var taCmd, vpCmd tea.Cmd
		m.textarea, taCmd = m.textarea.Update(msg)
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, taCmd, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	chatHeight := msg.Height - m.textarea.Height() - 6
	if chatHeight < 5 {
		chatHeight = 5
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width-4, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = chatHeight
	}
	m.textarea.SetWidth(msg.Width - 4)
	m.list.SetSize(msg.Width-4, chatHeight)

	wrap := msg.Width - 8
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = renderer
	} else {
		m.logger.Warn("markdown renderer init failed", zap.Error(err))
	}

	m.refreshViewport()
	return m
}

// handleKey processes global shortcuts first, then surface-specific
// ones. handled=false lets the caller route the key to components.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit, true
	case tea.KeyEsc:
		if m.viewMode != ChatView {
			m.viewMode = ChatView
			m.statusText = ""
			m.refreshViewport()
			return m, nil, true
		}
		return m, nil, false
	}

	if m.authRequired {
		// Only quitting makes sense without a session.
		if msg.String() == "q" {
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	switch msg.String() {
	case "ctrl+n":
		m.activeManager().StartNew()
		m.refreshViewport()
		return m, nil, true

	case "ctrl+h":
		m.viewMode = HistoryView
		return m, refreshHistoryCmd(m.manager), true

	case "ctrl+t":
		m.viewMode = TrackerView
		m.waiting = true
		return m, fetchAssetsCmd(m.client), true

	case "ctrl+e":
		m.viewMode = NewsView
		m.waiting = true
		return m, fetchNewsCmd(m.client, false), true

	case "ctrl+r":
		if m.viewMode == NewsView {
			m.waiting = true
			return m, fetchNewsCmd(m.client, true), true
		}

	case "r":
		// Risk analysis for every tracked asset, one command per symbol
		// so a failing analysis does not block the others.
		if m.viewMode == TrackerView {
			if len(m.assets) == 0 {
				return m, nil, true
			}
			m.waiting = true
			cmds := make([]tea.Cmd, 0, len(m.assets))
			for _, a := range m.assets {
				cmds = append(cmds, analyzeRiskCmd(m.client, a.Symbol))
			}
			return m, tea.Batch(cmds...), true
		}

	case "ctrl+g":
		m.viewMode = GuideView
		m.waiting = true
		return m, fetchGuideCmd(m.client), true

	case "ctrl+p":
		m.toggleProfile()
		m.viewMode = ChatView
		m.refreshViewport()
		return m, nil, true

	case "ctrl+a":
		m.viewMode = SymbolPromptView
		m.textarea.Reset()
		m.textarea.Placeholder = "Enter an asset symbol, e.g. AAPL"
		return m, nil, true
	}

	if msg.Type == tea.KeyEnter {
		if m.viewMode == HistoryView {
			if item, ok := m.list.SelectedItem().(historyItem); ok {
				m.waiting = true
				return m, loadConversationCmd(m.manager, item.id), true
			}
			return m, nil, true
		}
		return m.handleSubmit()
	}

	return m, nil, false
}

// handleSubmit dispatches the textarea content for the focused surface.
func (m Model) handleSubmit() (Model, tea.Cmd, bool) {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		return m, nil, true
	}

	switch m.viewMode {
	case SymbolPromptView:
		symbol := strings.ToUpper(text)
		m.focusAsset(symbol)
		m.viewMode = AssetChatView
		m.textarea.Reset()
		m.textarea.Placeholder = "Ask about " + symbol + "..."
		m.refreshViewport()
		return m, nil, true

	case ChatView, AssetChatView:
		mgr := m.activeManager()
		if mgr.Sending() {
			// One request at a time; drop the submit, keep the draft.
			return m, nil, true
		}
		m.waiting = true
		m.textarea.Reset()
		// Append happens inside Send; re-render optimistically after
		// dispatch so the user message shows while the request runs.
		cmd := sendCmd(mgr, text)
		m.refreshViewport()
		return m, tea.Batch(cmd, m.spinner.Tick), true
	}

	return m, nil, false
}
