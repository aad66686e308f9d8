// Package chat provides the interactive TUI for the FinSight assistant.
// The functionality is split across files:
//   - model.go: Types, construction, Init
//   - update.go: Update loop and key handling
//   - commands.go: Async tea.Cmd constructors for API calls
//   - view.go: Rendering functions
package chat

import (
	"context"
	"fmt"

	"finsight/cmd/finsight/ui"
	"finsight/internal/api"
	"finsight/internal/config"
	"finsight/internal/conversation"
	"finsight/internal/logging"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// ViewMode determines which surface is focused.
type ViewMode int

const (
	ChatView ViewMode = iota
	AssetChatView
	HistoryView
	TrackerView
	NewsView
	GuideView
	SymbolPromptView
)

// historyItem is a list item for the conversation history sidebar.
type historyItem struct {
	id, title, date string
}

func (i historyItem) Title() string       { return i.title }
func (i historyItem) Description() string { return i.date }
func (i historyItem) FilterValue() string { return i.title }

// Model is the main model for the interactive FinSight interface.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	list     list.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	viewMode ViewMode

	client  *api.Client
	cfg     *config.Config
	profile api.Profile
	logger  *zap.Logger

	// One manager per chat surface. assetManager is rebuilt whenever the
	// focused symbol changes.
	manager      *conversation.Manager
	assetManager *conversation.Manager
	assetSymbol  string

	// Cached surface data
	assets    []api.Asset
	news      *api.NewsDigest
	guideRec  *api.StockRecommendation
	guideNews *api.NewsDigest
	risks     map[string]*api.RiskAnalysis

	waiting      bool
	statusText   string
	authRequired bool
	err          error

	width, height int
	ready         bool
}

// New constructs the interactive model. The general chat manager is
// seeded with a profile-specific greeting; asset chat managers are
// created lazily when a symbol is focused.
func New(client *api.Client, cfg *config.Config) Model {
	profile := api.ProfileVeteran
	if cfg.UI.Profile == "newtimer" {
		profile = api.ProfileNewtimer
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about markets, assets, or your portfolio..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := ui.DefaultStyles()
	sp.Style = styles.Spinner

	delegate := list.NewDefaultDelegate()
	historyList := list.New(nil, delegate, 0, 0)
	historyList.Title = "Conversations"
	historyList.SetShowStatusBar(false)

	m := Model{
		textarea: ta,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		list:     historyList,
		styles:   styles,
		client:   client,
		cfg:      cfg,
		profile:  profile,
		logger:   logging.Get(logging.CategoryChat),
		risks:    make(map[string]*api.RiskAnalysis),
	}
	m.manager = conversation.New(
		chatSender{client: client, profile: profile},
		greetingFor(profile),
		conversation.WithHistory(chatHistory{client: client}),
		conversation.WithKind(profile.RequestType()),
	)
	return m
}

// greetingFor returns the greeting message for a profile.
func greetingFor(profile api.Profile) string {
	mode := "veteran"
	if profile == api.ProfileNewtimer {
		mode = "newtimer"
	}
	return fmt.Sprintf("Welcome to FinSight Chat! You are currently in %q mode. Ask me anything about finance and investing.", mode)
}

// assetGreeting returns the greeting for an asset-focused chat.
func assetGreeting(symbol string) string {
	return fmt.Sprintf("Welcome to the %s chat! Ask me anything about this asset.", symbol)
}

// chatSender adapts the API client to the conversation.Sender interface
// for the general chat surface.
type chatSender struct {
	client  *api.Client
	profile api.Profile
}

func (s chatSender) Send(ctx context.Context, query, conversationID string) (*api.ChatReply, error) {
	return s.client.SendMessage(ctx, s.profile, query, conversationID)
}

// chatHistory adapts the API client to the conversation.HistorySource
// interface for the general chat surface.
type chatHistory struct {
	client *api.Client
}

func (h chatHistory) History(ctx context.Context) ([]api.HistoryEntry, error) {
	return h.client.ChatHistory(ctx)
}

func (h chatHistory) Conversation(ctx context.Context, id string) ([]api.Message, error) {
	return h.client.Conversation(ctx, id)
}

// assetSender adapts the API client to conversation.Sender for one
// asset-focused chat.
type assetSender struct {
	client *api.Client
	symbol string
}

func (s assetSender) Send(ctx context.Context, query, conversationID string) (*api.ChatReply, error) {
	return s.client.SendAssetMessage(ctx, s.symbol, query, conversationID)
}

// assetHistory adapts the API client to conversation.HistorySource for
// one asset-focused chat.
type assetHistory struct {
	client *api.Client
	symbol string
}

func (h assetHistory) History(ctx context.Context) ([]api.HistoryEntry, error) {
	return h.client.AssetChatHistory(ctx, h.symbol)
}

func (h assetHistory) Conversation(ctx context.Context, id string) ([]api.Message, error) {
	return h.client.AssetConversation(ctx, h.symbol, id)
}

// focusAsset switches the asset surface to symbol, creating a fresh
// manager when the symbol changed.
func (m *Model) focusAsset(symbol string) {
	if m.assetManager != nil && m.assetSymbol == symbol {
		return
	}
	m.assetSymbol = symbol
	m.assetManager = conversation.New(
		assetSender{client: m.client, symbol: symbol},
		assetGreeting(symbol),
		conversation.WithHistory(assetHistory{client: m.client, symbol: symbol}),
		conversation.WithKind("asset"),
	)
}

// activeManager returns the manager for the focused chat surface.
func (m *Model) activeManager() *conversation.Manager {
	if m.viewMode == AssetChatView && m.assetManager != nil {
		return m.assetManager
	}
	return m.manager
}

// toggleProfile flips between newtimer and veteran mode and starts a
// fresh conversation with the matching greeting.
func (m *Model) toggleProfile() {
	if m.profile == api.ProfileVeteran {
		m.profile = api.ProfileNewtimer
	} else {
		m.profile = api.ProfileVeteran
	}
	m.manager = conversation.New(
		chatSender{client: m.client, profile: m.profile},
		greetingFor(m.profile),
		conversation.WithHistory(chatHistory{client: m.client}),
		conversation.WithKind(m.profile.RequestType()),
	)
	m.logger.Info("profile switched", zap.String("profile", string(m.profile)))
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}
