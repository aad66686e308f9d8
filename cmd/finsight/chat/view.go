package chat

import (
	"fmt"
	"strings"

	"finsight/cmd/finsight/ui"
	"finsight/internal/api"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.authRequired {
		return m.renderAuthRequired()
	}

	switch m.viewMode {
	case HistoryView:
		return m.styles.Content.Render(m.list.View())
	case TrackerView:
		return m.renderPage(m.renderTracker())
	case NewsView:
		return m.renderPage(m.renderNews())
	case GuideView:
		return m.renderPage(m.renderGuide())
	}

	header := m.renderHeader()
	content := m.styles.Content.Render(m.viewport.View())
	divider := m.styles.RenderDivider(m.width)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, divider, m.textarea.View(), footer)
}

func (m Model) renderPage(body string) string {
	header := m.renderHeader()
	content := m.styles.Content.Render(body)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	title := " FinSight"
	switch m.viewMode {
	case AssetChatView:
		title += " · " + m.assetSymbol
	case SymbolPromptView:
		title += " · Asset Chat"
	case TrackerView:
		title += " · Tracker"
	case NewsView:
		title += " · News"
	case GuideView:
		title += " · Guide"
	}
	mode := m.styles.Badge.Render(string(m.profile))
	return m.styles.Header.Render(title) + " " + mode
}

func (m Model) renderFooter() string {
	parts := []string{
		"enter: send",
		"ctrl+n: new",
		"ctrl+h: history",
		"ctrl+a: asset",
		"ctrl+t: tracker",
		"ctrl+e: news",
		"ctrl+g: guide",
		"ctrl+p: mode",
		"ctrl+c: quit",
	}
	switch m.viewMode {
	case TrackerView:
		parts = append([]string{"r: risk"}, parts...)
	case NewsView:
		parts = append([]string{"ctrl+r: refresh"}, parts...)
	}
	line := m.styles.Footer.Render(strings.Join(parts, "  "))
	if m.waiting {
		line = m.spinner.View() + " " + m.styles.Muted.Render("Thinking...") + "\n" + line
	}
	if m.statusText != "" {
		line = m.styles.Warning.Render(m.statusText) + "\n" + line
	}
	return line
}

func (m Model) renderAuthRequired() string {
	body := ui.Logo(m.styles) + "\n" +
		m.styles.Title.Render("Session expired") + "\n" +
		m.styles.Body.Render("Your session has ended. Run \"finsight login\" and start the app again.") + "\n\n" +
		m.styles.Muted.Render("press q to quit")
	return m.styles.Content.Render(body)
}

// refreshViewport re-renders the focused conversation into the viewport
// and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	var sb strings.Builder

	for _, msg := range m.activeManager().Messages() {
		switch msg.Sender {
		case api.SenderUser:
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserMessage.Render(msg.Text))
			sb.WriteString("\n")

		default:
			botStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(botStyle.Render("FinSight") + "\n")
			if msg.Type == api.TypeError {
				sb.WriteString(m.styles.Error.Render(msg.Text))
			} else {
				sb.WriteString(m.styles.BotMessage.Render(m.safeRenderMarkdown(msg.Text)))
			}
			sb.WriteString("\n")
			for _, c := range msg.Citations {
				sb.WriteString("  " + m.styles.Citation.Render(c) + "\n")
			}
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour has
// crashed on malformed model output before, and a bad payload must never
// take the UI down.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) renderTracker() string {
	if len(m.assets) == 0 {
		return m.styles.Muted.Render("No tracked assets yet. Add one with \"finsight tracker add\".")
	}

	table := ui.NewSimpleTable("Tracked Assets", []string{"Symbol", "Name", "Price", "Movement", "Sector"})
	for _, a := range m.assets {
		table.AddRow(
			a.Symbol,
			a.Name,
			fmt.Sprintf("%.2f", a.Price),
			m.styles.Movement(a.Movement),
			a.Sector,
		)
	}
	out := table.View(m.styles)

	for symbol, risk := range m.risks {
		out += "\n" + m.renderRisk(symbol, risk)
	}
	return out
}

func (m Model) renderRisk(symbol string, risk *api.RiskAnalysis) string {
	if risk == nil {
		return ""
	}
	level := m.styles.Info.Render(risk.RiskLevel)
	switch risk.RiskLevel {
	case "High":
		level = m.styles.Error.Render(risk.RiskLevel)
	case "Low":
		level = m.styles.Success.Render(risk.RiskLevel)
	}
	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render(symbol) + " risk: " + level + "\n")
	sb.WriteString(m.styles.Body.Render(risk.Recommendation) + "\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf(
		"volatility %.2f · sector trend %.2f · dips last month %d · sentiment %s",
		risk.Factors.VolatilityScore,
		risk.Factors.SectorTrendScore,
		risk.Factors.DipCountLastMonth,
		risk.Factors.SentimentClass,
	)) + "\n")
	return sb.String()
}

func (m Model) renderNews() string {
	if m.news == nil {
		return m.styles.Muted.Render("Loading news...")
	}
	return m.renderDigest(m.news)
}

func (m Model) renderDigest(digest *api.NewsDigest) string {
	if len(digest.NewsItems) == 0 {
		return m.styles.Muted.Render("No news right now.")
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Financial News") + "\n")
	if digest.LastUpdated != "" {
		cached := ""
		if digest.FromCache {
			cached = " (cached)"
		}
		sb.WriteString(m.styles.Muted.Render("updated "+digest.LastUpdated+cached) + "\n\n")
	}

	for _, item := range digest.NewsItems {
		sb.WriteString(m.styles.Bold.Render(item.Title) + "\n")
		sb.WriteString(m.styles.Body.Render(item.Summary) + "\n")
		if item.EffectOnYou != "" {
			sb.WriteString(m.styles.Info.Render("Effect on you: "+item.EffectOnYou) + "\n")
		}
		if item.AffectedAssetSymbol != "" {
			sb.WriteString(m.styles.Warning.Render(
				item.AffectedAssetSymbol+": "+item.ImpactOnAsset) + "\n")
		}
		meta := item.Source
		if item.PublishedDate != "" {
			meta += " · " + item.PublishedDate
		}
		sb.WriteString(m.styles.Muted.Render(meta) + "\n\n")
	}
	return sb.String()
}

func (m Model) renderGuide() string {
	if m.guideNews == nil && m.guideRec == nil {
		return m.styles.Muted.Render("Loading your beginner guide...")
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Getting Started") + "\n")
	sb.WriteString(m.styles.Body.Render(
		"New to investing? Start with today's pick, skim the headlines, then ask the chat anything you don't understand.") + "\n\n")

	if rec := m.guideRec; rec != nil {
		sb.WriteString(m.styles.Subtitle.Render("Today's pick") + "\n")
		sb.WriteString(m.styles.Bold.Render(rec.StockName+" ("+rec.TickerSymbol+")") + " ")
		sb.WriteString(m.styles.Movement(rec.PriceChangePercent24h) + "\n")
		sb.WriteString(m.styles.Body.Render(rec.RecommendationReason) + "\n")
		sb.WriteString(m.styles.Muted.Render("risk: "+rec.RiskLabel+" · "+rec.RiskReasoning) + "\n\n")
	}

	if m.guideNews != nil {
		sb.WriteString(m.renderDigest(m.guideNews))
	}
	return sb.String()
}
