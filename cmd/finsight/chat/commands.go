package chat

import (
	"context"
	"errors"
	"time"

	"finsight/internal/api"
	"finsight/internal/conversation"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// requestTimeout bounds every background API call issued by the TUI.
const requestTimeout = 90 * time.Second

// Messages produced by background commands.
type (
	// sendDoneMsg signals that a chat send finished; the manager already
	// holds the updated message list. draft carries the submitted text so
	// a rejected send can hand it back to the input.
	sendDoneMsg struct {
		draft string
		err   error
	}

	historyMsg struct {
		entries []api.HistoryEntry
		err     error
	}

	conversationLoadedMsg struct {
		id  string
		err error
	}

	trackerMsg struct {
		assets []api.Asset
		err    error
	}

	riskMsg struct {
		symbol   string
		analysis *api.RiskAnalysis
		err      error
	}

	newsMsg struct {
		digest *api.NewsDigest
		err    error
	}

	guideMsg struct {
		digest *api.NewsDigest
		rec    *api.StockRecommendation
		err    error
	}
)

// sendCmd dispatches one user query through the manager. Delivery
// failures are already folded into the thread; the err here only carries
// preconditions and forced logout.
func sendCmd(mgr *conversation.Manager, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sendDoneMsg{draft: text, err: mgr.Send(ctx, text)}
	}
}

func refreshHistoryCmd(mgr *conversation.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := mgr.RefreshHistory(ctx)
		return historyMsg{entries: mgr.HistoryEntries(), err: err}
	}
}

func loadConversationCmd(mgr *conversation.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return conversationLoadedMsg{id: id, err: mgr.Load(ctx, id)}
	}
}

func fetchAssetsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		assets, err := client.Assets(ctx)
		return trackerMsg{assets: assets, err: err}
	}
}

func analyzeRiskCmd(client *api.Client, symbol string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		analysis, err := client.AnalyzeRisk(ctx, symbol)
		return riskMsg{symbol: symbol, analysis: analysis, err: err}
	}
}

func fetchNewsCmd(client *api.Client, forceReload bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		digest, err := client.News(ctx, "", forceReload)
		return newsMsg{digest: digest, err: err}
	}
}

// fetchGuideCmd loads the newtimer guide: the news digest and the stock
// recommendation, fetched concurrently. Either failing fails the guide.
func fetchGuideCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			digest *api.NewsDigest
			rec    *api.StockRecommendation
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			digest, err = client.News(gctx, "", false)
			return err
		})
		g.Go(func() error {
			var err error
			rec, err = client.Recommendation(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return guideMsg{err: err}
		}
		return guideMsg{digest: digest, rec: rec}
	}
}

// isForcedLogout reports whether an error means the session expired.
func isForcedLogout(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}
