// Package ui provides the visual styling for the FinSight terminal
// client, with light/dark mode support detected from the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#f6f7f8")
	LightForeground = lipgloss.Color("#10213f")
	LightPrimary    = lipgloss.Color("#1a3a6b") // deep navy
	LightAccent     = lipgloss.Color("#00897b") // teal
	LightSecondary  = lipgloss.Color("#e2e6ec")
	LightMuted      = lipgloss.Color("#8a93a3")
	LightBorder     = lipgloss.Color("#d8dde4")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#101826")
	DarkForeground = lipgloss.Color("#eef1f5")
	DarkPrimary    = lipgloss.Color("#4dd0c4")
	DarkAccent     = lipgloss.Color("#1a3a6b")
	DarkSecondary  = lipgloss.Color("#1b2536")
	DarkMuted      = lipgloss.Color("#66718a")
	DarkBorder     = lipgloss.Color("#2a3650")
	DarkCard       = lipgloss.Color("#182238")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Positive    = lipgloss.Color("#43a047") // price gains
	Negative    = lipgloss.Color("#e53935") // price losses
	Warning     = lipgloss.Color("#ffb300")
	Info        = lipgloss.Color("#2196f3")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from terminal hints, defaulting to light.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indices
	// indicate a dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("FINSIGHT_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Chat
	UserMessage lipgloss.Style
	BotMessage  lipgloss.Style
	Citation    lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Market data
	PriceUp   lipgloss.Style
	PriceDown lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Muted),

		BotMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Citation: lipgloss.NewStyle().
			Foreground(Info).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(Positive).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		PriceUp: lipgloss.NewStyle().
			Foreground(Positive),

		PriceDown: lipgloss.NewStyle().
			Foreground(Negative),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// Logo returns the FinSight banner.
func Logo(s Styles) string {
	logo := `
  ___ _      ___ _      _   _
 | __(_)_ _ / __(_)__ _| |_| |_
 | _|| | ' \\__ \ / _` + "`" + ` | ' \  _|
 |_| |_|_||_|___/_\__, |_||_\__|
                  |___/
`
	return s.Title.Foreground(s.Theme.Primary).Render(logo)
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// Movement renders a signed percentage with gain/loss coloring.
func (s Styles) Movement(pct float64) string {
	text := strconv.FormatFloat(pct, 'f', 2, 64) + "%"
	if pct >= 0 {
		return s.PriceUp.Render("+" + text)
	}
	return s.PriceDown.Render(text)
}
