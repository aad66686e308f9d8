package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Tracked Assets", []string{"Symbol", "Price"})
	table.AddRow("AAPL", "232.10")

	styles := DefaultStyles()
	view := table.View(styles)

	if !strings.Contains(view, "Tracked Assets") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "AAPL") {
		t.Error("View missing cell content")
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	table := NewSimpleTable("Empty", []string{"A"})
	if view := table.View(DefaultStyles()); view != "" {
		t.Errorf("empty table should render nothing, got %q", view)
	}
}

func TestDetectThemeDarkOverride(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("FINSIGHT_DARK_MODE", "1")
	if theme := DetectTheme(); !theme.IsDark {
		t.Error("FINSIGHT_DARK_MODE=1 should select the dark theme")
	}
}

func TestDetectThemeColorFgBg(t *testing.T) {
	t.Setenv("FINSIGHT_DARK_MODE", "")
	t.Setenv("COLORFGBG", "15;0")
	if theme := DetectTheme(); !theme.IsDark {
		t.Error("dark background index should select the dark theme")
	}

	t.Setenv("COLORFGBG", "0;15")
	if theme := DetectTheme(); theme.IsDark {
		t.Error("light background index should select the light theme")
	}
}

func TestRenderDividerWidth(t *testing.T) {
	s := NewStyles(LightTheme())
	if got := s.RenderDivider(0); got != "" {
		t.Errorf("zero width should render nothing, got %q", got)
	}
	if got := s.RenderDivider(-3); got != "" {
		t.Errorf("negative width should render nothing, got %q", got)
	}
	if got := s.RenderDivider(4); !strings.Contains(got, "────") {
		t.Errorf("divider should span the requested width, got %q", got)
	}
}
