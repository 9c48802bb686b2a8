package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	// Padding below the short card must carry background styling.
	for i, line := range lines {
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("Line %d has no ANSI codes", i)
		}
	}

	wantW := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range lines {
		if w := lipgloss.Width(line); w != wantW {
			t.Errorf("Line %d width = %d, want %d", i, w, wantW)
		}
	}
}

func TestStatCardRowWidth(t *testing.T) {
	row := StatCardRow([]Stat{
		{Label: "Spent", Value: "$300.00", Detail: "of $500.00"},
		{Label: "Over budget", Value: "1", Color: theme.Active.Red},
		{Label: "Goals", Value: "4"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if StatCardRow(nil, 90) != "" {
		t.Error("empty row should render nothing")
	}
}

func TestToneBarWidth(t *testing.T) {
	for _, pct := range []float64{-10, 0, 42, 100, 180} {
		bar := ToneBar(pct, pipeline.ToneAmber, 20)
		if w := lipgloss.Width(bar); w != 20 {
			t.Errorf("ToneBar(%v) width = %d, want 20", pct, w)
		}
	}
}

func TestProgressRowTruncatesLabel(t *testing.T) {
	row := ProgressRow("An extremely long budget name", 50, pipeline.ToneGreen, "12 days left", 10, 10)
	if !strings.Contains(row, "An extrem…") {
		t.Errorf("label not truncated: %q", row)
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		total := 0
		for i, tab := range Tabs {
			total += TabVisualWidth(tab, i == active)
		}
		total += len(Tabs) - 1

		bar := RenderTabBar(active, total)
		if w := lipgloss.Width(bar); w != total {
			t.Errorf("active=%d: bar width %d, want %d", active, w, total)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('g'); got != 2 {
		t.Errorf("TabIdxByKey('g') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestBarChart(t *testing.T) {
	values := []float64{10, 0, 25, 40, 5}
	labels := []string{"1", "2", "3", "4", "5"}

	out := BarChart(values, labels, theme.Active.Blue, 30, 40, 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 6+2 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	if !strings.Contains(out, "┄") {
		t.Error("limit marker missing")
	}

	if got := BarChart(values, nil, theme.Active.Blue, 0, 10, 6); got != Sparkline(values, theme.Active.Blue) {
		t.Error("narrow chart should fall back to a sparkline")
	}
	if BarChart(nil, nil, theme.Active.Blue, 0, 40, 6) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestBucketKeepsPeaks(t *testing.T) {
	v, l := bucket([]float64{1, 9, 2, 3, 8, 1}, []string{"a", "b", "c", "d", "e", "f"}, 3)
	if len(v) != 3 || v[0] != 9 || v[1] != 3 || v[2] != 8 {
		t.Errorf("bucket values = %v", v)
	}
	if len(l) != 3 || l[0] != "a" || l[1] != "c" || l[2] != "e" {
		t.Errorf("bucket labels = %v", l)
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{50, 10},
		{120, 20},
		{400, 50},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}
