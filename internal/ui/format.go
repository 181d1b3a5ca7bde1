package ui

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatMessageTime formats a timestamp the way the sidebar and chat panel
// show it: clock time for today, "Yesterday" for yesterday, and a short date
// otherwise.
func FormatMessageTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	t = t.Local()
	now = now.Local()

	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.Format("15:04")
	}

	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		return "Yesterday"
	}

	if y1 == y2 {
		return t.Format("Jan 2")
	}
	return t.Format("01/02/06")
}

// TruncatePreview shortens a message preview to the given display width,
// accounting for wide runes, appending "…" when truncated.
func TruncatePreview(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// SeenTicks renders delivery state for a message the local user sent:
// one tick for delivered, two for seen.
func SeenTicks(seen bool) string {
	if seen {
		return "✓✓"
	}
	return "✓"
}
