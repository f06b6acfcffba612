package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// scheduleLayout is the local wall-clock format of the schedule field.
const scheduleLayout = "2006-01-02 15:04"

// formatSchedule renders a scheduled instant in loc, relative when it is close.
func formatSchedule(t time.Time, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	abs := t.In(loc).Format(scheduleLayout)
	d := t.Sub(now)
	switch {
	case d < 0:
		return abs
	case d < time.Hour:
		return fmt.Sprintf("%s (in %dm)", abs, int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%s (in %dh)", abs, int(d.Hours()))
	default:
		return abs
	}
}

// formatFollowers abbreviates large follower counts, e.g. 12.5k.
func formatFollowers(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so post content fits a row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
