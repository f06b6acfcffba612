package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smmtool/smm/internal/orchestrator"
	"github.com/smmtool/smm/pkg/domain"
)

const (
	noAccountsText = "No accounts connected yet. Please go to your profile to connect a new one."
	noPostsText    = "No posts scheduled yet. Create one now!"
	noDataText     = "No analytics data yet."
)

// inboxItem is a sample interaction shown by the engagement inbox.
type inboxItem struct {
	platform domain.Platform
	kind     string
	text     string
}

var sampleInbox = []inboxItem{
	{domain.PlatformTikTok, "Comment", "Love this video! 😍"},
	{domain.PlatformMeta, "Message", "Hi, is this product available?"},
}

func pageTitle(s string) string {
	return " " + titleStyle.Render(s) + "\n\n"
}

func section(s string) string {
	return " " + sectionHeaderStyle.Render(s) + "\n"
}

// pending reports whether a slot has no settled result yet.
func pending(s orchestrator.Status) bool {
	return s == orchestrator.StatusIdle || s == orchestrator.StatusLoading
}

func dashboardView(snap orchestrator.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(pageTitle("Dashboard"))

	b.WriteString(section("Connected Accounts"))
	accounts := snap.Accounts
	switch {
	case pending(accounts.Status):
		b.WriteString(" " + dimStyle.Render("loading accounts...") + "\n")
	case accounts.Status == orchestrator.StatusFailed:
		b.WriteString(errorLine("accounts", accounts.Err) + "\n")
	case len(accounts.Data) == 0:
		b.WriteString(" " + dimStyle.Render(noAccountsText) + "\n")
	default:
		b.WriteString(accountCards(accounts.Data, width) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(section("Engagement Over Time"))
	b.WriteString(analyticsBody(snap.Analytics, width))
	return b.String()
}

// accountCards lays account cards out in rows that fit width.
func accountCards(accounts []domain.Account, width int) string {
	const cardWidth = 26
	perRow := (width - 1) / (cardWidth + 3)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var row []string
	for _, acc := range accounts {
		body := selectedStyle.Render(truncStr(acc.Username, cardWidth)) + "\n" +
			PlatformBadge(acc.Platform) + "\n" +
			dimStyle.Render(formatFollowers(acc.FollowerCount())+" followers")
		row = append(row, cardStyle.Width(cardWidth).Render(body))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(rows, "\n"))
}

func schedulerView(snap orchestrator.Snapshot, width int, now time.Time) string {
	var b strings.Builder
	b.WriteString(pageTitle("Post Scheduler"))
	b.WriteString(section("Upcoming Posts"))

	posts := snap.Posts
	switch {
	case pending(posts.Status):
		b.WriteString(" " + dimStyle.Render("loading posts...") + "\n")
		return b.String()
	case posts.Status == orchestrator.StatusFailed:
		b.WriteString(errorLine("posts", posts.Err) + "\n")
		return b.String()
	case len(posts.Data) == 0:
		b.WriteString(" " + dimStyle.Render(noPostsText) + "\n")
		return b.String()
	}

	contentWidth := width - 14
	if contentWidth < 20 {
		contentWidth = 20
	}
	for _, p := range posts.Data {
		status := ""
		if p.Status != "" {
			status = "  " + metaStyle.Render(string(p.Status))
		}
		fmt.Fprintf(&b, " %s  %s\n", PlatformBadge(p.Platform), normalStyle.Render(truncStr(oneLine(p.Content), contentWidth)))
		fmt.Fprintf(&b, "   %s%s\n", dimStyle.Render(formatSchedule(p.ScheduledAt, now, nil)), status)
	}
	return b.String()
}

func analyticsView(snap orchestrator.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(pageTitle("Analytics & Reporting"))
	b.WriteString(section("Engagement Over Time"))
	b.WriteString(analyticsBody(snap.Analytics, width))
	return b.String()
}

// analyticsBody renders one row per bucket with a bar per platform.
func analyticsBody(r orchestrator.Result[domain.AnalyticsSeries], width int) string {
	switch {
	case pending(r.Status):
		return " " + dimStyle.Render("loading analytics...") + "\n"
	case r.Status == orchestrator.StatusFailed:
		return errorLine("analytics", r.Err) + "\n"
	case len(r.Data) == 0:
		return " " + dimStyle.Render(noDataText) + "\n"
	}

	nameWidth := 0
	for _, pt := range r.Data {
		nameWidth = max(nameWidth, lipgloss.Width(pt.Name))
	}
	barWidth := width - nameWidth - 24
	if barWidth < 10 {
		barWidth = 10
	}
	top := r.Data.Max()

	var b strings.Builder
	legend := make([]string, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		legend = append(legend, PlatformBadge(p))
	}
	b.WriteString(" " + strings.Join(legend, "   ") + "\n")
	for _, pt := range r.Data {
		for i, p := range domain.Platforms {
			label := strings.Repeat(" ", nameWidth)
			if i == 0 {
				label = fmt.Sprintf("%-*s", nameWidth, pt.Name)
			}
			v := pt.Values[p]
			fmt.Fprintf(&b, " %s  %s %s\n",
				dimStyle.Render(label),
				renderBar(v, top, barWidth, PlatformStyle(p)),
				metaStyle.Render(fmt.Sprintf("%g", v)))
		}
	}
	return b.String()
}

func engagementView() string {
	var b strings.Builder
	b.WriteString(pageTitle("Engagement Management"))
	b.WriteString(section("Unified Inbox"))
	b.WriteString(" " + dimStyle.Render("Comments and direct messages from every connected account land here.") + "\n\n")
	for _, item := range sampleInbox {
		fmt.Fprintf(&b, " %s %s\n", PlatformBadge(item.platform), normalStyle.Render(item.kind))
		fmt.Fprintf(&b, "   %s\n", dimStyle.Render(fmt.Sprintf("%q", item.text)))
	}
	return b.String()
}
