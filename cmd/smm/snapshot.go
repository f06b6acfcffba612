package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smmtool/smm/internal/nav"
	"github.com/smmtool/smm/internal/orchestrator"
	"github.com/smmtool/smm/pkg/client"
	"github.com/smmtool/smm/pkg/domain"
)

func newSnapshotCmd(c *cli) *cobra.Command {
	var page string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one page's data and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := nav.ParsePage(page)
			if !ok || len(orchestrator.Plan(p)) == 0 {
				return fmt.Errorf("unknown page %q (want dashboard, scheduler or analytics)", page)
			}
			store, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := store.Get(); !ok {
				return fmt.Errorf("%w: run `smm login` first", client.ErrNoCredential)
			}

			snap := orchestrator.Run(cmd.Context(), c.newClient(store), p)
			printSnapshot(cmd.OutOrStdout(), p, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", nav.Dashboard.Slug(), "Page to fetch (dashboard|scheduler|analytics)")
	return cmd
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	errColor    = color.New(color.FgRed)
	faint       = color.New(color.Faint)
)

// printSnapshot writes the slots a page fetched. Each slot reports its own
// failure so one broken service does not hide the others.
func printSnapshot(w io.Writer, p nav.Page, snap orchestrator.Snapshot) {
	for _, slot := range orchestrator.Plan(p) {
		switch slot {
		case orchestrator.SlotAccounts:
			headerColor.Fprintln(w, "Connected Accounts") //nolint:errcheck
			printSlot(w, snap.Accounts.Status, snap.Accounts.Err, len(snap.Accounts.Data) == 0,
				"No accounts connected yet.", func() { printAccounts(w, snap.Accounts.Data) })
		case orchestrator.SlotPosts:
			headerColor.Fprintln(w, "Upcoming Posts") //nolint:errcheck
			printSlot(w, snap.Posts.Status, snap.Posts.Err, len(snap.Posts.Data) == 0,
				"No posts scheduled yet.", func() { printPosts(w, snap.Posts.Data) })
		case orchestrator.SlotAnalytics:
			headerColor.Fprintln(w, "Engagement Over Time") //nolint:errcheck
			printSlot(w, snap.Analytics.Status, snap.Analytics.Err, len(snap.Analytics.Data) == 0,
				"No analytics data yet.", func() { printAnalytics(w, snap.Analytics.Data) })
		}
		fmt.Fprintln(w)
	}
}

func printSlot(w io.Writer, status orchestrator.Status, errText string, empty bool, emptyText string, body func()) {
	switch {
	case status == orchestrator.StatusFailed:
		errColor.Fprintf(w, "  error: %s\n", errText) //nolint:errcheck
	case empty:
		faint.Fprintf(w, "  %s\n", emptyText) //nolint:errcheck
	default:
		body()
	}
}

func printAccounts(w io.Writer, accounts []domain.Account) {
	for _, a := range accounts {
		fmt.Fprintf(w, "  %-10s %-24s %d followers\n", a.Platform, a.Username, a.FollowerCount())
	}
}

func printPosts(w io.Writer, posts []domain.Post) {
	for _, p := range posts {
		content := strings.Join(strings.Fields(p.Content), " ")
		fmt.Fprintf(w, "  %s  %-10s %s\n", p.ScheduledAt.Local().Format(time.DateTime), p.Platform, content)
	}
}

func printAnalytics(w io.Writer, series domain.AnalyticsSeries) {
	for _, pt := range series {
		parts := make([]string, 0, len(domain.Platforms))
		for _, p := range domain.Platforms {
			if v, ok := pt.Values[p]; ok {
				parts = append(parts, fmt.Sprintf("%s=%g", p, v))
			}
		}
		fmt.Fprintf(w, "  %-12s %s\n", pt.Name, strings.Join(parts, " "))
	}
}
