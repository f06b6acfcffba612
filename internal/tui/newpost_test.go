package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smmtool/smm/pkg/domain"
)

func newTestPostModel(f *fakeFetcher, loc *time.Location) newPostModel {
	if f == nil {
		f = &fakeFetcher{}
	}
	return newNewPostModel(f, loc)
}

func TestNewPostDefaultsToFirstAccountPlatform(t *testing.T) {
	m := newTestPostModel(nil, time.UTC)
	if m.selected() != "" {
		t.Fatalf("expected no platform before accounts load, got %q", m.selected())
	}
	m = m.setAccounts([]domain.Account{
		{Platform: domain.PlatformTikTok, Username: "a"},
		{Platform: domain.PlatformTikTok, Username: "b"},
		{Platform: domain.PlatformMeta, Username: "c"},
	})
	if m.selected() != domain.PlatformTikTok {
		t.Errorf("expected TikTok, got %q", m.selected())
	}
	if len(m.platforms) != 2 {
		t.Errorf("expected distinct platforms, got %v", m.platforms)
	}
}

func TestNewPostKeepsChosenPlatformOnReload(t *testing.T) {
	accounts := []domain.Account{{Platform: domain.PlatformMeta}, {Platform: domain.PlatformSnapchat}}
	m := newTestPostModel(nil, time.UTC).setAccounts(accounts)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.selected() != domain.PlatformSnapchat {
		t.Fatalf("expected Snapchat after right, got %q", m.selected())
	}
	m = m.setAccounts(accounts)
	if m.selected() != domain.PlatformSnapchat {
		t.Errorf("reload lost the chosen platform, got %q", m.selected())
	}
}

func TestNewPostPlatformCycling(t *testing.T) {
	m := newTestPostModel(nil, time.UTC).setAccounts([]domain.Account{
		{Platform: domain.PlatformMeta},
		{Platform: domain.PlatformTikTok},
		{Platform: domain.PlatformSnapchat},
	})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.selected() != domain.PlatformSnapchat {
		t.Errorf("left from first should wrap to last, got %q", m.selected())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.selected() != domain.PlatformMeta {
		t.Errorf("right from last should wrap to first, got %q", m.selected())
	}
}

func TestNewPostValidation(t *testing.T) {
	tests := []struct {
		name     string
		accounts []domain.Account
		content  string
		schedule string
		want     string
	}{
		{"no platform", nil, "hi", "2030-01-01 10:00", "platform is required"},
		{"no content", []domain.Account{{Platform: domain.PlatformMeta}}, "   ", "2030-01-01 10:00", "content is required"},
		{"no schedule", []domain.Account{{Platform: domain.PlatformMeta}}, "hi", "", "schedule time is required"},
		{"bad schedule", []domain.Account{{Platform: domain.PlatformMeta}}, "hi", "tomorrow", "schedule time must look like"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeFetcher{}
			m := newTestPostModel(f, time.UTC).setAccounts(tc.accounts)
			m.content.SetValue(tc.content)
			m.schedule.SetValue(tc.schedule)

			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
			if cmd != nil {
				t.Fatal("invalid form should not submit")
			}
			if m.submitting {
				t.Error("invalid form should not be submitting")
			}
			if !strings.Contains(m.View(), tc.want) {
				t.Errorf("expected %q in view, got:\n%s", tc.want, m.View())
			}
		})
	}
}

func TestNewPostConvertsLocalTimeToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	m := newTestPostModel(nil, loc).setAccounts([]domain.Account{{Platform: domain.PlatformMeta}})
	m.content.SetValue("hello")
	m.schedule.SetValue("2030-06-01 12:00")

	req, err := m.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if want := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC); !req.ScheduledAt.Equal(want) {
		t.Errorf("scheduledAt = %v, want %v", req.ScheduledAt, want)
	}
	if req.ScheduledAt.Location() != time.UTC {
		t.Errorf("expected UTC instant, got %v", req.ScheduledAt.Location())
	}
}

func TestNewPostSuccessResetsForm(t *testing.T) {
	m := newTestPostModel(nil, time.UTC).setAccounts([]domain.Account{{Platform: domain.PlatformMeta}})
	m.content.SetValue("hello")
	m.schedule.SetValue("2030-06-01 12:00")
	m.submitting = true

	m, _ = m.Update(postCreatedMsg{post: &domain.Post{ID: "p1"}})
	if m.submitting {
		t.Error("expected submitting cleared")
	}
	if m.content.Value() != "" || m.schedule.Value() != "" {
		t.Error("expected form cleared after success")
	}
	if !strings.Contains(m.View(), "post scheduled successfully") {
		t.Error("expected success message")
	}
}

func TestNewPostTabCyclesFocus(t *testing.T) {
	m := newTestPostModel(nil, time.UTC)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldContent {
		t.Errorf("expected content focus, got %d", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldSchedule {
		t.Errorf("expected shift+tab to wrap to schedule, got %d", m.focus)
	}
}
