package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/internal/nav"
	"github.com/smmtool/smm/pkg/client"
	"github.com/smmtool/smm/pkg/domain"
)

type fakeFetcher struct {
	mu           sync.Mutex
	calls        map[Slot]int
	accounts     []domain.Account
	posts        []domain.Post
	analytics    domain.AnalyticsSeries
	accountsErr  error
	postsErr     error
	analyticsErr error
}

func (f *fakeFetcher) count(s Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[Slot]int{}
	}
	f.calls[s]++
}

func (f *fakeFetcher) Calls(s Slot) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[s]
}

func (f *fakeFetcher) ListAccounts(context.Context) ([]domain.Account, error) {
	f.count(SlotAccounts)
	return f.accounts, f.accountsErr
}

func (f *fakeFetcher) ListPosts(context.Context) ([]domain.Post, error) {
	f.count(SlotPosts)
	return f.posts, f.postsErr
}

func (f *fakeFetcher) GetAnalytics(context.Context) (domain.AnalyticsSeries, error) {
	f.count(SlotAnalytics)
	return f.analytics, f.analyticsErr
}

func (f *fakeFetcher) CreatePost(context.Context, domain.CreatePostRequest) (*domain.Post, error) {
	return nil, errors.New("not used")
}

// drain runs cmd and any batched commands, collecting their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestPlan(t *testing.T) {
	assert.Equal(t, []Slot{SlotAccounts, SlotAnalytics}, Plan(nav.Dashboard))
	assert.Equal(t, []Slot{SlotPosts}, Plan(nav.Scheduler))
	assert.Equal(t, []Slot{SlotAnalytics}, Plan(nav.Analytics))
	assert.Equal(t, []Slot{SlotAccounts}, Plan(nav.NewPost))
	assert.Empty(t, Plan(nav.Engagement))
}

func TestEnterMarksPlannedSlotsLoading(t *testing.T) {
	o := New(&fakeFetcher{}, logging.Discard())
	cmd := o.Enter(nav.Dashboard, "tok")
	require.NotNil(t, cmd)

	snap := o.Snapshot()
	assert.Equal(t, StatusLoading, snap.Accounts.Status)
	assert.Equal(t, StatusLoading, snap.Analytics.Status)
	assert.Equal(t, StatusIdle, snap.Posts.Status)
}

func TestDashboardPartialFailureIsIsolated(t *testing.T) {
	f := &fakeFetcher{
		accounts:     []domain.Account{{PlatformUserID: "1", Platform: domain.PlatformMeta, Username: "brand"}},
		analyticsErr: &client.HTTPError{StatusCode: http.StatusInternalServerError, Message: "boom"},
	}
	o := New(f, logging.Discard())
	for _, msg := range drain(o.Enter(nav.Dashboard, "tok")) {
		assert.True(t, o.Apply(msg.(FetchedMsg)))
	}

	snap := o.Snapshot()
	assert.Equal(t, StatusLoaded, snap.Accounts.Status)
	assert.Len(t, snap.Accounts.Data, 1)
	assert.Equal(t, StatusFailed, snap.Analytics.Status)
	assert.Contains(t, snap.Analytics.Err, "boom")
}

func TestSameStepDoesNotRefetch(t *testing.T) {
	f := &fakeFetcher{}
	o := New(f, logging.Discard())
	drain(o.Enter(nav.Scheduler, "tok"))
	assert.Nil(t, o.Enter(nav.Scheduler, "tok"))
	assert.Equal(t, 1, f.Calls(SlotPosts))
}

func TestReenteringPageRefetches(t *testing.T) {
	f := &fakeFetcher{}
	o := New(f, logging.Discard())
	drain(o.Enter(nav.Scheduler, "tok"))
	drain(o.Enter(nav.Engagement, "tok"))
	drain(o.Enter(nav.Scheduler, "tok"))
	assert.Equal(t, 2, f.Calls(SlotPosts))
}

func TestCredentialChangeRefetches(t *testing.T) {
	f := &fakeFetcher{}
	o := New(f, logging.Discard())
	drain(o.Enter(nav.Analytics, "old"))
	drain(o.Enter(nav.Analytics, "new"))
	assert.Equal(t, 2, f.Calls(SlotAnalytics))
}

func TestNoCredentialFetchesNothing(t *testing.T) {
	f := &fakeFetcher{}
	o := New(f, logging.Discard())
	assert.Nil(t, o.Enter(nav.Dashboard, ""))
	assert.Equal(t, 0, f.Calls(SlotAccounts))
}

func TestStaleResultDropped(t *testing.T) {
	f := &fakeFetcher{posts: []domain.Post{{ID: "p1"}}}
	o := New(f, logging.Discard())
	stale := drain(o.Enter(nav.Scheduler, "tok"))
	drain(o.Enter(nav.Analytics, "tok"))

	require.Len(t, stale, 1)
	assert.False(t, o.Apply(stale[0].(FetchedMsg)))
	assert.Equal(t, StatusLoading, o.Snapshot().Posts.Status, "stale posts must not land")
}

func TestResetForcesRefetch(t *testing.T) {
	f := &fakeFetcher{}
	o := New(f, logging.Discard())
	drain(o.Enter(nav.Scheduler, "tok"))
	o.Reset()
	drain(o.Enter(nav.Scheduler, "tok"))
	assert.Equal(t, 2, f.Calls(SlotPosts))
}

func TestRunSynchronous(t *testing.T) {
	f := &fakeFetcher{
		accountsErr: errors.New("connection refused"),
		analytics:   domain.AnalyticsSeries{{Name: "Mon", Values: map[domain.Platform]float64{domain.PlatformMeta: 1}}},
	}
	snap := Run(context.Background(), f, nav.Dashboard)
	assert.Equal(t, StatusFailed, snap.Accounts.Status)
	assert.Equal(t, "connection refused", snap.Accounts.Err)
	assert.Equal(t, StatusLoaded, snap.Analytics.Status)
	assert.Len(t, snap.Analytics.Data, 1)
	assert.Equal(t, StatusIdle, snap.Posts.Status)
}
