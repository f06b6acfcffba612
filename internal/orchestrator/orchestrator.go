// Package orchestrator issues the authorized fetches each page needs and
// tracks their loading, error and result state.
package orchestrator

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/internal/nav"
	"github.com/smmtool/smm/pkg/domain"
)

// Fetcher is the subset of the API client the orchestrator and post form use.
type Fetcher interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	GetAnalytics(ctx context.Context) (domain.AnalyticsSeries, error)
	CreatePost(ctx context.Context, req domain.CreatePostRequest) (*domain.Post, error)
}

// Slot identifies one independently failable fetch.
type Slot int

const (
	SlotAccounts Slot = iota
	SlotPosts
	SlotAnalytics
)

func (s Slot) String() string {
	switch s {
	case SlotAccounts:
		return "accounts"
	case SlotPosts:
		return "posts"
	case SlotAnalytics:
		return "analytics"
	}
	return "unknown"
}

// Plan lists the fetches a page needs on entry.
func Plan(p nav.Page) []Slot {
	switch p {
	case nav.Dashboard:
		return []Slot{SlotAccounts, SlotAnalytics}
	case nav.Scheduler:
		return []Slot{SlotPosts}
	case nav.Analytics:
		return []Slot{SlotAnalytics}
	case nav.NewPost:
		return []Slot{SlotAccounts}
	case nav.Engagement:
		return nil
	}
	return nil
}

// FetchedMsg carries one slot's result back to the model.
type FetchedMsg struct {
	Gen       uint64
	Slot      Slot
	Accounts  []domain.Account
	Posts     []domain.Post
	Analytics domain.AnalyticsSeries
	Err       error
}

type stepKey struct {
	page       nav.Page
	credential string
}

// Orchestrator runs one orchestration step per (page, credential) pair.
// Entering a new step cancels the previous step's requests and ignores any
// result still in flight from it.
type Orchestrator struct {
	fetcher Fetcher
	log     *logrus.Entry

	gen    uint64
	key    stepKey
	active bool
	cancel context.CancelFunc
	snap   Snapshot
}

// New returns an orchestrator fetching through f.
func New(f Fetcher, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{fetcher: f, log: logging.Component(logger, "orchestrator")}
}

// Enter starts the step for page when the page or credential changed since
// the last step. Without a credential nothing is fetched.
func (o *Orchestrator) Enter(page nav.Page, credential string) tea.Cmd {
	if credential == "" {
		o.stop()
		return nil
	}
	key := stepKey{page: page, credential: credential}
	if o.active && o.key == key {
		return nil
	}
	o.stop()

	o.gen++
	o.key = key
	o.active = true
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	gen := o.gen
	slots := Plan(page)
	o.log.WithFields(logrus.Fields{"page": page.Slug(), "gen": gen, "slots": len(slots)}).Debug("enter step")

	cmds := make([]tea.Cmd, 0, len(slots))
	for _, slot := range slots {
		o.snap.set(slot, Result[struct{}]{Status: StatusLoading})
		f, slot := o.fetcher, slot
		cmds = append(cmds, func() tea.Msg {
			msg := fetch(ctx, f, slot)
			msg.Gen = gen
			return msg
		})
	}
	return tea.Batch(cmds...)
}

// Reset forgets the current step so the next Enter re-issues its fetches.
func (o *Orchestrator) Reset() {
	o.stop()
}

func (o *Orchestrator) stop() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.active = false
}

// Apply records a fetch result. Results from an earlier step are dropped.
func (o *Orchestrator) Apply(msg FetchedMsg) bool {
	log := o.log.WithFields(logrus.Fields{"slot": msg.Slot.String(), "gen": msg.Gen})
	if msg.Gen != o.gen {
		log.Debug("dropping stale result")
		return false
	}
	o.snap.apply(msg)
	if msg.Err != nil {
		log.WithError(msg.Err).Warn("fetch failed")
	}
	return true
}

// Snapshot returns the current per-slot state.
func (o *Orchestrator) Snapshot() Snapshot {
	return o.snap
}

// Run performs one step for page synchronously. The fetches run
// concurrently; each failure is confined to its own slot.
func Run(ctx context.Context, f Fetcher, page nav.Page) Snapshot {
	slots := Plan(page)
	results := make([]FetchedMsg, len(slots))
	var g errgroup.Group
	for i, slot := range slots {
		g.Go(func() error {
			results[i] = fetch(ctx, f, slot)
			return nil
		})
	}
	_ = g.Wait() // branches never return an error

	var snap Snapshot
	for _, r := range results {
		snap.apply(r)
	}
	return snap
}

func fetch(ctx context.Context, f Fetcher, slot Slot) FetchedMsg {
	msg := FetchedMsg{Slot: slot}
	switch slot {
	case SlotAccounts:
		msg.Accounts, msg.Err = f.ListAccounts(ctx)
	case SlotPosts:
		msg.Posts, msg.Err = f.ListPosts(ctx)
	case SlotAnalytics:
		msg.Analytics, msg.Err = f.GetAnalytics(ctx)
	default:
		msg.Err = errors.New("unknown slot")
	}
	return msg
}
