package orchestrator

import (
	"github.com/smmtool/smm/pkg/client"
	"github.com/smmtool/smm/pkg/domain"
)

// Status is the observable state of one fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusLoaded:
		return "loaded"
	}
	return "unknown"
}

// Result is one slot's state. Data is set only when Status is StatusLoaded;
// Err only when StatusFailed.
type Result[T any] struct {
	Status Status
	Data   T
	Err    string
}

// Snapshot is the state of every slot.
type Snapshot struct {
	Accounts  Result[[]domain.Account]
	Posts     Result[[]domain.Post]
	Analytics Result[domain.AnalyticsSeries]
}

// set resets a slot to the status of r, discarding its data.
func (s *Snapshot) set(slot Slot, r Result[struct{}]) {
	switch slot {
	case SlotAccounts:
		s.Accounts = Result[[]domain.Account]{Status: r.Status, Err: r.Err}
	case SlotPosts:
		s.Posts = Result[[]domain.Post]{Status: r.Status, Err: r.Err}
	case SlotAnalytics:
		s.Analytics = Result[domain.AnalyticsSeries]{Status: r.Status, Err: r.Err}
	}
}

func (s *Snapshot) apply(msg FetchedMsg) {
	if msg.Err != nil {
		s.set(msg.Slot, Result[struct{}]{Status: StatusFailed, Err: client.Describe(msg.Err)})
		return
	}
	switch msg.Slot {
	case SlotAccounts:
		s.Accounts = Result[[]domain.Account]{Status: StatusLoaded, Data: msg.Accounts}
	case SlotPosts:
		s.Posts = Result[[]domain.Post]{Status: StatusLoaded, Data: msg.Posts}
	case SlotAnalytics:
		s.Analytics = Result[domain.AnalyticsSeries]{Status: StatusLoaded, Data: msg.Analytics}
	}
}
