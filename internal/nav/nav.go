// Package nav decides which view is visible.
package nav

// Paths the client can be at.
const (
	RootPath     = "/"
	LoginPath    = "/login"
	CallbackPath = "/auth-success"
)

// Page is a top-level view of the signed-in application.
type Page int

const (
	Dashboard Page = iota
	Scheduler
	Analytics
	Engagement
	NewPost
)

// Pages in menu order.
var Pages = []Page{Dashboard, Scheduler, Analytics, Engagement, NewPost}

func (p Page) String() string {
	switch p {
	case Dashboard:
		return "Dashboard"
	case Scheduler:
		return "Scheduler"
	case Analytics:
		return "Analytics"
	case Engagement:
		return "Engagement"
	case NewPost:
		return "New Post"
	}
	return "Unknown"
}

// Slug is the lowercase identifier used on the command line.
func (p Page) Slug() string {
	switch p {
	case Dashboard:
		return "dashboard"
	case Scheduler:
		return "scheduler"
	case Analytics:
		return "analytics"
	case Engagement:
		return "engagement"
	case NewPost:
		return "new-post"
	}
	return ""
}

// ParsePage reverses Slug.
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if p.Slug() == s {
			return p, true
		}
	}
	return Dashboard, false
}

// State is the kind of view in effect.
type State int

const (
	StateUnauthenticated State = iota
	StateAwaitingCallback
	StatePage
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingCallback:
		return "awaiting-callback"
	case StatePage:
		return "page"
	}
	return "unknown"
}

// Effective is the resolved view. Page is meaningful only when State is StatePage.
type Effective struct {
	State State
	Page  Page
}

// Resolve applies the gating rules in order: callback location without a
// credential, then no credential, then the selected page.
func Resolve(hasCredential bool, location string, selected Page) Effective {
	switch {
	case !hasCredential && location == CallbackPath:
		return Effective{State: StateAwaitingCallback}
	case !hasCredential:
		return Effective{State: StateUnauthenticated}
	default:
		return Effective{State: StatePage, Page: selected}
	}
}

// Machine holds the selected page and current location for the process lifetime.
// The zero value starts at the root path on the Dashboard.
type Machine struct {
	selected Page
	location string
}

// NewMachine returns a machine at location on the Dashboard.
func NewMachine(location string) Machine {
	if location == "" {
		location = RootPath
	}
	return Machine{selected: Dashboard, location: location}
}

// Select records an explicit page choice. While unauthenticated the choice is
// remembered but masked by Resolve.
func (m *Machine) Select(p Page) {
	m.selected = p
}

// Navigate changes the current location.
func (m *Machine) Navigate(path string) {
	m.location = path
}

// PostCreated moves selection to the Scheduler after a post is created.
func (m *Machine) PostCreated() {
	m.selected = Scheduler
}

// Selected returns the explicitly selected page.
func (m Machine) Selected() Page {
	return m.selected
}

// Location returns the current location.
func (m Machine) Location() string {
	if m.location == "" {
		return RootPath
	}
	return m.location
}

// Effective resolves the visible state for the given credential presence.
func (m Machine) Effective(hasCredential bool) Effective {
	return Resolve(hasCredential, m.Location(), m.selected)
}
