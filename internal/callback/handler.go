// Package callback completes an OAuth login by receiving the identity
// service's redirect and storing the credential it carries.
package callback

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/smmtool/smm/internal/nav"
)

// TokenParam is the query parameter carrying the credential.
const TokenParam = "token"

var (
	// ErrMissingToken means the callback arrived without a credential.
	ErrMissingToken = errors.New("callback received without token")
	// ErrAlreadyHandled means this handler already consumed a callback.
	ErrAlreadyHandled = errors.New("callback already handled")
	// ErrCallbackLoop means a tokenless callback repeated too quickly after
	// the previous one; the login redirect is suppressed.
	ErrCallbackLoop = errors.New("callback redirect loop suppressed")
)

// Setter stores a credential.
type Setter interface {
	Set(credential string) error
}

// Outcome is what a handled callback did. Navigate is empty when no
// navigation should happen.
type Outcome struct {
	Credential string
	Navigate   string
	Err        error
}

// Signed reports whether the outcome delivered a credential.
func (o Outcome) Signed() bool {
	return o.Credential != ""
}

// LoopGuard suppresses back-to-back login redirects. It is shared by the
// handlers of successive login attempts.
type LoopGuard struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
	now    func() time.Time
}

// NewLoopGuard treats two tokenless callbacks within window as a loop.
func NewLoopGuard(window time.Duration) *LoopGuard {
	return &LoopGuard{window: window, now: time.Now}
}

// allowLogin records a login redirect and reports whether it may proceed.
func (g *LoopGuard) allowLogin() bool {
	if g == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if !g.last.IsZero() && now.Sub(g.last) < g.window {
		return false
	}
	g.last = now
	return true
}

func (g *LoopGuard) reset() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.last = time.Time{}
	g.mu.Unlock()
}

// Handler consumes exactly one callback. Mount a new handler per login attempt.
type Handler struct {
	setter Setter
	guard  *LoopGuard

	mu      sync.Mutex
	handled bool
}

// NewHandler returns a handler that stores credentials through setter.
// guard may be nil.
func NewHandler(setter Setter, guard *LoopGuard) *Handler {
	return &Handler{setter: setter, guard: guard}
}

// Handle parses the credential from u. With a credential it is stored and
// the outcome navigates to the root path; without one it navigates to the
// login path and the setter is not called. Only the first call has effect.
func (h *Handler) Handle(u *url.URL) Outcome {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		return Outcome{Err: ErrAlreadyHandled}
	}
	h.handled = true
	h.mu.Unlock()

	var token string
	if u != nil {
		token = u.Query().Get(TokenParam)
	}
	if token == "" {
		if !h.guard.allowLogin() {
			return Outcome{Err: ErrCallbackLoop}
		}
		return Outcome{Navigate: nav.LoginPath, Err: ErrMissingToken}
	}

	h.guard.reset()
	// The store keeps the in-memory value even when persisting fails, so the
	// session is usable and the error is only reported.
	err := h.setter.Set(token)
	return Outcome{Credential: token, Navigate: nav.RootPath, Err: err}
}

// Handled reports whether the handler has consumed a callback.
func (h *Handler) Handled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handled
}
