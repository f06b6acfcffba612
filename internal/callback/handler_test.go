package callback

import (
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smmtool/smm/internal/nav"
)

type recordingSetter struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingSetter) Set(c string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.err
}

func (r *recordingSetter) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestHandleWithToken(t *testing.T) {
	setter := &recordingSetter{}
	h := NewHandler(setter, nil)

	o := h.Handle(mustURL(t, "/auth-success?token=T"))
	require.NoError(t, o.Err)
	assert.Equal(t, []string{"T"}, setter.Calls())
	assert.Equal(t, nav.RootPath, o.Navigate)
	assert.True(t, o.Signed())
}

func TestHandleWithoutToken(t *testing.T) {
	setter := &recordingSetter{}
	h := NewHandler(setter, nil)

	o := h.Handle(mustURL(t, "/auth-success"))
	assert.ErrorIs(t, o.Err, ErrMissingToken)
	assert.Equal(t, nav.LoginPath, o.Navigate)
	assert.Empty(t, setter.Calls(), "Set must not be called without a token")
	assert.False(t, o.Signed())
}

func TestHandleRunsOnce(t *testing.T) {
	setter := &recordingSetter{}
	h := NewHandler(setter, nil)

	h.Handle(mustURL(t, "/auth-success?token=first"))
	o := h.Handle(mustURL(t, "/auth-success?token=second"))
	assert.ErrorIs(t, o.Err, ErrAlreadyHandled)
	assert.Empty(t, o.Navigate)
	assert.Equal(t, []string{"first"}, setter.Calls())
	assert.True(t, h.Handled())
}

func TestHandleSetFailureStillNavigatesHome(t *testing.T) {
	setter := &recordingSetter{err: errors.New("disk full")}
	o := NewHandler(setter, nil).Handle(mustURL(t, "/auth-success?token=T"))
	assert.Error(t, o.Err)
	assert.Equal(t, nav.RootPath, o.Navigate)
	assert.Equal(t, "T", o.Credential)
}

func TestLoopGuardSuppressesRapidRepeat(t *testing.T) {
	now := time.Unix(1000, 0)
	guard := NewLoopGuard(3 * time.Second)
	guard.now = func() time.Time { return now }
	setter := &recordingSetter{}

	first := NewHandler(setter, guard).Handle(mustURL(t, "/auth-success"))
	assert.Equal(t, nav.LoginPath, first.Navigate)

	now = now.Add(time.Second)
	second := NewHandler(setter, guard).Handle(mustURL(t, "/auth-success"))
	assert.ErrorIs(t, second.Err, ErrCallbackLoop)
	assert.Empty(t, second.Navigate)

	now = now.Add(10 * time.Second)
	third := NewHandler(setter, guard).Handle(mustURL(t, "/auth-success"))
	assert.Equal(t, nav.LoginPath, third.Navigate, "a later retry is not a loop")
}

func TestLoopGuardResetBySuccess(t *testing.T) {
	now := time.Unix(1000, 0)
	guard := NewLoopGuard(3 * time.Second)
	guard.now = func() time.Time { return now }
	setter := &recordingSetter{}

	NewHandler(setter, guard).Handle(mustURL(t, "/auth-success"))
	NewHandler(setter, guard).Handle(mustURL(t, "/auth-success?token=T"))
	o := NewHandler(setter, guard).Handle(mustURL(t, "/auth-success"))
	assert.Equal(t, nav.LoginPath, o.Navigate)
}
