package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/internal/nav"
)

// loopWindow is how close together two tokenless callbacks must be to count as a loop.
const loopWindow = 3 * time.Second

// Server is the local listener the identity service redirects the browser to.
type Server struct {
	addr     string
	setter   Setter
	guard    *LoopGuard
	log      *logrus.Entry
	outcomes chan Outcome

	mu       sync.Mutex
	current  *Handler
	listener net.Listener
	srv      *http.Server
}

// NewServer returns a server that will listen on addr.
func NewServer(addr string, setter Setter, logger *logrus.Logger) *Server {
	return &Server{
		addr:     addr,
		setter:   setter,
		guard:    NewLoopGuard(loopWindow),
		log:      logging.Component(logger, "callback"),
		outcomes: make(chan Outcome, 4),
	}
}

// Router returns the HTTP routes. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(nav.CallbackPath, s.handleCallback).Methods(http.MethodGet)
	r.HandleFunc(nav.RootPath, page(signedInHTML, http.StatusOK)).Methods(http.MethodGet)
	r.HandleFunc(nav.LoginPath, page(loginFailedHTML, http.StatusOK)).Methods(http.MethodGet)
	return r
}

// Start begins listening. Calling Start on a running server is a no-op.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("callback.Start: listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.srv = &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("callback server stopped")
		}
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("callback listener started")
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Mount installs a fresh handler for a new login attempt. Outcomes left
// over from earlier attempts are discarded.
func (s *Server) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = NewHandler(s.setter, s.guard)
	for {
		select {
		case o := <-s.outcomes:
			s.log.WithField("signed_in", o.Signed()).Debug("discarding outcome of an earlier attempt")
		default:
			return
		}
	}
}

// Unmount abandons the current login attempt.
func (s *Server) Unmount() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Outcomes delivers the result of each handled callback.
func (s *Server) Outcomes() <-chan Outcome {
	return s.outcomes
}

// Wait blocks until the next outcome or ctx is done.
func (s *Server) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o := <-s.outcomes:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Close shuts the listener down.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.listener, s.current = nil, nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h := s.current
	s.mu.Unlock()
	if h == nil {
		http.Error(w, "no login in progress", http.StatusGone)
		return
	}

	o := h.Handle(r.URL)
	log := s.log.WithField("signed_in", o.Signed())
	switch {
	case errors.Is(o.Err, ErrAlreadyHandled):
		http.Error(w, "callback already handled", http.StatusGone)
		return
	case errors.Is(o.Err, ErrCallbackLoop):
		log.Warn("tokenless callback repeated; not redirecting")
		s.publish(h, o)
		page(loginFailedHTML, http.StatusConflict)(w, r)
		return
	case o.Err != nil:
		log.WithError(o.Err).Warn("callback completed with error")
	default:
		log.Info("callback completed")
	}
	s.publish(h, o)
	http.Redirect(w, r, o.Navigate, http.StatusFound)
}

// publish delivers o when h is still the mounted handler.
func (s *Server) publish(h *Handler, o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != h {
		s.log.Debug("callback outcome dropped; its attempt was abandoned")
		return
	}
	select {
	case s.outcomes <- o:
	default:
		s.log.Warn("callback outcome dropped; nobody is waiting")
	}
}

func page(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, body) //nolint:errcheck
	}
}

const signedInHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>SMM Tool</title>
<style>
body{background:#111827;color:#e5e7eb;font-family:ui-monospace,monospace;height:100vh;margin:0;
display:flex;align-items:center;justify-content:center}
.msg{color:#34d474;font-weight:600;margin-bottom:8px}.sub{color:#6b7280;font-size:12px}
</style></head>
<body><div><div class="msg">account connected</div><div class="sub">return to your terminal</div></div></body>
</html>`

const loginFailedHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>SMM Tool</title>
<style>
body{background:#111827;color:#e5e7eb;font-family:ui-monospace,monospace;height:100vh;margin:0;
display:flex;align-items:center;justify-content:center}
.msg{color:#ef4444;font-weight:600;margin-bottom:8px}.sub{color:#6b7280;font-size:12px}
</style></head>
<body><div><div class="msg">no token received</div><div class="sub">return to your terminal and try again</div></div></body>
</html>`
