// Package session owns the session credential and its durable copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/smmtool/smm/internal/logging"
)

// ErrNoCredential is returned by a Backend that holds no credential.
var ErrNoCredential = errors.New("no stored credential")

// Backend is durable storage for a single credential.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Delete(ctx context.Context) error
}

// Store holds the credential in memory, mirrored into a Backend.
// Writes come from the callback handler and the logout command only.
type Store struct {
	mu         sync.RWMutex
	credential string
	backend    Backend
	log        *logrus.Entry
}

// Open reads the backend once and returns a store seeded with its value.
// A backend read failure leaves the store empty rather than failing startup.
func Open(ctx context.Context, backend Backend, logger *logrus.Logger) *Store {
	s := &Store{backend: backend, log: logging.Component(logger, "session")}
	cred, err := backend.Load(ctx)
	switch {
	case err == nil:
		s.credential = cred
		s.log.Debug("credential loaded from durable storage")
	case errors.Is(err, ErrNoCredential):
		s.log.Debug("no stored credential")
	default:
		s.log.WithError(err).Warn("read stored credential")
	}
	return s
}

// Get returns the in-memory credential and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// Set replaces the credential in memory and durable storage.
// The in-memory value is updated even if the durable write fails.
func (s *Store) Set(credential string) error {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()

	if err := s.backend.Save(context.Background(), credential); err != nil {
		s.log.WithError(err).Error("persist credential")
		return fmt.Errorf("session.Set: %w", err)
	}
	s.log.Info("credential stored")
	return nil
}

// Clear removes the credential from memory and durable storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()

	if err := s.backend.Delete(context.Background()); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	s.log.Info("credential cleared")
	return nil
}
