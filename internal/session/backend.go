package session

import (
	"fmt"

	"github.com/smmtool/smm/internal/config"
)

// NewBackend picks the configured backend under cfg.StateDir.
func NewBackend(cfg config.Config) (Backend, error) {
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		return NewSQLiteBackend(cfg.StatePath("session.sqlite")), nil
	case config.BackendFile:
		return NewFileBackend(cfg.StatePath("token")), nil
	default:
		return nil, fmt.Errorf("session.NewBackend: unknown backend %q", cfg.SessionBackend)
	}
}
