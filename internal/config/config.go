package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Session storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the client's endpoints and local storage settings.
type Config struct {
	IdentityURL    string
	AccountURL     string
	PostURL        string
	CallbackAddr   string
	StateDir       string
	SessionBackend string
	HTTPTimeout    time.Duration
	LoginTimeout   time.Duration
}

// Default returns the local development configuration.
func Default() Config {
	return Config{
		IdentityURL:    "http://localhost:8081",
		AccountURL:     "http://localhost:8082",
		PostURL:        "http://localhost:8083",
		CallbackAddr:   "127.0.0.1:3000",
		StateDir:       defaultStateDir(),
		SessionBackend: BackendSQLite,
		HTTPTimeout:    30 * time.Second,
		LoginTimeout:   2 * time.Minute,
	}
}

// FromEnv reads SMM_* variables on top of Default.
func FromEnv() Config {
	d := Default()
	return Config{
		IdentityURL:    env("IDENTITY_URL", d.IdentityURL),
		AccountURL:     env("ACCOUNT_URL", d.AccountURL),
		PostURL:        env("POST_URL", d.PostURL),
		CallbackAddr:   env("CALLBACK_ADDR", d.CallbackAddr),
		StateDir:       env("STATE_DIR", d.StateDir),
		SessionBackend: env("SESSION_BACKEND", d.SessionBackend),
		HTTPTimeout:    envSeconds("HTTP_TIMEOUT_SECONDS", d.HTTPTimeout),
		LoginTimeout:   envSeconds("LOGIN_TIMEOUT_SECONDS", d.LoginTimeout),
	}
}

// Validate rejects unusable endpoint and storage settings.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"identity url": c.IdentityURL,
		"account url":  c.AccountURL,
		"post url":     c.PostURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s %q: must be an absolute http(s) URL", name, raw))
		}
	}
	if _, _, err := net.SplitHostPort(c.CallbackAddr); err != nil {
		errs = append(errs, fmt.Errorf("callback addr %q: %w", c.CallbackAddr, err))
	}
	if c.SessionBackend != BackendSQLite && c.SessionBackend != BackendFile {
		errs = append(errs, fmt.Errorf("session backend %q: want %q or %q", c.SessionBackend, BackendSQLite, BackendFile))
	}
	if c.StateDir == "" {
		errs = append(errs, errors.New("state dir is empty"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if c.LoginTimeout <= 0 {
		errs = append(errs, errors.New("login timeout must be positive"))
	}
	return errors.Join(errs...)
}

// CallbackURL is where the identity service sends the browser after login.
func (c Config) CallbackURL() string {
	host, port, err := net.SplitHostPort(c.CallbackAddr)
	if err != nil {
		return "http://" + c.CallbackAddr
	}
	if host == "127.0.0.1" || host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// EnsureStateDir creates the state directory with owner-only permissions.
func (c Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", c.StateDir, err)
	}
	return nil
}

// StatePath joins name onto the state directory.
func (c Config) StatePath(name string) string {
	return filepath.Join(c.StateDir, name)
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smm"
	}
	return filepath.Join(home, ".smm")
}
