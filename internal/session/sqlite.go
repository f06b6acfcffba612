package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// modernc.org/sqlite driver name is "sqlite".
	_ "modernc.org/sqlite"
)

// CredentialKey is the fixed key the credential is stored under.
const CredentialKey = "jwtToken"

// SQLiteBackend keeps the credential in a key/value table.
type SQLiteBackend struct {
	path string
}

// NewSQLiteBackend returns a backend for the database file at path.
func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

func (b *SQLiteBackend) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv(k TEXT PRIMARY KEY, v TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Load reads the credential.
func (b *SQLiteBackend) Load(ctx context.Context) (string, error) {
	db, err := b.open(ctx)
	if err != nil {
		return "", fmt.Errorf("sqlite load: %w", err)
	}
	defer db.Close() //nolint:errcheck

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, CredentialKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && v == "") {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("sqlite load: %w", err)
	}
	return v, nil
}

// Save writes the credential.
func (b *SQLiteBackend) Save(ctx context.Context, credential string) error {
	db, err := b.open(ctx)
	if err != nil {
		return fmt.Errorf("sqlite save: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, CredentialKey, credential); err != nil {
		return fmt.Errorf("sqlite save: %w", err)
	}
	return nil
}

// Delete removes the credential. Deleting an absent credential is not an error.
func (b *SQLiteBackend) Delete(ctx context.Context) error {
	db, err := b.open(ctx)
	if err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, CredentialKey); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}
