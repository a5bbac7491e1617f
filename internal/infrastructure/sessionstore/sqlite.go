package sessionstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var (
	connectionPools = make(map[string]*sql.DB)
	poolMutex       = &sync.RWMutex{}
)

const schema = `
CREATE TABLE IF NOT EXISTS session_values (
	store_id   TEXT NOT NULL,
	client_key TEXT NOT NULL,
	k          TEXT NOT NULL,
	v          TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (store_id, client_key, k)
)`

// SQLStore persists session values in SQLite, or in a remote libsql (Turso)
// database when SESSION_DB_URL is configured.
type SQLStore struct {
	conn     *sql.DB
	useTurso bool
	logger   *logging.ChanneledLogger
}

// Options configures the SQL-backed store.
type Options struct {
	SQLitePath string
	TursoURL   string
	TursoToken string
}

// OptionsFromConfig builds Options from the process configuration.
func OptionsFromConfig() Options {
	return Options{
		SQLitePath: config.SessionDBPath,
		TursoURL:   config.SessionDBURL,
		TursoToken: config.SessionDBAuth,
	}
}

// NewSQLStore opens (or reuses) a pooled connection and ensures the schema.
func NewSQLStore(opts Options, logger *logging.ChanneledLogger) (*SQLStore, error) {
	poolKey := opts.SQLitePath
	if opts.TursoURL != "" {
		poolKey = opts.TursoURL
	}

	poolMutex.Lock()
	defer poolMutex.Unlock()

	if pooled, exists := connectionPools[poolKey]; exists {
		if err := pooled.Ping(); err == nil {
			return &SQLStore{conn: pooled, useTurso: opts.TursoURL != "", logger: logger}, nil
		}
		pooled.Close()
		delete(connectionPools, poolKey)
	}

	var conn *sql.DB
	var err error
	var useTurso bool

	if opts.TursoURL != "" && opts.TursoToken != "" {
		connStr := opts.TursoURL + "?authToken=" + opts.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil || conn.Ping() != nil {
			return nil, fmt.Errorf("session store degraded: turso connection failed")
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(opts.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create session db directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure session schema: %w", err)
	}

	connectionPools[poolKey] = conn

	return &SQLStore{conn: conn, useTurso: useTurso, logger: logger}, nil
}

func (s *SQLStore) get(storeID, clientKey, k string) (string, bool) {
	var v string
	err := s.conn.QueryRow(
		`SELECT v FROM session_values WHERE store_id = ? AND client_key = ? AND k = ?`,
		storeID, clientKey, k,
	).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows && s.logger != nil {
			s.logger.Storage().Error("Session value read failed", "key", k, "error", err.Error())
		}
		return "", false
	}
	return v, true
}

func (s *SQLStore) set(storeID, clientKey, k, v string) error {
	_, err := s.conn.Exec(
		`INSERT INTO session_values (store_id, client_key, k, v, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (store_id, client_key, k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		storeID, clientKey, k, v, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write session value %s: %w", k, err)
	}
	return nil
}

func (s *SQLStore) clear(storeID, clientKey string, keys ...string) error {
	for _, k := range keys {
		if _, err := s.conn.Exec(
			`DELETE FROM session_values WHERE store_id = ? AND client_key = ? AND k = ?`,
			storeID, clientKey, k,
		); err != nil {
			return fmt.Errorf("failed to clear session value %s: %w", k, err)
		}
	}
	return nil
}

// GetGuestSession reads the guest id + expiry pair. A missing or unparseable
// expiry, or one at/past the current time, counts as absent and removes the
// stored record as a side effect.
func (s *SQLStore) GetGuestSession(storeID, clientKey string) (session.GuestSession, bool) {
	id, ok := s.get(storeID, clientKey, keyGuestID)
	if !ok || id == "" {
		return session.GuestSession{}, false
	}

	expiryRaw, ok := s.get(storeID, clientKey, keyGuestExpiry)
	if !ok {
		s.ClearGuestSession(storeID, clientKey)
		return session.GuestSession{}, false
	}

	expiry, err := time.Parse(time.RFC3339, expiryRaw)
	if err != nil || !time.Now().Before(expiry) {
		if s.logger != nil {
			s.logger.Storage().Debug("Discarding expired guest session", "storeId", storeID)
		}
		s.ClearGuestSession(storeID, clientKey)
		return session.GuestSession{}, false
	}

	return session.GuestSession{ID: id, ExpiresAt: expiry}, true
}

// SetGuestSession stores the id and RFC3339 expiry.
func (s *SQLStore) SetGuestSession(storeID, clientKey string, sess session.GuestSession) error {
	if err := s.set(storeID, clientKey, keyGuestID, sess.ID); err != nil {
		return err
	}
	return s.set(storeID, clientKey, keyGuestExpiry, sess.ExpiresAt.UTC().Format(time.RFC3339))
}

// ClearGuestSession removes both guest keys.
func (s *SQLStore) ClearGuestSession(storeID, clientKey string) error {
	return s.clear(storeID, clientKey, keyGuestID, keyGuestExpiry)
}

// GetCustomerToken returns the stored customer token, if any.
func (s *SQLStore) GetCustomerToken(storeID, clientKey string) (string, bool) {
	token, ok := s.get(storeID, clientKey, keyCustomerToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetCustomerToken stores the customer token.
func (s *SQLStore) SetCustomerToken(storeID, clientKey, token string) error {
	return s.set(storeID, clientKey, keyCustomerToken, token)
}

// ClearCustomerToken removes the customer token.
func (s *SQLStore) ClearCustomerToken(storeID, clientKey string) error {
	return s.clear(storeID, clientKey, keyCustomerToken)
}

// SweepExpiredGuests removes guest records whose expiry has passed. Called by
// the background cleanup worker.
func (s *SQLStore) SweepExpiredGuests(now time.Time) (int64, error) {
	res, err := s.conn.Exec(
		`DELETE FROM session_values WHERE (store_id, client_key) IN (
			SELECT store_id, client_key FROM session_values
			WHERE k = ? AND v <= ?
		) AND k IN (?, ?)`,
		keyGuestExpiry, now.UTC().Format(time.RFC3339), keyGuestID, keyGuestExpiry,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired guest sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SweepStaleTokens removes customer tokens persisted longer than maxAge ago.
// Tokens are opaque so the row's own write time is the only expiry signal the
// store has; the backend-sided lifetime bounds maxAge.
func (s *SQLStore) SweepStaleTokens(now time.Time, maxAge time.Duration) (int64, error) {
	cutoff := now.UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := s.conn.Exec(
		`DELETE FROM session_values WHERE k = ? AND updated_at <= ?`,
		keyCustomerToken, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale customer tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ConnectionInfo describes the backing database for logs.
func (s *SQLStore) ConnectionInfo() string {
	if s.useTurso {
		return "turso (libsql)"
	}
	return "sqlite"
}

// Close is a no-op for pooled connections; the pool owns the handle.
func (s *SQLStore) Close() error {
	return nil
}
