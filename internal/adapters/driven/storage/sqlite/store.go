package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driven"
)

// dbFileName is the database file inside the data directory.
const dbFileName = "session.db"

// Store is a SQLite-backed store for the Google session. It exposes the
// credential and state stores through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.gconnector/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gconnector", "data")
	}

	// The database holds bearer tokens.
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CredentialStore returns a CredentialStore backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// StateStore returns a StateStore backed by this store.
func (s *Store) StateStore() driven.StateStore {
	return &stateStore{store: s}
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Credential Store ====================

// credentialStore implements driven.CredentialStore with a single row.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Load returns the stored credential or domain.ErrNotFound.
func (c *credentialStore) Load(ctx context.Context) (*domain.Credential, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, scope, expiry, profile, updated_at
		FROM credentials WHERE id = 1
	`)

	var (
		cred        domain.Credential
		expiry      sql.NullTime
		profileJSON string
	)
	err := row.Scan(&cred.AccessToken, &cred.TokenType, &cred.Scope, &expiry, &profileJSON, &cred.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning credential: %w", err)
	}

	if expiry.Valid {
		cred.Expiry = expiry.Time
	}
	if err := json.Unmarshal([]byte(profileJSON), &cred.Profile); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}

	return &cred, nil
}

// Save replaces the stored credential. Token and profile land in one row,
// so a reader never sees one without the other.
func (c *credentialStore) Save(ctx context.Context, cred domain.Credential) error {
	if cred.AccessToken == "" {
		return domain.ErrInvalidInput
	}

	profileJSON, err := json.Marshal(cred.Profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	if cred.UpdatedAt.IsZero() {
		cred.UpdatedAt = c.store.now().UTC()
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO credentials (id, access_token, token_type, scope, expiry, profile, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			scope = excluded.scope,
			expiry = excluded.expiry,
			profile = excluded.profile,
			updated_at = excluded.updated_at
	`, cred.AccessToken, cred.TokenType, cred.Scope, nullTime(cred.Expiry), string(profileJSON), cred.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store is not an error.
func (c *credentialStore) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM credentials"); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// ==================== State Store ====================

// stateStore implements driven.StateStore.
type stateStore struct {
	store *Store
}

var _ driven.StateStore = (*stateStore)(nil)

// Stash records a newly issued state and drops any that have expired.
func (s *stateStore) Stash(ctx context.Context, state domain.PendingState) error {
	if state.State == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := pruneExpiredStates(ctx, tx, s.store.now()); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO oauth_states (state, redirect_uri, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(state) DO UPDATE SET
			redirect_uri = excluded.redirect_uri,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, state.State, state.RedirectURI, state.CreatedAt.UTC(), state.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("stashing state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Take returns the state equal to value and deletes it, so each state is
// usable at most once. Returns nil if it is unknown or expired.
func (s *stateStore) Take(ctx context.Context, value string) (*domain.PendingState, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT state, redirect_uri, created_at, expires_at
		FROM oauth_states WHERE state = ?
	`, value)

	var state domain.PendingState
	err = row.Scan(&state.State, &state.RedirectURI, &state.CreatedAt, &state.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM oauth_states WHERE state = ?", value); err != nil {
		return nil, fmt.Errorf("deleting state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}

	if state.IsExpired(s.store.now()) {
		return nil, nil
	}
	return &state, nil
}

// pruneExpiredStates deletes states past their expiry. Expiry is compared in
// Go so it does not depend on how the driver formats timestamps.
func pruneExpiredStates(ctx context.Context, tx *sql.Tx, now time.Time) error {
	rows, err := tx.QueryContext(ctx, "SELECT state, expires_at FROM oauth_states")
	if err != nil {
		return fmt.Errorf("listing states: %w", err)
	}

	var expired []string
	for rows.Next() {
		var p domain.PendingState
		if err := rows.Scan(&p.State, &p.ExpiresAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning state: %w", err)
		}
		if p.IsExpired(now) {
			expired = append(expired, p.State)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("listing states: %w", err)
	}
	rows.Close()

	for _, state := range expired {
		if _, err := tx.ExecContext(ctx, "DELETE FROM oauth_states WHERE state = ?", state); err != nil {
			return fmt.Errorf("pruning state: %w", err)
		}
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
