package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SQLiteStore implements CredentialStore and LocationStore with SQLite
// persistence, so credentials and the location cache survive restarts.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates a SQLite-backed store. The caller owns the database
// handle and is responsible for importing a sqlite driver.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

// initTables creates the necessary database tables
func (s *SQLiteStore) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_id TEXT NOT NULL DEFAULT '',
		token TEXT NOT NULL DEFAULT '',
		authenticated INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS location_cache (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO credentials (id) VALUES (1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Credentials reads the single credentials row.
func (s *SQLiteStore) Credentials() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var creds Credentials
	var authenticated int
	err := s.db.QueryRow(`
		SELECT user_id, token, authenticated FROM credentials WHERE id = 1
	`).Scan(&creds.UserID, &creds.Token, &authenticated)
	if err == sql.ErrNoRows {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to query credentials: %w", err)
	}
	creds.Authenticated = authenticated != 0
	return creds, nil
}

// SetUserID persists the user id without altering the token.
func (s *SQLiteStore) SetUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE credentials SET user_id = ?, updated_at = ? WHERE id = 1
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store user id: %w", err)
	}
	return nil
}

// SetToken persists the token and marks the session authenticated, without
// altering the user id.
func (s *SQLiteStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE credentials SET token = ?, authenticated = 1, updated_at = ? WHERE id = 1
	`, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear resets credentials to their initial empty state.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE credentials SET user_id = '', token = '', authenticated = 0, updated_at = ? WHERE id = 1
	`, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Location returns the cached location, if one has been stored.
func (s *SQLiteStore) Location() (float64, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lat, lon float64
	err := s.db.QueryRow(`
		SELECT latitude, longitude FROM location_cache WHERE id = 1
	`).Scan(&lat, &lon)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// SetLocation caches a location pair.
func (s *SQLiteStore) SetLocation(lat, lon float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO location_cache (id, latitude, longitude, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET latitude = excluded.latitude,
			longitude = excluded.longitude, updated_at = excluded.updated_at
	`, lat, lon, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}
