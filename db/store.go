package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenroom/history"
)

// ErrNotFound is returned when a generation record does not exist.
var ErrNotFound = errors.New("db: generation not found")

// Store persists generation history entries.
//
// Thread Safety: Store is safe for concurrent use; the connection pool
// serializes writes.
type Store struct {
	conn *sql.DB
}

// NewStore wraps an open database connection. The connection must already
// be migrated.
func NewStore(conn *sql.DB) (*Store, error) {
	if conn == nil {
		return nil, errors.New("db: database connection is required")
	}
	return &Store{conn: conn}, nil
}

// OpenStore migrates the database at dbPath and returns a ready store.
// migrationsPath uses golang-migrate source syntax, e.g.
// "file://db/migrations".
func OpenStore(dbPath, migrationsPath string) (*Store, error) {
	if err := MigrateUpFromPath(dbPath, migrationsPath); err != nil {
		return nil, err
	}

	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		return nil, err
	}
	return NewStore(conn)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveGeneration writes one history entry. Existing rows with the same ID
// are replaced, so replaying a cache push is harmless.
func (s *Store) SaveGeneration(ctx context.Context, entry history.Entry) error {
	if entry.ID == "" {
		return errors.New("db: entry ID is required")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO generation_history
			(id, created_at, prompt, original, generated, thumbnail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		createdAt.UTC().Format(time.RFC3339Nano),
		entry.Prompt,
		entry.Original,
		entry.Generated,
		entry.Thumbnail,
	)
	if err != nil {
		return fmt.Errorf("db: failed to save generation %s: %w", entry.ID, err)
	}
	return nil
}

// RecentGenerations returns up to limit entries, most recent first. A
// limit <= 0 returns all rows.
func (s *Store) RecentGenerations(ctx context.Context, limit int) ([]history.Entry, error) {
	query := `
		SELECT id, created_at, prompt, original, generated, thumbnail
		FROM generation_history
		ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query generations: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: failed to iterate generations: %w", err)
	}
	return entries, nil
}

// GetGeneration returns one entry by ID, or ErrNotFound.
func (s *Store) GetGeneration(ctx context.Context, id string) (history.Entry, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, created_at, prompt, original, generated, thumbnail
		FROM generation_history
		WHERE id = ?`, id)

	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Entry{}, ErrNotFound
	}
	return entry, err
}

// CountGenerations returns the number of persisted entries.
func (s *Store) CountGenerations(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM generation_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db: failed to count generations: %w", err)
	}
	return count, nil
}

// scanEntry reads one row into a history entry. The scan function comes
// from either sql.Row or sql.Rows.
func scanEntry(scan func(...any) error) (history.Entry, error) {
	var entry history.Entry
	var createdAt string

	err := scan(&entry.ID, &createdAt, &entry.Prompt,
		&entry.Original, &entry.Generated, &entry.Thumbnail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return history.Entry{}, err
		}
		return history.Entry{}, fmt.Errorf("db: failed to scan generation row: %w", err)
	}

	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return history.Entry{}, fmt.Errorf("db: invalid created_at %q: %w", createdAt, err)
	}
	return entry, nil
}
