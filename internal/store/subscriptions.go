// Package store persists Telegram subscription identities in sqlite.
//
// The table is tiny and write traffic is rare (a human sending /subscribe),
// but reads from the notify path and writes from the bot's command loop can
// race, so the database is opened with a single connection and WAL mode:
// database/sql then serializes access without any locking here.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/telewind/telewind/internal/domain"
)

// Subscriptions is the sqlite-backed subscriber registry.
type Subscriptions struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS subscriptions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);
`

// Open opens (creating if necessary) the subscription database at path.
// Use ":memory:" for tests.
func Open(path string) (*Subscriptions, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open subscription db: %w", err)
	}

	// Single writer; the sqlite driver is not safe for concurrent writes
	// on one file without it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("create subscription schema: %w", err)
	}

	return &Subscriptions{db: db}, nil
}

// Close releases the database handle.
func (s *Subscriptions) Close() error {
	return s.db.Close()
}

// Add registers a chat. Adding an already-subscribed chat is a no-op.
func (s *Subscriptions) Add(ctx context.Context, chatID int64) error {
	createdAt := domain.Clock().Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (user_id, created_at) VALUES (?, ?)`,
		chatID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

// Remove deletes a chat's subscription. Removing an unknown chat is a no-op.
func (s *Subscriptions) Remove(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// List returns all subscribed chat IDs in subscription order.
func (s *Subscriptions) List(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var chatIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		chatIDs = append(chatIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return chatIDs, nil
}
