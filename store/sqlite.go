package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/edgechat/domain"
)

// SQLiteStore implements Store using SQLite. It is the durable single-file
// alternative to Redis for deployments without one, and doubles as the
// `:memory:` test store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to an in-memory database gets its own empty
	// database, so pin the pool to a single connection.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		// Single-slot table: the CHECK pins it to one row.
		`CREATE TABLE IF NOT EXISTS active_session (
			slot INTEGER PRIMARY KEY CHECK (slot = 0),
			session_id TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			ts INTEGER NOT NULL,
			data_analysis INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetActiveSession stores the session identifier in the slot, overwriting any
// prior value. Last write wins.
func (s *SQLiteStore) SetActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_session (slot, session_id, expires_at) VALUES (0, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET session_id = excluded.session_id, expires_at = excluded.expires_at`,
		sessionID, expiresAt)
	return err
}

// ActiveSession returns the stored identifier, or "" when absent or expired.
// Expired rows are reaped lazily on read.
func (s *SQLiteStore) ActiveSession(ctx context.Context) (string, error) {
	var sessionID string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, expires_at FROM active_session WHERE slot = 0`).Scan(&sessionID, &expiresAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if expiresAt <= time.Now().UnixMilli() {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM active_session WHERE slot = 0`); err != nil {
			return "", err
		}
		return "", nil
	}
	return sessionID, nil
}

// ClearActiveSession removes the slot unconditionally.
func (s *SQLiteStore) ClearActiveSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM active_session WHERE slot = 0`)
	return err
}

// AppendMessage appends one entry to the session's log.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	var dataAnalysis sql.NullBool
	if msg.DataAnalysis != nil {
		dataAnalysis = sql.NullBool{Bool: *msg.DataAnalysis, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, ts, data_analysis) VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(msg.Role), msg.Content, msg.Ts, dataAnalysis)
	return err
}

// Messages returns the session's full log in append order.
func (s *SQLiteStore) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, ts, data_analysis FROM messages WHERE session_id = ? ORDER BY seq ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		var dataAnalysis sql.NullBool
		if err := rows.Scan(&role, &msg.Content, &msg.Ts, &dataAnalysis); err != nil {
			return nil, err
		}
		msg.Role = domain.Role(role)
		if dataAnalysis.Valid {
			val := dataAnalysis.Bool
			msg.DataAnalysis = &val
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteConversation removes the session's log.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}
