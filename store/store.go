// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"time"

	"github.com/xiaot623/edgechat/domain"
)

// Store persists the single active-session slot and the per-session
// conversation logs. Store failures are fatal to the calling workflow;
// implementations perform no retries.
type Store interface {
	// Active session slot. The slot holds at most one identifier, bounded by
	// a TTL; writes overwrite any prior value.
	SetActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error
	// ActiveSession returns the stored identifier, or "" when the slot was
	// never set or has expired.
	ActiveSession(ctx context.Context) (string, error)
	// ClearActiveSession removes the slot. Clearing an absent slot is not an error.
	ClearActiveSession(ctx context.Context) error

	// Conversation log. Entries are append-only and totally ordered by
	// append sequence.
	AppendMessage(ctx context.Context, sessionID string, msg domain.Message) error
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)
	// DeleteConversation removes the whole log. Idempotent.
	DeleteConversation(ctx context.Context, sessionID string) error

	// Lifecycle
	Close() error
}
