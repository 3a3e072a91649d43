package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiaot623/edgechat/domain"
)

// Key layout shared with the dashboard widget's original deployment: the slot
// lives under a fixed key and each conversation under "<sessionID>:chat".
const (
	sessionSlotKey = "sessionId"
	chatKeySuffix  = ":chat"
)

// RedisStore implements Store on Redis. The session slot uses SET with EX so
// expiry is enforced server-side; conversation logs are Redis lists and carry
// no TTL of their own, so transcripts outlive the sessions they belong to
// until explicitly deleted.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store backed by the Redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func chatKey(sessionID string) string {
	return sessionID + chatKeySuffix
}

func (s *RedisStore) SetActiveSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionSlotKey, sessionID, ttl).Err()
}

func (s *RedisStore) ActiveSession(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, sessionSlotKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) ClearActiveSession(ctx context.Context) error {
	return s.rdb.Del(ctx, sessionSlotKey).Err()
}

func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	entry, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return s.rdb.RPush(ctx, chatKey(sessionID), entry).Err()
}

func (s *RedisStore) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	raw, err := s.rdb.LRange(ctx, chatKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for _, entry := range raw {
		var msg domain.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode log entry: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) DeleteConversation(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, chatKey(sessionID)).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
