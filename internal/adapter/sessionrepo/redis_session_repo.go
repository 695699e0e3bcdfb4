package sessionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"rag-chatbot/internal/domain"
)

const sessionKeyPrefix = "chat_history:"

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSessionRepository stores each session as a JSON array under
// chat_history:<id>. Every write resets the TTL, so a session expires
// only after ttl of inactivity.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) domain.SessionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisSessionRepository{client: client, ttl: ttl, logger: logger}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func wrapStoreErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}

func (r *redisSessionRepository) Create(ctx context.Context, sessionID string) error {
	data, err := json.Marshal([]domain.Message{})
	if err != nil {
		return fmt.Errorf("failed to marshal empty session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return wrapStoreErr("failed to create session", err)
	}
	r.logger.Info("session_created", slog.String("session_id", sessionID))
	return nil
}

func (r *redisSessionRepository) Append(ctx context.Context, sessionID string, msg domain.Message) error {
	messages, err := r.Read(ctx, sessionID)
	if err != nil {
		return err
	}
	messages = append(messages, msg)

	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return wrapStoreErr("failed to append message", err)
	}
	return nil
}

func (r *redisSessionRepository) Read(ctx context.Context, sessionID string) ([]domain.Message, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		// A missing key is an empty history, not an outage.
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, wrapStoreErr("failed to read session", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return messages, nil
}

func (r *redisSessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, wrapStoreErr("failed to check session", err)
	}
	return n > 0, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, wrapStoreErr("failed to delete session", err)
	}
	return n > 0, nil
}

func (r *redisSessionRepository) ListAll(ctx context.Context) ([]domain.SessionInfo, error) {
	keys, err := r.scanSessionKeys(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.SessionInfo, 0, len(keys))
	for _, key := range keys {
		sessionID := strings.TrimPrefix(key, sessionKeyPrefix)
		messages, err := r.Read(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		info := domain.SessionInfo{
			ID:           sessionID,
			MessageCount: len(messages),
		}
		if len(messages) > 0 {
			info.CreatedAt = messages[0].Timestamp
			info.LastActive = messages[len(messages)-1].Timestamp
		}
		infos = append(infos, info)
	}

	// Most recently active sessions first; never-used sessions go last.
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].LastActive > infos[j].LastActive
	})
	return infos, nil
}

func (r *redisSessionRepository) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.scanSessionKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, wrapStoreErr("failed to delete sessions", err)
	}
	r.logger.Info("sessions_cleared", slog.Int("count", int(n)))
	return int(n), nil
}

func (r *redisSessionRepository) scanSessionKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStoreErr("failed to scan sessions", err)
	}
	return keys, nil
}
