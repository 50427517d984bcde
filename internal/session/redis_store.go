package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eshop-order/internal/model"
)

const keyPrefix = "payment-session:"

// redisStore implements Store on top of Redis.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.With().Str("component", "session-store").Logger(),
	}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return unmarshalSession(data)
}

func (s *redisStore) Set(ctx context.Context, sessionID string, session *model.CheckoutSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// GetDelete uses GETDEL so that concurrent claims of the same session
// resolve to exactly one winner.
func (s *redisStore) GetDelete(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	data, err := s.client.GetDel(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel failed: %w", err)
	}
	return unmarshalSession(data)
}

func (s *redisStore) ListByUser(ctx context.Context, userID string) (map[string]*model.CheckoutSession, error) {
	sessions := make(map[string]*model.CheckoutSession)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan failed: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				// Expired between scan and read.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("redis get failed: %w", err)
			}

			sess, err := unmarshalSession(data)
			if err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("skipping undecodable session entry")
				continue
			}
			if sess.UserID == userID {
				sessions[strings.TrimPrefix(key, keyPrefix)] = sess
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return sessions, nil
}

func unmarshalSession(data []byte) (*model.CheckoutSession, error) {
	var sess model.CheckoutSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &sess, nil
}
