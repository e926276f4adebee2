// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/writory/internal/platform/constants"
	"github.com/taibuivan/writory/internal/platform/dberr"
)

// # Redis Implementation

// RedisSessionRepository is the Redis-backed implementation of [SessionRepository].
//
// Layout:
//   - auth:session:<tokenHash>  : JSON-encoded [Session], TTL bound to ExpiresAt.
//   - auth:user_sessions:<uid>  : SET of token hashes for bulk revocation.
//
// Expiry is enforced by Redis itself: an expired session key simply vanishes,
// so FindByTokenHash never returns a stale session.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository constructs a session repository on top of the shared client.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// Create persists a new tracking session with a TTL matching its expiry.
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	session.CreatedAt = time.Now()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("auth_session_encode_failed: %w", err)
	}

	timeToLive := time.Until(session.ExpiresAt)
	if timeToLive <= 0 {
		return fmt.Errorf("auth_session_already_expired: %s", session.ID)
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Set(context, sessionKey(session.TokenHash), payload, timeToLive)
	pipeline.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)

	// The per-user set outlives individual sessions; cap it at the refresh TTL
	// so abandoned accounts do not leak keys.
	pipeline.Expire(context, userSessionsKey(session.UserID), RefreshTokenTTL)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("auth_session_create_failed: %w", err)
	}

	return nil
}

// FindByTokenHash returns the active session matching the given token hash.
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("auth_session_lookup_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("auth_session_decode_failed: %w", err)
	}

	// TokenHash is json:"-" so it never round-trips; restore it from the key.
	session.TokenHash = tokenHash

	return &session, nil
}

// Revoke invalidates the session with the given token hash.
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {
	session, err := repository.FindByTokenHash(context, tokenHash)
	if err != nil {
		// Already expired or never existed. Revocation is idempotent.
		if errors.Is(err, dberr.ErrNotFound) {
			return nil
		}
		return err
	}

	pipeline := repository.client.TxPipeline()
	pipeline.Del(context, sessionKey(tokenHash))
	pipeline.SRem(context, userSessionsKey(session.UserID), tokenHash)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("auth_session_revoke_failed: %w", err)
	}

	return nil
}

// RevokeAll revokes every active session belonging to the userID.
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	return repository.revokeSet(context, userID, "")
}

// RevokeOthers revokes all of the user's sessions except keepTokenHash.
func (repository *RedisSessionRepository) RevokeOthers(context context.Context, userID, keepTokenHash string) error {
	return repository.revokeSet(context, userID, keepTokenHash)
}

// revokeSet walks the per-user session set and deletes every member except
// keepTokenHash (empty keeps nothing).
func (repository *RedisSessionRepository) revokeSet(context context.Context, userID, keepTokenHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("auth_session_list_failed: %w", err)
	}

	pipeline := repository.client.TxPipeline()
	for _, hash := range hashes {
		if hash == keepTokenHash {
			continue
		}
		pipeline.Del(context, sessionKey(hash))
		pipeline.SRem(context, userSessionsKey(userID), hash)
	}

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("auth_session_bulk_revoke_failed: %w", err)
	}

	return nil
}

// # Key Builders

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}
