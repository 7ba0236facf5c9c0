package service

import (
	"context"
	"errors"
	"time"

	"quiz_webapp/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

var (
	ErrNoSessionStore = errors.New("session store not configured")
	ErrNoTokenID      = errors.New("session has no token id")
)

const revokedPrefix = "session:revoked:"

// SessionStore keeps revoked token ids in Redis until they would have
// expired anyway. A nil client makes every token count as live.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Revoke marks tokenID as signed out.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	if s.rdb == nil {
		return ErrNoSessionStore
	}
	if tokenID == "" {
		return ErrNoTokenID
	}
	return s.rdb.Set(ctx, revokedPrefix+tokenID, 1, s.ttl).Err()
}

// IsRevoked reports whether tokenID was signed out.
func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.rdb == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Terminate ends the session by revoking its token. Without Redis there is
// nothing to revoke and the call succeeds.
func (s *SessionStore) Terminate(ctx context.Context, sess domain.Session) error {
	if s.rdb == nil {
		return nil
	}
	return s.Revoke(ctx, sess.TokenID)
}
