package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisStore keeps login sessions in Redis under "session:<token>". Every
// successful lookup pushes the expiry forward by ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

type record struct {
	UserID    uint64    `json:"userId"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(token string) string {
	return "session:" + token
}

func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// Create opens a session for ident and returns its token.
func (s *RedisStore) Create(ctx context.Context, ident domain.Identity) (string, error) {
	if err := ident.RequireUser(); err != nil {
		return "", err
	}

	token := uuid.NewString()
	data, err := json.Marshal(record{UserID: ident.UserID, IsAdmin: ident.IsAdmin, CreatedAt: time.Now()})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Lookup resolves a token. Unknown or expired tokens yield ErrUnauthorized.
func (s *RedisStore) Lookup(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	raw, err := s.rdb.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	s.rdb.Expire(ctx, key(token), s.ttl)
	return domain.Identity{UserID: rec.UserID, IsAdmin: rec.IsAdmin}, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, key(token)).Err()
}
