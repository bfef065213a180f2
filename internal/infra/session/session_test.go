package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"
)

type SessionStoreTestSuite struct {
	suite.Suite
	rdb   *redis.Client
	store *RedisStore
}

func TestSessionStoreTestSuite(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	suite.Run(t, &SessionStoreTestSuite{rdb: redis.NewClient(&redis.Options{Addr: addr, DB: 15})})
}

func (s *SessionStoreTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushDB(context.Background()).Err())
	s.store = NewRedisStore(s.rdb, time.Minute)
}

func (s *SessionStoreTestSuite) TearDownSuite() {
	s.rdb.Close()
}

func (s *SessionStoreTestSuite) TestCreateAndLookup() {
	ctx := context.Background()

	token, err := s.store.Create(ctx, domain.Identity{UserID: 4, IsAdmin: true})
	s.Require().NoError(err)
	s.NotEmpty(token)

	ident, err := s.store.Lookup(ctx, token)
	s.Require().NoError(err)
	s.Equal(uint64(4), ident.UserID)
	s.True(ident.IsAdmin)

	ttl, err := s.rdb.TTL(ctx, key(token)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *SessionStoreTestSuite) TestLookupUnknownToken() {
	_, err := s.store.Lookup(context.Background(), "missing")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *SessionStoreTestSuite) TestDestroy() {
	ctx := context.Background()
	token, err := s.store.Create(ctx, domain.Identity{UserID: 9})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Destroy(ctx, token))

	_, err = s.store.Lookup(ctx, token)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *SessionStoreTestSuite) TestCreateRequiresUser() {
	_, err := s.store.Create(context.Background(), domain.Identity{})
	s.ErrorIs(err, domain.ErrUnauthorized)
}
