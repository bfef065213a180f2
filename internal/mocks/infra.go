package mocks

import (
	"context"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockProductCache records calls; when a call is configured to return a nil
// value it falls through to the loader, like a cache miss.
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Products(ctx context.Context, key string, load func(ctx context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return load(ctx)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductCache) Product(ctx context.Context, slug string, load func(ctx context.Context) (*domain.Product, error)) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return load(ctx)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, ident domain.Identity) (string, error) {
	args := m.Called(ctx, ident)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Lookup(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockSessionStore) Destroy(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionStore) TTL() time.Duration {
	return 24 * time.Hour
}
