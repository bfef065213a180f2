package infra

import (
	"context"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
)

// EventPublisher sends an event with a routing pattern such as
// "order.created" to the configured bus.
type EventPublisher interface {
	Publish(ctx context.Context, pattern string, data any) error
	Close() error
}

// ProductCache memoizes catalog reads. Loaders run on a miss; a nil result
// from a loader is returned but never stored.
type ProductCache interface {
	Products(ctx context.Context, key string, load func(ctx context.Context) ([]domain.Product, error)) ([]domain.Product, error)
	Product(ctx context.Context, slug string, load func(ctx context.Context) (*domain.Product, error)) (*domain.Product, error)
	Invalidate(ctx context.Context) error
}

// NopPublisher drops every event. Used when EVENT_BUS=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }

var _ EventPublisher = NopPublisher{}
