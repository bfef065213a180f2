package services

import (
	"context"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultStatsDays = 30

type OrderService struct {
	store     repository.Store
	publisher infra.EventPublisher
	cache     infra.ProductCache
	now       func() time.Time
}

func NewOrderService(store repository.Store, pub infra.EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: pub,
		now:       time.Now,
	}
}

// SetProductCache makes PlaceOrder drop cached catalog reads once stock has
// changed.
func (s *OrderService) SetProductCache(c infra.ProductCache) {
	s.cache = c
}

// PlaceOrder turns the caller's cart into an order. Creating the order and its
// items, decrementing stock and clearing the cart commit together or not at
// all.
func (s *OrderService) PlaceOrder(ctx context.Context, ident domain.Identity, ship domain.ShippingInfo) (*domain.Order, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}
	if err := ship.Validate(); err != nil {
		return nil, err
	}

	var orderID uint64
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		rows, err := tx.Carts().ListByUser(ctx, ident.UserID)
		if err != nil {
			return err
		}
		cart := domain.NewCartView(rows)
		if cart.Empty() {
			return domain.ErrEmptyCart
		}

		order := &domain.Order{
			Reference:       newOrderReference(s.now()),
			UserID:          ident.UserID,
			TotalAmount:     cart.Total,
			Status:          domain.StatusPending,
			ShippingAddress: ship.Address,
			City:            ship.City,
			PostalCode:      ship.PostalCode,
			Phone:           ship.Phone,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for _, line := range cart.Items {
			item := &domain.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := tx.Orders().CreateItem(ctx, item); err != nil {
				return err
			}
			if err := tx.Products().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if _, err := tx.Carts().ClearByUser(ctx, ident.UserID); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d", orderID)
	}

	log.Info().
		Uint64("order_id", order.ID).
		Str("reference", order.Reference).
		Uint64("user_id", order.UserID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	s.invalidateCatalog(ctx)
	go s.publish(context.Background(), domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		Reference:   order.Reference,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	})

	return order, nil
}

// newOrderReference formats as yyyymmddhhmmss-<uuid>.
func newOrderReference(at time.Time) string {
	return at.UTC().Format("20060102150405") + "-" + uuid.NewString()
}

func (s *OrderService) ListForUser(ctx context.Context, ident domain.Identity) ([]domain.Order, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}
	return s.store.Orders().ListByUser(ctx, ident.UserID)
}

func (s *OrderService) Get(ctx context.Context, ident domain.Identity, id uint64) (*domain.Order, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}

	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d", id)
	}
	if !ident.CanAccess(order.UserID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// ListAll returns every order, newest first, with the customer attached.
func (s *OrderService) ListAll(ctx context.Context, ident domain.Identity) ([]domain.OrderDetails, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}

	orders, err := s.store.Orders().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.OrderDetails, 0, len(orders))
	for _, o := range orders {
		details := domain.OrderDetails{Order: o}
		if o.User != nil {
			details.Customer = o.User.Summary()
			details.User = nil
		}
		out = append(out, details)
	}
	return out, nil
}

// SetStatus moves an order to any status in the closed set. No transition
// order is enforced.
func (s *OrderService) SetStatus(ctx context.Context, ident domain.Identity, id uint64, raw string) (*domain.Order, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return nil, err
	}

	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d", id)
	}

	if err := s.store.Orders().UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = s.now()

	log.Info().
		Uint64("order_id", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Uint64("changed_by", ident.UserID).
		Msg("order status changed")

	go s.publish(context.Background(), domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:   id,
		Previous:  previous,
		Status:    status,
		ChangedBy: ident.UserID,
		ChangedAt: order.UpdatedAt,
	})

	return order, nil
}

// Stats gathers the back-office dashboard figures. days bounds the daily
// sales series and defaults to 30.
func (s *OrderService) Stats(ctx context.Context, ident domain.Identity, days int) (*domain.OrderStats, error) {
	if err := ident.RequireAdmin(); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultStatsDays
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	stats := &domain.OrderStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		byStatus, err := s.store.Orders().CountByStatus(gctx)
		stats.ByStatus = byStatus
		return err
	})
	g.Go(func() error {
		revenue, err := s.store.Orders().Revenue(gctx)
		stats.Revenue = revenue
		return err
	})
	g.Go(func() error {
		daily, err := s.store.Orders().DailySales(gctx, since)
		stats.Daily = daily
		return err
	})
	g.Go(func() error {
		n, err := s.store.Products().Count(gctx)
		stats.ProductCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Users().Count(gctx)
		stats.UserCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, n := range stats.ByStatus {
		stats.OrderCount += n
	}
	return stats, nil
}

func (s *OrderService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

func (s *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("failed to publish event")
		return
	}
	log.Debug().Str("pattern", pattern).Msg("event published")
}
