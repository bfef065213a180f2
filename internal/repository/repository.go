package repository

import (
	"context"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/shopspring/decimal"
)

// Store groups the record stores and provides the unit of work. Repositories
// obtained from the Store passed to fn share its transaction.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint64) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint64) error
	CountProducts(ctx context.Context, id uint64) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	// Update locks the row, lets mutate change it, then saves it.
	Update(ctx context.Context, id uint64, mutate func(p *domain.Product) error) (*domain.Product, error)
	Delete(ctx context.Context, id uint64) error
	// DecrementStock removes qty units only if at least qty are available.
	DecrementStock(ctx context.Context, id uint64, qty int64) error
	Count(ctx context.Context) (int64, error)
}

type CartRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint64) (*domain.CartItem, error)
	// ListByUser returns the user's rows in insertion order with Product loaded.
	ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error)
	// AddOrIncrement inserts the row or adds qty to the existing row for the
	// same (user, product) pair.
	AddOrIncrement(ctx context.Context, userID, productID uint64, qty int64) error
	UpdateQuantity(ctx context.Context, id uint64, qty int64) error
	Delete(ctx context.Context, id uint64) error
	ClearByUser(ctx context.Context, userID uint64) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItem(ctx context.Context, item *domain.OrderItem) error
	// FindByID returns the order with Items and Items.Product loaded.
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error)
}
