package services

import (
	"context"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"
)

// CartService reads and edits a user's cart. It never touches product stock.
type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Get(ctx context.Context, ident domain.Identity) (*domain.CartView, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}

	items, err := s.store.Carts().ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	return domain.NewCartView(items), nil
}

// Add puts qty units of a product in the cart, merging with an existing row
// for the same product.
func (s *CartService) Add(ctx context.Context, ident domain.Identity, productID uint64, qty int64) (*domain.CartItem, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, domain.Invalidf("quantity must be at least 1")
	}

	product, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFoundf("product %d", productID)
	}

	carts := s.store.Carts()
	if err := carts.AddOrIncrement(ctx, ident.UserID, productID, qty); err != nil {
		return nil, err
	}

	item, err := carts.FindByUserAndProduct(ctx, ident.UserID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFoundf("cart item for product %d", productID)
	}
	item.Product = product
	return item, nil
}

// UpdateQuantity sets the quantity of one row. Stock is not checked here.
func (s *CartService) UpdateQuantity(ctx context.Context, ident domain.Identity, itemID uint64, qty int64) (*domain.CartItem, error) {
	if qty < 1 {
		return nil, domain.Invalidf("quantity must be at least 1")
	}

	item, err := s.ownedItem(ctx, ident, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Carts().UpdateQuantity(ctx, itemID, qty); err != nil {
		return nil, err
	}
	item.Quantity = qty
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, ident domain.Identity, itemID uint64) error {
	if _, err := s.ownedItem(ctx, ident, itemID); err != nil {
		return err
	}
	return s.store.Carts().Delete(ctx, itemID)
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (s *CartService) Clear(ctx context.Context, ident domain.Identity) error {
	if err := ident.RequireUser(); err != nil {
		return err
	}
	_, err := s.store.Carts().ClearByUser(ctx, ident.UserID)
	return err
}

func (s *CartService) ownedItem(ctx context.Context, ident domain.Identity, itemID uint64) (*domain.CartItem, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}

	item, err := s.store.Carts().FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFoundf("cart item %d", itemID)
	}
	if item.UserID != ident.UserID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}
