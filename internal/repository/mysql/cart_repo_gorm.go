package mysql

import (
	"context"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) FindByID(ctx context.Context, id uint64) (*domain.CartItem, error) {
	var item domain.CartItem
	ok, err := first(r.db.WithContext(ctx).Where("id = ?", id), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) FindByUserAndProduct(ctx context.Context, userID, productID uint64) (*domain.CartItem, error) {
	var item domain.CartItem
	q := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	ok, err := first(q, &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddOrIncrement relies on idx_cart_user_product so that concurrent adds of
// the same product merge into one row.
func (r *cartRepo) AddOrIncrement(ctx context.Context, userID, productID uint64, qty int64) error {
	item := domain.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + ?", qty),
			}),
		}).
		Create(&item).Error
	return translate(err, fmt.Sprintf("cart item for product %d", productID))
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id uint64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", id).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero when the value is unchanged.
		var n int64
		if err := r.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.NotFoundf("cart item %d", id)
		}
	}
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("cart item %d", id)
	}
	return nil
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{})
	return res.RowsAffected, res.Error
}
