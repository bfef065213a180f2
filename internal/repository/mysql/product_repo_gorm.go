package mysql

import (
	"context"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error, "product "+product.Slug)
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	ok, err := first(r.db.WithContext(ctx).Where("id = ?", id), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	ok, err := first(r.db.WithContext(ctx).Where("slug = ?", slug), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured {
		q = q.Where("featured = ?", true)
	}
	if filter.New {
		q = q.Where("is_new = ?", true)
	}
	if filter.Promo {
		q = q.Where("discount_price IS NOT NULL")
	}

	var out []domain.Product
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Update(ctx context.Context, id uint64, mutate func(p *domain.Product) error) (*domain.Product, error) {
	var out domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&out).Error; err != nil {
			return err
		}
		if err := mutate(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %d", id))
	}
	return &out, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("product %d", id))
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("product %d", id)
	}
	return nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("decrement stock of product %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the product is gone or it is short.
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("product %d", id)
	}
	return fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, id)
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}
