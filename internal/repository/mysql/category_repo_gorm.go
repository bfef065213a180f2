package mysql

import (
	"context"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "category "+category.Slug)
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	ok, err := first(r.db.WithContext(ctx).Where("id = ?", id), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	ok, err := first(r.db.WithContext(ctx).Where("slug = ?", slug), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "category "+category.Slug)
}

func (r *categoryRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("category %d", id))
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("category %d", id)
	}
	return nil
}

func (r *categoryRepo) CountProducts(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
