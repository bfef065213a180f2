package mysql

import (
	"context"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user "+user.Username)
}

func (r *userRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepo) findOne(q *gorm.DB) (*domain.User, error) {
	var u domain.User
	ok, err := first(q, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Save(user)
	return translate(res.Error, fmt.Sprintf("user %d", user.ID))
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}
