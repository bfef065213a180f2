package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

// NewStore returns a repository.Store backed by db. The connection must be
// opened with TranslateError enabled for conflicts to be reported as such.
func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() repository.UserRepository         { return &userRepo{db: s.db} }
func (s *store) Categories() repository.CategoryRepository { return &categoryRepo{db: s.db} }
func (s *store) Products() repository.ProductRepository   { return &productRepo{db: s.db} }
func (s *store) Carts() repository.CartRepository         { return &cartRepo{db: s.db} }
func (s *store) Orders() repository.OrderRepository       { return &orderRepo{db: s.db} }

func (s *store) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// translate maps gorm errors onto the domain taxonomy. what names the record
// for the error message.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundf("%s", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflictf("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.Conflictf("%s is referenced by other records", what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// first loads one record, reporting a missing row as (false, nil).
func first(q *gorm.DB, dest any) (bool, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
