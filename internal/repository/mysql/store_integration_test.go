package mysql

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/database"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StoreSuite runs against a disposable MySQL schema given by TEST_MYSQL_DSN,
// e.g. root:root@tcp(localhost:3306)/phonegear_test?parseTime=true.
type StoreSuite struct {
	suite.Suite
	db    *gorm.DB
	store repository.Store
	ctx   context.Context

	user    *domain.User
	product *domain.Product
}

func TestStoreSuite(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	suite.Run(t, &StoreSuite{})
}

func (s *StoreSuite) SetupSuite() {
	db, err := gorm.Open(gormmysql.Open(os.Getenv("TEST_MYSQL_DSN")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))

	s.db = db
	s.store = NewStore(db)
	s.ctx = context.Background()
}

func (s *StoreSuite) SetupTest() {
	// FOREIGN_KEY_CHECKS is per session, so truncate on one connection.
	err := s.db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
			return err
		}
		for _, table := range []string{"order_items", "orders", "cart_items", "products", "categories", "users"} {
			if err := conn.Exec("TRUNCATE TABLE " + table).Error; err != nil {
				return err
			}
		}
		return conn.Exec("SET FOREIGN_KEY_CHECKS = 1").Error
	})
	s.Require().NoError(err)

	s.user = &domain.User{Username: "user", Email: "user@example.com", PasswordHash: "x"}
	s.Require().NoError(s.store.Users().Create(s.ctx, s.user))

	category := &domain.Category{Name: "Powerbanks", Slug: "powerbanks"}
	s.Require().NoError(s.store.Categories().Create(s.ctx, category))

	s.product = &domain.Product{
		Name:       "Powerbank 20000mAh",
		Slug:       "powerbank-20000mah",
		Price:      decimal.RequireFromString("49.99"),
		Stock:      5,
		CategoryID: category.ID,
	}
	s.Require().NoError(s.store.Products().Create(s.ctx, s.product))
}

func (s *StoreSuite) TestAddOrIncrementMergesRows() {
	carts := s.store.Carts()
	s.Require().NoError(carts.AddOrIncrement(s.ctx, s.user.ID, s.product.ID, 1))
	s.Require().NoError(carts.AddOrIncrement(s.ctx, s.user.ID, s.product.ID, 2))

	items, err := carts.ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(int64(3), items[0].Quantity)
	s.Require().NotNil(items[0].Product)
	s.Equal(s.product.Slug, items[0].Product.Slug)
}

func (s *StoreSuite) TestDecrementStockIsGuarded() {
	products := s.store.Products()

	s.Require().NoError(products.DecrementStock(s.ctx, s.product.ID, 3))

	err := products.DecrementStock(s.ctx, s.product.ID, 3)
	s.ErrorIs(err, domain.ErrInsufficientStock)

	err = products.DecrementStock(s.ctx, 9999, 1)
	s.ErrorIs(err, domain.ErrNotFound)

	p, err := products.FindByID(s.ctx, s.product.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), p.Stock)
}

func (s *StoreSuite) TestTransactionRollsBack() {
	s.Require().NoError(s.store.Carts().AddOrIncrement(s.ctx, s.user.ID, s.product.ID, 2))

	err := s.store.WithinTransaction(s.ctx, func(tx repository.Store) error {
		order := &domain.Order{
			Reference:       "20240309140506-rollback",
			UserID:          s.user.ID,
			TotalAmount:     decimal.RequireFromString("99.98"),
			Status:          domain.StatusPending,
			ShippingAddress: "1 rue",
			City:            "Tunis",
			PostalCode:      "1000",
			Phone:           "123",
		}
		if err := tx.Orders().Create(s.ctx, order); err != nil {
			return err
		}
		if err := tx.Products().DecrementStock(s.ctx, s.product.ID, 2); err != nil {
			return err
		}
		if _, err := tx.Carts().ClearByUser(s.ctx, s.user.ID); err != nil {
			return err
		}
		return tx.Products().DecrementStock(s.ctx, s.product.ID, 10)
	})
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	orders, err := s.store.Orders().ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Empty(orders)

	p, err := s.store.Products().FindByID(s.ctx, s.product.ID)
	s.Require().NoError(err)
	s.Equal(int64(5), p.Stock)

	items, err := s.store.Carts().ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Len(items, 1)
}

func (s *StoreSuite) TestOrderRoundTripAndStats() {
	order := &domain.Order{
		Reference:       "20240309140506-stats",
		UserID:          s.user.ID,
		TotalAmount:     decimal.RequireFromString("49.99"),
		Status:          domain.StatusPending,
		ShippingAddress: "1 rue",
		City:            "Tunis",
		PostalCode:      "1000",
		Phone:           "123",
	}
	s.Require().NoError(s.store.Orders().Create(s.ctx, order))
	s.Require().NoError(s.store.Orders().CreateItem(s.ctx, &domain.OrderItem{
		OrderID:   order.ID,
		ProductID: s.product.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("49.99"),
	}))

	got, err := s.store.Orders().FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Require().NotNil(got.Items[0].Product)
	s.Equal("49.99", got.Items[0].UnitPrice.StringFixed(2))

	s.Require().NoError(s.store.Orders().UpdateStatus(s.ctx, order.ID, domain.StatusShipped))

	byStatus, err := s.store.Orders().CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), byStatus[domain.StatusShipped])
	s.Equal(int64(0), byStatus[domain.StatusPending])

	revenue, err := s.store.Orders().Revenue(s.ctx)
	s.Require().NoError(err)
	s.Equal("49.99", revenue.StringFixed(2))

	daily, err := s.store.Orders().DailySales(s.ctx, time.Now().AddDate(0, 0, -1))
	s.Require().NoError(err)
	s.Require().NotEmpty(daily)
	s.Equal(int64(1), daily[len(daily)-1].Orders)
}

func (s *StoreSuite) TestDuplicateSlugIsConflict() {
	err := s.store.Categories().Create(s.ctx, &domain.Category{Name: "Again", Slug: "powerbanks"})
	s.True(errors.Is(err, domain.ErrConflict), "got %v", err)
}
