package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	// Items are written one by one through CreateItem.
	return translate(r.db.WithContext(ctx).Omit("Items", "User").Create(order).Error, "order "+order.Reference)
}

func (r *orderRepo) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	err := r.db.WithContext(ctx).Omit("Product").Create(item).Error
	return translate(err, fmt.Sprintf("item of order %d", item.OrderID))
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var order domain.Order
	q := r.db.WithContext(ctx).Preload("Items", orderItems).Preload("Items.Product").Where("id = ?", id)
	ok, err := first(q, &order)
	if err != nil || !ok {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", orderItems).
		Preload("Items.Product").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	return res.Error
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	var rows []struct {
		Status domain.OrderStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[domain.OrderStatus]int64, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// Revenue sums the totals of every order that was not cancelled.
func (r *orderRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status <> ?", domain.StatusCancelled).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *orderRepo) DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error) {
	var rows []struct {
		Day     time.Time
		Orders  int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, domain.StatusCancelled).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.DailySales, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DailySales{
			Day:     row.Day.Format("2006-01-02"),
			Orders:  row.Orders,
			Revenue: row.Revenue,
		})
	}
	return out, nil
}
