package services

import (
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	customer = domain.Identity{UserID: 1}
	admin    = domain.Identity{UserID: 99, IsAdmin: true}
	nobody   = domain.Identity{}
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createMockProduct(id uint64, slug, price string, stock int64) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       slug,
		Slug:       slug,
		Price:      money(price),
		Stock:      stock,
		CategoryID: 1,
		CreatedAt:  time.Now(),
	}
}

func withDiscount(p *domain.Product, price string) *domain.Product {
	p.DiscountPrice = decimal.NewNullDecimal(money(price))
	return p
}

func createMockCartItem(id, userID uint64, product *domain.Product, qty int64) domain.CartItem {
	return domain.CartItem{
		ID:        id,
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  qty,
		Product:   product,
	}
}

var validShipping = domain.ShippingInfo{
	Address:    "12 rue de la Paix",
	City:       "Tunis",
	PostalCode: "1000",
	Phone:      "+216 20 000 000",
}
