package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	Product   *Product  `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// CartLine is a cart row joined with its current product.
type CartLine struct {
	CartItem
	Product   Product         `json:"product"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	Items []CartLine      `json:"items"`
	Count int64           `json:"cartCount"`
	Total decimal.Decimal `json:"cartTotal"`
}

// NewCartView prices each row at its product's effective price and sums them.
// Rows whose product was not loaded are skipped.
func NewCartView(items []CartItem) *CartView {
	view := &CartView{Items: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		unit := it.Product.EffectivePrice()
		line := unit.Mul(decimal.NewFromInt(it.Quantity))
		row := it
		row.Product = nil
		view.Items = append(view.Items, CartLine{
			CartItem:  row,
			Product:   *it.Product,
			UnitPrice: unit,
			LineTotal: line,
		})
		view.Count += it.Quantity
		view.Total = view.Total.Add(line)
	}
	return view
}

func (v *CartView) Empty() bool {
	return len(v.Items) == 0
}
