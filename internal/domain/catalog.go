package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string `json:"slug" gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"imageUrl" gorm:"type:varchar(512)"`
}

type Product struct {
	ID            uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string              `json:"name" gorm:"type:varchar(255);not null"`
	Slug          string              `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description   string              `json:"description" gorm:"type:text"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" gorm:"type:decimal(10,2)"`
	Stock         int64               `json:"stock" gorm:"not null;default:0"`
	ImageURL      string              `json:"imageUrl" gorm:"type:varchar(512)"`
	CategoryID    uint64              `json:"categoryId" gorm:"not null;index"`
	Category      *Category           `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Featured      bool                `json:"featured" gorm:"not null;default:false;index"`
	IsNew         bool                `json:"isNew" gorm:"not null;default:false;index"`
	Rating        decimal.Decimal     `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	NumReviews    int64               `json:"numReviews" gorm:"not null;default:0"`
	CreatedAt     time.Time           `json:"createdAt" gorm:"autoCreateTime"`
}

// EffectivePrice is the discount price when one is set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

func (p *Product) OnPromo() bool {
	return p.DiscountPrice.Valid
}

// ProductFilter narrows a product listing. Zero value lists everything.
type ProductFilter struct {
	CategoryID *uint64
	Featured   bool
	New        bool
	Promo      bool
}
