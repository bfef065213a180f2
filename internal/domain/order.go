package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", Invalidf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Reference       string          `json:"reference" gorm:"type:varchar(64);not null;uniqueIndex"`
	UserID          uint64          `json:"userId" gorm:"not null;index"`
	User            *User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ShippingAddress string          `json:"shippingAddress" gorm:"type:varchar(255);not null"`
	City            string          `json:"city" gorm:"type:varchar(100);not null"`
	PostalCode      string          `json:"postalCode" gorm:"type:varchar(20);not null"`
	Phone           string          `json:"phone" gorm:"type:varchar(32);not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem freezes the unit price paid at checkout. It is never repriced from
// the live product.
type OrderItem struct {
	ID        uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64          `json:"orderId" gorm:"not null;index"`
	ProductID uint64          `json:"productId" gorm:"not null;index"`
	Quantity  int64           `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

type ShippingInfo struct {
	Address    string `json:"shippingAddress"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

func (s ShippingInfo) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "shippingAddress")
	}
	if strings.TrimSpace(s.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(s.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return Invalidf("missing shipping fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// OrderDetails is the back-office view of an order: the order with its items
// plus who placed it.
type OrderDetails struct {
	Order
	Customer *CustomerSummary `json:"user"`
}

type DailySales struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OrderStats struct {
	OrderCount   int64                 `json:"orderCount"`
	Revenue      decimal.Decimal       `json:"revenue"`
	ByStatus     map[OrderStatus]int64 `json:"byStatus"`
	Daily        []DailySales          `json:"daily"`
	ProductCount int64                 `json:"productCount"`
	UserCount    int64                 `json:"userCount"`
}
