package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	Reference   string          `json:"reference"`
	UserID      uint64          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint64      `json:"orderId"`
	Previous  OrderStatus `json:"previous"`
	Status    OrderStatus `json:"status"`
	ChangedBy uint64      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
}
