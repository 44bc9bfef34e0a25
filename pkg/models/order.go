package models

import (
	"time"
)

// OrderStatus is the closed set of states an order can be in. There is no
// enforced transition graph: updates accept any member of the set.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CustomerName string      `gorm:"type:varchar(100);not null" json:"customer_name"`
	Phone        string      `gorm:"type:varchar(32);not null" json:"phone"`
	PickupTime   time.Time   `gorm:"not null" json:"pickup_time"`
	SendTime     time.Time   `gorm:"not null" json:"send_time"`
	PrepMinutes  int         `gorm:"default:20" json:"prep_minutes"`
	Status       OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(10,2)" json:"total_amount"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the menu item price at order time; a later catalog
// price change must not alter the stored unit_price or subtotal.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ItemID    uint    `gorm:"not null" json:"item_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
