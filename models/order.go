package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed order state enum.
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusDelivered OrderStatus = 1
)

// Valid reports whether s is a member of the enum.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusDelivered
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DeliveryCrewID *uint           `gorm:"index" json:"delivery_crew_id,omitempty"`
	DeliveryCrew   *User           `gorm:"foreignKey:DeliveryCrewID;references:ID" json:"delivery_crew,omitempty"`
	Status         OrderStatus     `gorm:"not null;default:0" json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Date           time.Time       `gorm:"not null" json:"date"`
	OrderItems     []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt      time.Time       `gorm:"not null" json:"-"`
	UpdatedAt      time.Time       `gorm:"not null" json:"-"`
}
