package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a frozen snapshot of a cart line taken at checkout. It never
// changes after creation, regardless of later menu item edits.
type OrderItem struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	OrderID    uint  `gorm:"not null;index" json:"order_id"`
	Order      Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint  `gorm:"not null" json:"menu_item_id"`
	// No FK constraint here: menu item deletion is unrestricted, the snapshot
	// fields keep the order meaningful after the item is gone.
	MenuItem  MenuItem        `gorm:"foreignKey:MenuItemID;references:ID;constraint:-" json:"menu_item"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null" json:"-"`
	UpdatedAt time.Time       `gorm:"not null" json:"-"`
}
