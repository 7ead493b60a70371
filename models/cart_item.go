package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one pending line of a user's cart. UnitPrice is the menu item
// price captured at add-time; Price is UnitPrice * Quantity. Several lines for
// the same (user, menu item) pair may coexist.
type CartItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	User       User            `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint            `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem        `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"menu_item"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time       `gorm:"not null" json:"-"`
	UpdatedAt  time.Time       `gorm:"not null" json:"-"`
}
