package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// taxRate is the multiplier applied to a menu item price to obtain
// price_after_tax. The taxed price is derived on serialization, never stored.
var taxRate = decimal.NewFromFloat(1.10)

type MenuItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Featured   bool            `gorm:"not null;default:false" json:"featured"`
	CategoryID uint            `gorm:"not null" json:"category_id"`
	Category   Category        `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Inventory  int             `gorm:"not null;default:0" json:"inventory"`
	CreatedAt  time.Time       `gorm:"not null" json:"-"`
	UpdatedAt  time.Time       `gorm:"not null" json:"-"`
}

// PriceAfterTax derives the taxed price of the item.
func (m MenuItem) PriceAfterTax() decimal.Decimal {
	return m.Price.Mul(taxRate).Round(2)
}
