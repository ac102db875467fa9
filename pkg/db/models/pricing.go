package models

import "github.com/shopspring/decimal"

// Pricing carries the purchasable-product columns shared by issues and
// subscriptions.
type Pricing struct {
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	DiscountedPrice *decimal.Decimal `gorm:"column:discounted_price;type:numeric(10,2)"`
	// No default tag: GORM skips zero-valued fields that carry one on
	// insert, which would silently store false as true.
	IsActive bool `gorm:"column:is_active;not null"`
}

// CurrentPrice resolves the effective sale price: the discounted price when
// set, the base price otherwise.
func (p Pricing) CurrentPrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}
