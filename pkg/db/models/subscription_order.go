package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionOrder records the purchase of a subscription run. Start marks
// the first covered issue number; the covered range is [Start, End).
type SubscriptionOrder struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID      int64           `gorm:"column:payment_id;not null;index"`
	SubscriptionID int64           `gorm:"column:subscription_id;not null;index"`
	Subscription   Subscription    `gorm:"foreignKey:SubscriptionID"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Start          int             `gorm:"column:start;not null"`
	Amount         int             `gorm:"column:amount;not null;default:1"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// End returns the first issue number past the covered range. The
// subscription association must be loaded.
func (o SubscriptionOrder) End() int {
	return o.Start + o.Subscription.Duration
}

// LineTotal multiplies the snapshotted price by the ordered amount.
func (o SubscriptionOrder) LineTotal() decimal.Decimal {
	amount := o.Amount
	if amount <= 0 {
		amount = 1
	}
	return o.Price.Mul(decimal.NewFromInt(int64(amount)))
}
