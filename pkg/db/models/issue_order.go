package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueOrder records the purchase of a single issue. Price is snapshotted at
// checkout and never follows later catalog edits.
type IssueOrder struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID int64           `gorm:"column:payment_id;not null;index"`
	IssueID   int64           `gorm:"column:issue_id;not null;index"`
	Issue     Issue           `gorm:"foreignKey:IssueID"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
