package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// invoiceNumberBase offsets payment row ids into the legacy invoice sequence.
const invoiceNumberBase = 1000000

// Payment is one checkout transaction. Rows are immutable after creation
// except for the paid transition and invoice attachment.
type Payment struct {
	ID     int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User   User      `gorm:"foreignKey:UserID"`
	Paid   bool      `gorm:"column:paid;not null;default:false"`

	BillingName  string  `gorm:"column:billing_name;not null"`
	Phone        string  `gorm:"column:phone"`
	PersonalCode string  `gorm:"column:personal_code"`
	City         string  `gorm:"column:city"`
	Address      string  `gorm:"column:address"`
	PostalCode   string  `gorm:"column:postal_code"`
	BillingEmail string  `gorm:"column:billing_email;not null"`
	InvoicePath  *string `gorm:"column:invoice_path"`
	Comment      *string `gorm:"column:comment"`

	IssueOrders        []IssueOrder        `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
	SubscriptionOrders []SubscriptionOrder `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Number derives the stable invoice display code from the row identity.
func (p Payment) Number() string {
	return fmt.Sprintf("GK%d", invoiceNumberBase+p.ID)
}

// TotalPrice sums the snapshotted prices of every associated order. Orders
// must be loaded.
func (p Payment) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, o := range p.IssueOrders {
		total = total.Add(o.Price)
	}
	for _, o := range p.SubscriptionOrders {
		total = total.Add(o.LineTotal())
	}
	return total
}
