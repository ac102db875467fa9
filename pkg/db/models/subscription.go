package models

import "time"

// Subscription is a journal offer covering Duration consecutive issues from a
// buyer-chosen start number.
type Subscription struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	JournalID int64   `gorm:"column:journal_id;not null;index"`
	Journal   Journal `gorm:"foreignKey:JournalID"`
	Duration  int     `gorm:"column:duration;not null"`
	Pricing   `gorm:"embedded"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
