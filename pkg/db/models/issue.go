package models

import "time"

// Issue is a single numbered installment of a journal. Number is a
// globally-incrementing sequence per journal anchored at a fixed epoch, not a
// calendar month.
type Issue struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	JournalID   int64   `gorm:"column:journal_id;not null;index"`
	Journal     Journal `gorm:"foreignKey:JournalID"`
	Number      int     `gorm:"column:number;not null"`
	Description string  `gorm:"column:description"`
	FilePath    *string `gorm:"column:file_path"`
	Pricing     `gorm:"embedded"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
