package models

import "time"

// DefaultFrequency is the number of issues a journal publishes per year cycle.
const DefaultFrequency = 12

// Journal is a periodical title owning issues and subscription offers.
type Journal struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;not null"`
	Frequency int    `gorm:"column:frequency;not null;default:12"`

	Issues        []Issue        `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE"`
	Subscriptions []Subscription `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IssuesPerYear returns the journal frequency, falling back to the default
// when the row predates the column.
func (j Journal) IssuesPerYear() int {
	if j.Frequency <= 0 {
		return DefaultFrequency
	}
	return j.Frequency
}
