package catalog

import (
	"context"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListJournals loads every journal with its active issues and subscriptions.
func (r *Repository) ListJournals(ctx context.Context) ([]models.Journal, error) {
	var journals []models.Journal
	err := r.db.WithContext(ctx).
		Preload("Issues", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("number DESC")
		}).
		Preload("Subscriptions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("duration ASC")
		}).
		Order("name ASC").
		Find(&journals).Error
	if err != nil {
		return nil, err
	}
	return journals, nil
}

// FindJournalByID loads a journal by its id.
func (r *Repository) FindJournalByID(ctx context.Context, id int64) (*models.Journal, error) {
	var journal models.Journal
	if err := r.db.WithContext(ctx).First(&journal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &journal, nil
}

// FindIssueByID loads an issue with its journal.
func (r *Repository) FindIssueByID(ctx context.Context, id int64) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).Preload("Journal").First(&issue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindSubscriptionByID loads a subscription with its journal.
func (r *Repository) FindSubscriptionByID(ctx context.Context, id int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Preload("Journal").First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// LatestIssueNumber returns the highest issue number published for the
// journal, or -1 when the journal has no issues yet.
func (r *Repository) LatestIssueNumber(ctx context.Context, journalID int64) (int, error) {
	var latest *int
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("journal_id = ?", journalID).
		Select("MAX(number)").
		Scan(&latest).Error
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return -1, nil
	}
	return *latest, nil
}
