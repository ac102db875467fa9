// Package ownership answers which issues a user may download: everything
// bought directly plus everything covered by a paid subscription run.
package ownership

import (
	"context"
	"fmt"
	"sort"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver computes issue ownership from paid payments.
type Resolver struct {
	db *gorm.DB
}

// NewResolver builds the ownership resolver.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Resolver{db: db}, nil
}

// WithTx returns a resolver bound to the provided transaction handle.
func (r *Resolver) WithTx(tx *gorm.DB) *Resolver {
	if tx == nil {
		return r
	}
	return &Resolver{db: tx}
}

// OwnedIssues returns every issue the user owns, deduplicated and ordered by
// id. Only issues that still exist count: a subscription range reaching past
// the published run contributes nothing for the missing numbers.
func (r *Resolver) OwnedIssues(ctx context.Context, userID uuid.UUID) ([]models.Issue, error) {
	owned := map[int64]models.Issue{}

	var direct []models.Issue
	err := r.db.WithContext(ctx).
		Joins("JOIN issue_orders ON issue_orders.issue_id = issues.id").
		Joins("JOIN payments ON payments.id = issue_orders.payment_id").
		Where("payments.user_id = ? AND payments.paid = ?", userID, true).
		Preload("Journal").
		Find(&direct).Error
	if err != nil {
		return nil, fmt.Errorf("loading purchased issues: %w", err)
	}
	for _, issue := range direct {
		owned[issue.ID] = issue
	}

	var subOrders []models.SubscriptionOrder
	err = r.db.WithContext(ctx).
		Joins("JOIN payments ON payments.id = subscription_orders.payment_id").
		Where("payments.user_id = ? AND payments.paid = ?", userID, true).
		Preload("Subscription").
		Find(&subOrders).Error
	if err != nil {
		return nil, fmt.Errorf("loading subscription orders: %w", err)
	}

	for _, order := range subOrders {
		var covered []models.Issue
		err := r.db.WithContext(ctx).
			Where("journal_id = ? AND number >= ? AND number < ?",
				order.Subscription.JournalID, order.Start, order.End()).
			Preload("Journal").
			Find(&covered).Error
		if err != nil {
			return nil, fmt.Errorf("loading subscription issues: %w", err)
		}
		for _, issue := range covered {
			owned[issue.ID] = issue
		}
	}

	out := make([]models.Issue, 0, len(owned))
	for _, issue := range owned {
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Owns reports whether the user owns the given issue.
func (r *Resolver) Owns(ctx context.Context, userID uuid.UUID, issueID int64) (bool, error) {
	issues, err := r.OwnedIssues(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, issue := range issues {
		if issue.ID == issueID {
			return true, nil
		}
	}
	return false, nil
}
