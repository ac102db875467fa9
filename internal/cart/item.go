package cart

import (
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/gelvpress/gelv-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Item is one cart line. The set of implementations is closed: issues carry
// no metadata, subscriptions carry the start issue number. Equality is
// structural (product identity plus metadata), so the same subscription with
// two different starts is two distinct lines.
type Item interface {
	Kind() enums.ProductKind
	ProductID() int64
	Price() decimal.Decimal
	Equal(other Item) bool

	metadata() map[string]any
}

// IssueItem is a single purchasable issue.
type IssueItem struct {
	Issue models.Issue
}

// NewIssueItem wraps an issue as a cart line.
func NewIssueItem(issue models.Issue) IssueItem {
	return IssueItem{Issue: issue}
}

func (i IssueItem) Kind() enums.ProductKind { return enums.ProductKindIssue }

func (i IssueItem) ProductID() int64 { return i.Issue.ID }

func (i IssueItem) Price() decimal.Decimal { return i.Issue.CurrentPrice() }

func (i IssueItem) Equal(other Item) bool {
	o, ok := other.(IssueItem)
	return ok && o.Issue.ID == i.Issue.ID
}

func (i IssueItem) metadata() map[string]any { return nil }

// SubscriptionItem is a subscription run starting at a chosen issue number.
type SubscriptionItem struct {
	Subscription models.Subscription
	Start        int
}

// NewSubscriptionItem wraps a subscription as a cart line starting at the
// given issue number.
func NewSubscriptionItem(sub models.Subscription, start int) SubscriptionItem {
	return SubscriptionItem{Subscription: sub, Start: start}
}

func (s SubscriptionItem) Kind() enums.ProductKind { return enums.ProductKindSubscription }

func (s SubscriptionItem) ProductID() int64 { return s.Subscription.ID }

func (s SubscriptionItem) Price() decimal.Decimal { return s.Subscription.CurrentPrice() }

func (s SubscriptionItem) Equal(other Item) bool {
	o, ok := other.(SubscriptionItem)
	return ok && o.Subscription.ID == s.Subscription.ID && o.Start == s.Start
}

func (s SubscriptionItem) metadata() map[string]any {
	return map[string]any{"start": s.Start}
}
