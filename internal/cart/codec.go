package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/gelvpress/gelv-backend/pkg/enums"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
)

// RawItem is the flat wire record a cart line serializes to.
type RawItem struct {
	Type     string         `json:"type"`
	ID       int64          `json:"id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ProductSource resolves cart records back into catalog entities.
type ProductSource interface {
	GetIssue(ctx context.Context, id int64) (*models.Issue, error)
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	LatestIssueNumber(ctx context.Context, journalID int64) (int, error)
}

// Raw returns the cart's serializable record list in line order.
func (c *Cart) Raw() []RawItem {
	out := make([]RawItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, RawItem{
			Type:     item.Kind().String(),
			ID:       item.ProductID(),
			Metadata: item.metadata(),
		})
	}
	return out
}

// FromRaw rebuilds a cart from wire records. Validation is strict: an
// unknown type, a product that no longer exists, or malformed metadata fails
// the whole load rather than silently dropping the line.
func FromRaw(ctx context.Context, source ProductSource, records []RawItem) (*Cart, error) {
	c := New()
	for i, record := range records {
		item, err := itemFromRaw(ctx, source, record)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("cart record %d invalid", i))
		}
		c.Add(item)
	}
	return c, nil
}

func itemFromRaw(ctx context.Context, source ProductSource, record RawItem) (Item, error) {
	kind, err := enums.ParseProductKind(record.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case enums.ProductKindIssue:
		if len(record.Metadata) != 0 {
			return nil, fmt.Errorf("issue records carry no metadata")
		}
		issue, err := source.GetIssue(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		return NewIssueItem(*issue), nil

	case enums.ProductKindSubscription:
		if len(record.Metadata) != 1 {
			return nil, fmt.Errorf("subscription records carry exactly one metadata key, the start number")
		}
		start, ok := intFromMeta(record.Metadata, "start")
		if !ok || start < 0 {
			return nil, fmt.Errorf("subscription records require a non-negative start number")
		}
		sub, err := source.GetSubscription(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		return NewSubscriptionItem(*sub, start), nil
	}

	return nil, fmt.Errorf("unhandled product kind %q", kind)
}

// DefaultSubscriptionItem builds a subscription line starting at the
// journal's latest published issue number. A journal with no issues yet
// starts at zero.
func DefaultSubscriptionItem(ctx context.Context, source ProductSource, sub models.Subscription) (SubscriptionItem, error) {
	latest, err := source.LatestIssueNumber(ctx, sub.JournalID)
	if err != nil {
		return SubscriptionItem{}, err
	}
	if latest < 0 {
		latest = 0
	}
	return NewSubscriptionItem(sub, latest), nil
}

func intFromMeta(meta map[string]any, key string) (int, bool) {
	raw, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
