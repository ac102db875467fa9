package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gelvpress/gelv-backend/api/middleware"
	"github.com/gelvpress/gelv-backend/api/responses"
	"github.com/gelvpress/gelv-backend/api/validators"
	cartsvc "github.com/gelvpress/gelv-backend/internal/cart"
	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/gelvpress/gelv-backend/pkg/enums"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

// CartStore loads and persists session carts.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cartsvc.Cart, error)
	Save(ctx context.Context, sessionID string, c *cartsvc.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// CartFetch returns the session cart with its line items and total.
func CartFetch(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _, err := loadSessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

// CartCount returns just the line count, for badge polling without the
// full cart payload.
func CartCount(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _, err := loadSessionCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartCountResponse{Count: c.Count()})
	}
}

type cartCountResponse struct {
	Count int `json:"count"`
}

type addIssueRequest struct {
	IssueID int64 `json:"issue_id" validate:"required"`
}

// CartAddIssue puts a single issue in the cart. Adding an issue that is
// already in the cart is a no-op reported in the response.
func CartAddIssue(store CartStore, products cartsvc.ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addIssueRequest
		if err := validators.DecodeBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issue, err := products.GetIssue(r.Context(), payload.IssueID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutateCart(w, r, store, logg, func(c *cartsvc.Cart) (bool, error) {
			return c.Add(cartsvc.NewIssueItem(*issue)), nil
		})
	}
}

type addSubscriptionRequest struct {
	SubscriptionID int64 `json:"subscription_id" validate:"required"`
	Start          *int  `json:"start" validate:"omitempty,gte=0"`
}

// CartAddSubscription puts a subscription run in the cart. Without an
// explicit start the run begins at the journal's latest published issue.
func CartAddSubscription(store CartStore, products cartsvc.ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addSubscriptionRequest
		if err := validators.DecodeBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := products.GetSubscription(r.Context(), payload.SubscriptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var item cartsvc.SubscriptionItem
		if payload.Start != nil {
			item = cartsvc.NewSubscriptionItem(*sub, *payload.Start)
		} else {
			item, err = cartsvc.DefaultSubscriptionItem(r.Context(), products, *sub)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		mutateCart(w, r, store, logg, func(c *cartsvc.Cart) (bool, error) {
			return c.Add(item), nil
		})
	}
}

type removeItemRequest struct {
	Type  string `json:"type" validate:"required"`
	ID    int64  `json:"id" validate:"required"`
	Start *int   `json:"start" validate:"omitempty,gte=0"`
}

// CartRemove drops the structurally matching line. Lines are matched the way
// they are stored: issues by product id, subscriptions by product id plus
// start number.
func CartRemove(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeItemRequest
		if err := validators.DecodeBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := payload.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutateCart(w, r, store, logg, func(c *cartsvc.Cart) (bool, error) {
			return c.Remove(item), nil
		})
	}
}

func (p removeItemRequest) toItem() (cartsvc.Item, error) {
	kind, err := enums.ParseProductKind(p.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item type")
	}

	switch kind {
	case enums.ProductKindIssue:
		return cartsvc.NewIssueItem(models.Issue{ID: p.ID}), nil
	case enums.ProductKindSubscription:
		if p.Start == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription lines require a start number")
		}
		return cartsvc.NewSubscriptionItem(models.Subscription{ID: p.ID}, *p.Start), nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item type")
}

type editSubscriptionRequest struct {
	SubscriptionID int64 `json:"subscription_id" validate:"required"`
	Start          int   `json:"start" validate:"gte=0"`
	NewStart       int   `json:"new_start" validate:"gte=0"`
}

// CartEditMeta moves a subscription line to a new start number. The edit is
// rejected when it would collide with another line.
func CartEditMeta(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload editSubscriptionRequest
		if err := validators.DecodeBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		existing := cartsvc.NewSubscriptionItem(models.Subscription{ID: payload.SubscriptionID}, payload.Start)
		meta := map[string]any{"start": payload.NewStart}

		mutateCart(w, r, store, logg, func(c *cartsvc.Cart) (bool, error) {
			return c.EditMeta(existing, meta), nil
		})
	}
}

// CartClear drops the whole session cart.
func CartClear(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}
		if err := store.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cartsvc.New()))
	}
}

// mutateCart loads the session cart, applies the mutation and saves the
// result when the cart changed.
func mutateCart(
	w http.ResponseWriter,
	r *http.Request,
	store CartStore,
	logg *logger.Logger,
	fn func(c *cartsvc.Cart) (bool, error),
) {
	c, sessionID, err := loadSessionCart(r, store)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	changed, err := fn(c)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	if changed {
		if err := store.Save(r.Context(), sessionID, c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}

	responses.WriteSuccess(w, cartMutationResponse{
		Changed: changed,
		Cart:    newCartResponse(c),
	})
}

func loadSessionCart(r *http.Request, store CartStore) (*cartsvc.Cart, string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	c, err := store.Load(r.Context(), sessionID)
	if err != nil {
		return nil, "", err
	}
	return c, sessionID, nil
}

type cartMutationResponse struct {
	Changed bool         `json:"changed"`
	Cart    cartResponse `json:"cart"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Count int                `json:"count"`
	Total string             `json:"total"`
}

type cartItemResponse struct {
	Type     string         `json:"type"`
	ID       int64          `json:"id"`
	Label    string         `json:"label"`
	Price    string         `json:"price"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	items := make([]cartItemResponse, 0, c.Count())
	for _, item := range c.Items() {
		view := cartItemResponse{
			Type:  item.Kind().String(),
			ID:    item.ProductID(),
			Price: item.Price().StringFixed(2),
		}
		switch line := item.(type) {
		case cartsvc.IssueItem:
			view.Label = catalog.IssueLabel(line.Issue)
		case cartsvc.SubscriptionItem:
			view.Label = subscriptionCartLabel(line)
			view.Metadata = map[string]any{"start": line.Start}
		}
		items = append(items, view)
	}

	return cartResponse{
		Items: items,
		Count: c.Count(),
		Total: c.TotalPrice().StringFixed(2),
	}
}

func subscriptionCartLabel(line cartsvc.SubscriptionItem) string {
	from := line.Start
	to := from + line.Subscription.Duration - 1
	return fmt.Sprintf("%s abonements %d - %d", line.Subscription.Journal.Name, from, to)
}
