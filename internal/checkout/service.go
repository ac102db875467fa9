// Package checkout turns a session cart into a persisted payment with order
// rows, then handles the post-commit invoice and mail side effects.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gelvpress/gelv-backend/internal/cart"
	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/internal/invoice"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	"github.com/gelvpress/gelv-backend/pkg/enums"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/logger"
	"github.com/gelvpress/gelv-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Failure reasons reported to the checkout metrics.
const (
	reasonEmptyCart     = "empty_cart"
	reasonPaymentMethod = "payment_method"
	reasonUnknownUser   = "unknown_user"
	reasonAlreadyOwned  = "already_owned"
	reasonPersistence   = "persistence"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSessions interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type userDirectory interface {
	ResolveByEmail(ctx context.Context, email string) (*models.User, error)
}

type ownershipChecker interface {
	OwnedIssues(ctx context.Context, userID uuid.UUID) ([]models.Issue, error)
}

type invoiceRenderer interface {
	Generate(payment models.Payment, issuedAt time.Time) (*invoice.Document, error)
	Save(doc *invoice.Document) (string, error)
}

type paymentNotifier interface {
	SendInvoice(ctx context.Context, payment models.Payment, doc *invoice.Document) error
	SendPaymentConfirmation(ctx context.Context, payment models.Payment) error
}

// SubmitInput carries the billing form posted at checkout.
type SubmitInput struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	BillingEmail  string `json:"billing_email" validate:"required,email"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	PersonalCode  string `json:"personal_code"`
	City          string `json:"city"`
	Address       string `json:"address"`
	PostalCode    string `json:"postal_code"`
	Comment       string `json:"comment"`
}

// Service executes checkout orchestration.
type Service struct {
	tx       txRunner
	sessions cartSessions
	users    userDirectory
	owned    ownershipChecker
	renderer invoiceRenderer
	notifier paymentNotifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	sessions cartSessions,
	users userDirectory,
	owned ownershipChecker,
	renderer invoiceRenderer,
	notifier paymentNotifier,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if owned == nil {
		return nil, fmt.Errorf("ownership checker required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("invoice renderer required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &Service{
		tx:       tx,
		sessions: sessions,
		users:    users,
		owned:    owned,
		renderer: renderer,
		notifier: notifier,
		metrics:  checkoutMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Submit runs the checkout pipeline for the session's cart. Validation is
// fail-fast and leaves no partial effects; all order rows and the billing
// write-back commit in one transaction. Invoice and mail run after commit
// and never roll the payment back.
func (s *Service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*models.Payment, error) {
	s.metrics.IncAttempt()
	start := s.now()
	defer func() {
		s.metrics.ObserveDuration(s.now().Sub(start))
	}()

	c, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		s.metrics.IncFailure(reasonPersistence)
		return nil, err
	}
	if c.IsEmpty() {
		s.metrics.IncFailure(reasonEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if _, err := enums.ParsePaymentMethod(input.PaymentMethod); err != nil {
		s.metrics.IncFailure(reasonPaymentMethod)
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	user, err := s.users.ResolveByEmail(ctx, input.BillingEmail)
	if err != nil {
		s.metrics.IncFailure(reasonUnknownUser)
		return nil, err
	}

	if err := s.rejectOwnedConflicts(ctx, user.ID, c); err != nil {
		s.metrics.IncFailure(reasonAlreadyOwned)
		return nil, err
	}

	payment, err := s.persistOrder(ctx, user, c, input)
	if err != nil {
		s.metrics.IncFailure(reasonPersistence)
		return nil, err
	}

	if err := s.sessions.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "payment_id", payment.ID), "failed to clear cart session after checkout")
	}

	s.deliverInvoice(ctx, payment)

	return payment, nil
}

// rejectOwnedConflicts fails when any cart issue is already owned, naming
// the conflicting titles.
func (s *Service) rejectOwnedConflicts(ctx context.Context, userID uuid.UUID, c *cart.Cart) error {
	issues := c.Issues()
	if len(issues) == 0 {
		return nil
	}

	owned, err := s.owned.OwnedIssues(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve owned issues")
	}
	ownedIDs := make(map[int64]struct{}, len(owned))
	for _, issue := range owned {
		ownedIDs[issue.ID] = struct{}{}
	}

	var conflicts []string
	for _, item := range issues {
		if _, ok := ownedIDs[item.Issue.ID]; ok {
			conflicts = append(conflicts, catalog.IssueLabel(item.Issue))
		}
	}
	if len(conflicts) > 0 {
		return pkgerrors.New(
			pkgerrors.CodeConflict,
			fmt.Sprintf("you already own %s", strings.Join(conflicts, ", ")),
		).WithDetails(map[string]any{"issues": conflicts})
	}
	return nil
}

func (s *Service) persistOrder(ctx context.Context, user *models.User, c *cart.Cart, input SubmitInput) (*models.Payment, error) {
	var payment models.Payment

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		payment = models.Payment{
			UserID:       user.ID,
			Paid:         false,
			BillingName:  input.Name,
			Phone:        input.Phone,
			PersonalCode: input.PersonalCode,
			City:         input.City,
			Address:      input.Address,
			PostalCode:   input.PostalCode,
			BillingEmail: strings.ToLower(strings.TrimSpace(input.BillingEmail)),
		}
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			payment.Comment = &comment
		}
		if err := tx.Create(&payment).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
		}

		for _, item := range c.Issues() {
			order := models.IssueOrder{
				PaymentID: payment.ID,
				IssueID:   item.Issue.ID,
				Price:     item.Price(),
			}
			if err := tx.Create(&order).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create issue order")
			}
			order.Issue = item.Issue
			payment.IssueOrders = append(payment.IssueOrders, order)
		}

		for _, item := range c.Subscriptions() {
			order := models.SubscriptionOrder{
				PaymentID:      payment.ID,
				SubscriptionID: item.Subscription.ID,
				Price:          item.Price(),
				Start:          item.Start,
				Amount:         1,
			}
			if err := tx.Create(&order).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subscription order")
			}
			order.Subscription = item.Subscription
			payment.SubscriptionOrders = append(payment.SubscriptionOrders, order)
		}

		updates := map[string]any{
			"billing_name":        input.Name,
			"billing_phone":       input.Phone,
			"personal_code":       input.PersonalCode,
			"billing_city":        input.City,
			"billing_address":     input.Address,
			"billing_postal_code": input.PostalCode,
			"billing_email":       payment.BillingEmail,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist billing details")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.User = *user
	return &payment, nil
}

// deliverInvoice renders, stores, attaches and mails the invoice. Failures
// are logged and never surface to the buyer; the payment already committed.
func (s *Service) deliverInvoice(ctx context.Context, payment *models.Payment) {
	if s.logg != nil {
		ctx = s.logg.WithField(ctx, "payment_id", payment.ID)
	}

	doc, err := s.renderer.Generate(*payment, s.now())
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "invoice generation failed", err)
		}
		return
	}

	path, err := s.renderer.Save(doc)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "invoice save failed", err)
		}
		return
	}

	attachErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Payment{}).Where("id = ?", payment.ID).
			UpdateColumn("invoice_path", path).Error
	})
	if attachErr != nil && s.logg != nil {
		s.logg.Error(ctx, "invoice attach failed", attachErr)
	} else {
		payment.InvoicePath = &path
	}

	if err := s.notifier.SendInvoice(ctx, *payment, doc); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "invoice email failed")
	}
}

// MarkPaid flips the payment to paid and sends the confirmation email once.
// Only the payment's owner may confirm it. Marking an already-paid payment
// is a no-op.
func (s *Service) MarkPaid(ctx context.Context, paymentID int64, callerID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	var flipped bool

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
		}
		if payment.UserID != callerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "payment belongs to another account")
		}
		if payment.Paid {
			return nil
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", paymentID).
			UpdateColumn("paid", true).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark payment paid")
		}
		payment.Paid = true
		flipped = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if flipped {
		if err := s.notifier.SendPaymentConfirmation(ctx, payment); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "payment_id", payment.ID), "payment confirmation email failed")
		}
	}

	return &payment, nil
}
