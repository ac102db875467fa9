package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gelvpress/gelv-backend/api/middleware"
	"github.com/gelvpress/gelv-backend/api/responses"
	"github.com/gelvpress/gelv-backend/api/validators"
	checkoutsvc "github.com/gelvpress/gelv-backend/internal/checkout"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

// CheckoutService runs the order pipeline for a session cart.
type CheckoutService interface {
	Submit(ctx context.Context, sessionID string, input checkoutsvc.SubmitInput) (*models.Payment, error)
	MarkPaid(ctx context.Context, paymentID int64, callerID uuid.UUID) (*models.Payment, error)
}

// CheckoutSubmit turns the session cart into a payment with order rows.
// Accepts both JSON and form-encoded billing bodies.
func CheckoutSubmit(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var input checkoutsvc.SubmitInput
		if err := validators.DecodeBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Submit(r.Context(), sessionID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPaymentResponse(payment))
	}
}

// PaymentConfirm flips a payment to paid once a bank transfer arrives.
// Only the payment's owner may confirm it.
func PaymentConfirm(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentID, err := strconv.ParseInt(chi.URLParam(r, "paymentId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment id"))
			return
		}

		payment, err := svc.MarkPaid(r.Context(), paymentID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

type paymentResponse struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	Paid         bool      `json:"paid"`
	Total        string    `json:"total"`
	BillingEmail string    `json:"billing_email"`
	InvoicePath  *string   `json:"invoice_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newPaymentResponse(payment *models.Payment) paymentResponse {
	return paymentResponse{
		ID:           payment.ID,
		Number:       payment.Number(),
		Paid:         payment.Paid,
		Total:        payment.TotalPrice().StringFixed(2),
		BillingEmail: payment.BillingEmail,
		InvoicePath:  payment.InvoicePath,
		CreatedAt:    payment.CreatedAt,
	}
}
