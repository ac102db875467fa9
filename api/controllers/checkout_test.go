package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gelvpress/gelv-backend/api/middleware"
	checkoutsvc "github.com/gelvpress/gelv-backend/internal/checkout"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
)

type stubCheckout struct {
	submitted    *checkoutsvc.SubmitInput
	sessionID    string
	payment      *models.Payment
	submitErr    error
	markPaidID   int64
	markPaidUser uuid.UUID
	markPaidErr  error
}

func (s *stubCheckout) Submit(_ context.Context, sessionID string, input checkoutsvc.SubmitInput) (*models.Payment, error) {
	s.sessionID = sessionID
	s.submitted = &input
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.payment, nil
}

func (s *stubCheckout) MarkPaid(_ context.Context, paymentID int64, callerID uuid.UUID) (*models.Payment, error) {
	s.markPaidID = paymentID
	s.markPaidUser = callerID
	if s.markPaidErr != nil {
		return nil, s.markPaidErr
	}
	return s.payment, nil
}

func TestCheckoutSubmit(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 42, BillingEmail: "anna@example.lv"}}
	handler := CheckoutSubmit(svc, nil)

	body := `{"payment_method":"bank_transfer","billing_email":"anna@example.lv","name":"Anna Berzina"}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/checkout", body))

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, "sess-1", svc.sessionID)
	require.Equal(t, "bank_transfer", svc.submitted.PaymentMethod)
	require.Equal(t, "Anna Berzina", svc.submitted.Name)

	data := decodeEnvelope(t, resp)
	require.Equal(t, "GK1000042", data["number"])
	require.Equal(t, "0.00", data["total"])
}

func TestCheckoutSubmitAcceptsFormBody(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 1}}
	handler := CheckoutSubmit(svc, nil)

	form := url.Values{}
	form.Set("payment_method", "bank_transfer")
	form.Set("billing_email", "anna@example.lv")
	form.Set("name", "Anna Berzina")
	form.Set("phone", "29111222")

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, "29111222", svc.submitted.Phone)
}

func TestCheckoutSubmitValidatesBody(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 1}}
	handler := CheckoutSubmit(svc, nil)

	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/checkout", `{"payment_method":"bank_transfer"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Nil(t, svc.submitted)
}

func TestCheckoutSubmitRequiresSession(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 1}}
	handler := CheckoutSubmit(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCheckoutSubmitConflictPassesThrough(t *testing.T) {
	svc := &stubCheckout{
		submitErr: pkgerrors.New(pkgerrors.CodeConflict, "you already own Bilance 6/2015"),
	}
	handler := CheckoutSubmit(svc, nil)

	body := `{"payment_method":"bank_transfer","billing_email":"anna@example.lv","name":"Anna Berzina"}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/checkout", body))

	require.Equal(t, http.StatusConflict, resp.Code)
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Contains(t, envelope.Error.Message, "Bilance 6/2015")
}

func confirmRequest(userID string, paymentID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("paymentId", paymentID)
	req := httptest.NewRequest(http.MethodPost, "/payments/"+paymentID+"/confirm", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = middleware.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func TestPaymentConfirm(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 42, Paid: true}}
	handler := PaymentConfirm(svc, nil)

	userID := uuid.New()
	resp := httptest.NewRecorder()
	handler(resp, confirmRequest(userID.String(), "42"))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, int64(42), svc.markPaidID)
	require.Equal(t, userID, svc.markPaidUser)
	data := decodeEnvelope(t, resp)
	require.Equal(t, true, data["paid"])
}

func TestPaymentConfirmRequiresUser(t *testing.T) {
	svc := &stubCheckout{payment: &models.Payment{ID: 42}}
	handler := PaymentConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler(resp, confirmRequest("", "42"))

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Zero(t, svc.markPaidID)
}

func TestPaymentConfirmForeignPaymentRejected(t *testing.T) {
	svc := &stubCheckout{
		markPaidErr: pkgerrors.New(pkgerrors.CodeForbidden, "payment belongs to another account"),
	}
	handler := PaymentConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler(resp, confirmRequest(uuid.NewString(), "42"))

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestPaymentConfirmInvalidID(t *testing.T) {
	svc := &stubCheckout{}
	handler := PaymentConfirm(svc, nil)

	resp := httptest.NewRecorder()
	handler(resp, confirmRequest(uuid.NewString(), "nope"))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
