package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gelvpress/gelv-backend/pkg/config"
	"github.com/google/uuid"
)

func TestSessionUsesTokenJTI(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, uuid.New(), "cart-session-7")

	var captured string
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if captured != "cart-session-7" {
		t.Fatalf("expected token jti as session id, got %q", captured)
	}
	if got := resp.Header().Get(sessionIDHeader); got != "cart-session-7" {
		t.Fatalf("expected session header echoed, got %q", got)
	}
}

func TestSessionFallsBackToHeader(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	var captured string
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionIDHeader, "anon-42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if captured != "anon-42" {
		t.Fatalf("expected header session id, got %q", captured)
	}
}

func TestSessionMintsFreshID(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	var captured string
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if captured == "" {
		t.Fatal("expected a minted session id")
	}
	if got := resp.Header().Get(sessionIDHeader); got != captured {
		t.Fatalf("expected minted id echoed in header, got %q want %q", got, captured)
	}
}
