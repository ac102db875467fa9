package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	pkgAuth "github.com/gelvpress/gelv-backend/pkg/auth"
	"github.com/gelvpress/gelv-backend/pkg/config"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the cart session identifier for the request. Logged-in
// clients carry it as the token's jti claim; anonymous clients send the
// X-Session-Id header. First-time visitors get a fresh id echoed back in
// the response header so the client can persist it.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sessionID := ""

			if token := bearerToken(r); token != "" {
				if claims, err := pkgAuth.ParseAccessToken(cfg, token); err == nil {
					sessionID = claims.ID
					ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
					if claims.Email != "" {
						ctx = context.WithValue(ctx, ctxUserEmail, claims.Email)
					}
				}
			}

			if sessionID == "" {
				sessionID = r.Header.Get(sessionIDHeader)
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx = context.WithValue(ctx, ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
