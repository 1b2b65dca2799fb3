package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
)

// PrincipalLoader resolves the user behind a verified token. It must return
// an error when the user no longer exists.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID string) (auth.Principal, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticate verifies the bearer access token and stores the principal in
// the request context. WebSocket upgrades may pass the token as ?token=
// because browsers cannot set headers on them.
func Authenticate(iss *auth.Issuer, users PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := iss.ParseAccess(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			p, err := users.LoadPrincipal(r.Context(), claims.UserID)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("auth: principal rejected", "user_id", claims.UserID, "error", err)
				response.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}
