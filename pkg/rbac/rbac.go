// Package rbac decides whether a principal may call a route.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
)

// Authorize reports whether a principal holding principal may call an
// operation that requires any of required. An empty requirement allows all.
func Authorize(required, principal []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range principal {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Require returns middleware that admits only principals holding one of
// roles. It answers 401 when no principal is in the context, which means the
// authentication middleware did not run or rejected the caller.
func Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !Authorize(roles, p.Roles) {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
