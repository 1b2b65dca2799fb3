package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/rbac"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name      string
		required  []string
		principal []string
		want      bool
	}{
		{"empty requirement", nil, nil, true},
		{"empty requirement with roles", []string{}, []string{"user"}, true},
		{"match", []string{"admin"}, []string{"user", "admin"}, true},
		{"any of several", []string{"admin", "user"}, []string{"user"}, true},
		{"no roles", []string{"admin"}, nil, false},
		{"disjoint", []string{"admin"}, []string{"user"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rbac.Authorize(tc.required, tc.principal))
		})
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := rbac.Require("admin")(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: "u1", Roles: []string{"user"}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: "u2", Roles: []string{"admin"}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
