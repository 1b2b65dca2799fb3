package ctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	appctx "github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var status int
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
		status = c.WrittenStatus()
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("k", 42)
		v, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		c.Success(nil)
	})(rec, req)
}

type input struct {
	Name string `json:"name" validate:"required"`
}

func TestBindJSON(t *testing.T) {
	cases := []struct {
		body string
		ok   bool
		code int
	}{
		{`{"name":"shirts"}`, true, 0},
		{`{"name":""}`, false, http.StatusBadRequest},
		{`{`, false, http.StatusBadRequest},
		{``, false, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		var ok bool
		appctx.Wrap(func(c *appctx.Context) {
			var in input
			ok = c.BindJSON(&in)
		})(rec, req)

		assert.Equal(t, tc.ok, ok, tc.body)
		if !tc.ok {
			assert.Equal(t, tc.code, rec.Code, tc.body)
		}
	}
}

func TestObjectIDParam(t *testing.T) {
	id := primitive.NewObjectID()
	for _, raw := range []string{id.Hex(), "nope"} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		appctx.Wrap(func(c *appctx.Context) {
			got, err := c.ObjectID("id")
			if raw == "nope" {
				assert.True(t, apperr.Is(err, apperr.NotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})(httptest.NewRecorder(), req)
	}
}

func TestUserID(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: id.Hex()}))

	appctx.Wrap(func(c *appctx.Context) {
		got, err := c.UserID()
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})(httptest.NewRecorder(), req)

	appctx.Wrap(func(c *appctx.Context) {
		_, err := c.UserID()
		assert.True(t, apperr.Is(err, apperr.Unauthorized))
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.InvalidTransitionf("Cannot cancel an order that is not pending."))
	})(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot cancel an order that is not pending.")
}
