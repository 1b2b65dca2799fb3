package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("orders: cancel: %w", apperr.InvalidTransitionf("Cannot cancel an order that is not pending."))

	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(wrapped))
	assert.True(t, apperr.Is(wrapped, apperr.InvalidTransition))
	assert.Equal(t, apperr.Internal, apperr.KindOf(errors.New("boom")))
	assert.False(t, apperr.Is(nil, apperr.Internal))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Conflict:          http.StatusConflict,
		apperr.Unauthorized:      http.StatusUnauthorized,
		apperr.Forbidden:         http.StatusForbidden,
		apperr.NotFound:          http.StatusNotFound,
		apperr.ValidationFailed:  http.StatusBadRequest,
		apperr.InvalidTransition: http.StatusBadRequest,
		apperr.Internal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind.String())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := apperr.Wrap(cause, apperr.Conflict, "Email already exists")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conflict: Email already exists")
}
