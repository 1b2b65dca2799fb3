// Package services holds the business rules. Services speak apperr kinds;
// controllers map those to HTTP.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/slug"
)

// storeErr translates a repository error. notFound and conflict are the
// caller-facing messages for the two expected failures.
func storeErr(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.Wrap(err, apperr.NotFound, notFound)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return apperr.Wrap(err, apperr.Conflict, conflict)
	default:
		return err
	}
}

func idNotFound(entity, id string) string {
	return fmt.Sprintf("%s with ID %q not found", entity, id)
}

// Deleted is the body returned by remove operations.
type Deleted struct {
	Message string `json:"message"`
}

func deleted(entity, id string) Deleted {
	return Deleted{Message: fmt.Sprintf("%s with ID %q has been successfully deleted", entity, id)}
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// nameSlug derives the slug for a catalog name. A name without a single
// letter or digit has none and is rejected.
func nameSlug(name string) (string, error) {
	if sl := slug.Make(name); sl != "" {
		return sl, nil
	}
	return "", apperr.Validation(map[string]string{"name": "name must contain a letter or digit"})
}
