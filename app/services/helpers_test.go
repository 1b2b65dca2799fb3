package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
)

var testAuth = config.AuthConfig{
	AccessSecret:  "test-access",
	RefreshSecret: "test-refresh",
	BcryptCost:    bcrypt.MinCost,
}

func admin() auth.Principal {
	return auth.Principal{UserID: "admin", Roles: []string{models.RoleAdmin}}
}

func userPrincipal(u models.User) auth.Principal {
	return auth.Principal{UserID: u.ID.Hex(), Email: u.Email, Roles: u.Roles}
}

func newUser(t *testing.T, store *repositories.Store, email string) models.User {
	t.Helper()
	u, err := services.NewUserService(store.Users, bcrypt.MinCost).Create(context.Background(), services.CreateUserInput{
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func newProduct(t *testing.T, store *repositories.Store, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Slug: name, Price: price}
	require.NoError(t, store.Products.Create(context.Background(), &p))
	return p
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind.String(), apperr.KindOf(err).String(), err.Error())
}

type recordingDispatcher struct{ jobs []queue.Job }

func (d *recordingDispatcher) Dispatch(_ context.Context, job queue.Job) error {
	d.jobs = append(d.jobs, job)
	return nil
}

func newMemoryStore() *repositories.Store { return memory.New() }
