package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/jobs"
	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
)

func TestVerifyOrderProducts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	p := &models.Product{Name: "Shirt", Slug: "shirt"}
	require.NoError(t, store.Products.Create(ctx, p))
	ghost := primitive.NewObjectID()

	o := &models.Order{
		UserID: primitive.NewObjectID(),
		Items: []models.OrderItem{
			{ProductID: p.ID, Quantity: 1, Size: models.SizeM},
			{ProductID: ghost, Quantity: 2, Size: models.SizeL},
		},
	}
	require.NoError(t, store.Orders.Create(ctx, o))

	job := jobs.NewVerifyOrderProducts(store, o.ID.Hex())
	require.NoError(t, job.Handle(ctx))
	assert.Equal(t, []string{ghost.Hex()}, job.Missing())
}

func TestVerifyOrderProducts_OrderGone(t *testing.T) {
	job := jobs.NewVerifyOrderProducts(memory.New(), primitive.NewObjectID().Hex())
	assert.NoError(t, job.Handle(context.Background()))
	assert.Empty(t, job.Missing())
}
