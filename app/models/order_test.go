package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
)

func TestCanTransition(t *testing.T) {
	all := []models.OrderStatus{models.StatusPending, models.StatusShipped, models.StatusDelivered, models.StatusCanceled}
	allowed := map[[2]models.OrderStatus]bool{
		{models.StatusPending, models.StatusShipped}:   true,
		{models.StatusPending, models.StatusCanceled}:  true,
		{models.StatusShipped, models.StatusDelivered}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]models.OrderStatus{from, to}], models.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCanceled.Terminal())
	assert.False(t, models.StatusPending.Terminal())
}
