package listeners_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/app/listeners"
	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
)

type published struct {
	user string
	data []byte
}

type recorder struct{ got []published }

func (r *recorder) Publish(userID string, data []byte) {
	r.got = append(r.got, published{userID, data})
}

func TestOrderFeedForwardsStatusChanges(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	listeners.RegisterOrderFeed(bus, rec)

	bus.Fire(context.Background(), services.EventOrderStatusChanged, services.StatusChanged{
		OrderID: "o1", UserID: "u1", From: models.StatusPending, To: models.StatusShipped, At: time.Now(),
	})
	bus.Fire(context.Background(), services.EventOrderStatusChanged, "not a status change")

	require.Len(t, rec.got, 1)
	assert.Equal(t, "u1", rec.got[0].user)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.got[0].data, &msg))
	assert.Equal(t, "order.status_changed", msg["type"])
	assert.Equal(t, "o1", msg["orderId"])
	assert.Equal(t, "shipped", msg["to"])
}
