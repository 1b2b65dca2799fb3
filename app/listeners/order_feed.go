// Package listeners reacts to domain events fired on the event bus.
package listeners

import (
	"context"
	"encoding/json"

	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Publisher delivers a message to one user's live connections.
type Publisher interface {
	Publish(userID string, data []byte)
}

// OrderStatusMessage is what a websocket client receives.
type OrderStatusMessage struct {
	Type string `json:"type"`
	services.StatusChanged
}

// RegisterOrderFeed forwards every order status change to its owner.
func RegisterOrderFeed(bus *event.Bus, pub Publisher) {
	bus.Listen(services.EventOrderStatusChanged, func(ctx context.Context, payload interface{}) {
		change, ok := payload.(services.StatusChanged)
		if !ok {
			return
		}
		data, err := json.Marshal(OrderStatusMessage{Type: services.EventOrderStatusChanged, StatusChanged: change})
		if err != nil {
			logger.WithCtx(ctx).Error("listeners: encode order status", "error", err)
			return
		}
		pub.Publish(change.UserID, data)
	})
}
