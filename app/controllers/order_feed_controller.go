package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ws"
)

// OrderFeedController streams order status changes over WebSocket.
type OrderFeedController struct {
	hub *ws.Hub
}

func NewOrderFeedController(hub *ws.Hub) *OrderFeedController {
	return &OrderFeedController{hub: hub}
}

// Connect handles GET /ws/orders. It takes the raw writer because the
// upgrade hijacks the connection.
func (h *OrderFeedController) Connect(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	h.hub.Serve(w, r, p.UserID, p.HasRole(models.RoleAdmin))
}
