package websocket

import (
	"fleetflow-service/internal/middleware"
	"fleetflow-service/internal/ws"

	"github.com/gin-gonic/gin"
)

// WSHandler exposes the live operations feed. Authentication happens in the
// middleware chain before the upgrade.
type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Feed(c *gin.Context) {
	h.hub.Serve(c, middleware.UserID(c))
}
