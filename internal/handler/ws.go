package handler

import (
	"net/http"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/middleware"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the handshake itself accepts any.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated requests into hub sessions.
type WSHandler struct{ hub *ws.Hub }

func NewWSHandler(hub *ws.Hub) *WSHandler { return &WSHandler{hub: hub} }

func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	role := model.Role(middleware.GetClaims(c).Role)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote its own response.
		log.Warn().Err(err).Msg("ws: upgrade failed")
		return
	}
	h.hub.Register(userID, role == model.RoleAdmin, conn)
}
