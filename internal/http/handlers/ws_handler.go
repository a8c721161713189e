package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/skillbazar/backend/internal/http/handlers/common"
	"github.com/skillbazar/backend/internal/service"
	"github.com/skillbazar/backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler устанавливает WebSocket соединение для событий чата.
type WSHandler struct {
	hub    *ws.Hub
	tokens *service.TokenManager
}

// NewWSHandler создаёт хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens}
}

// Connect обрабатывает GET /api/ws.
// Токен передаётся параметром query, поскольку браузерный WebSocket
// не поддерживает произвольные заголовки.
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.RespondUnauthorized(c, "требуется авторизация")
		return
	}

	userID, _, err := h.tokens.ParseAccess(token)
	if err != nil {
		common.RespondUnauthorized(c, "токен невалиден")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("не удалось установить WebSocket соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, userID)
	h.hub.Register(client)

	// Блокируем до закрытия соединения, иначе gin завершит запрос
	client.Run(c.Request.Context())
}
