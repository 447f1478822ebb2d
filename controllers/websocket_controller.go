package controllers

import (
	"PinguinGuard/websocket"

	"github.com/gin-gonic/gin"
)

var WebSocketHub *websocket.Hub

func SetWebSocketHub(hub *websocket.Hub) {
	WebSocketHub = hub
}

// ServeWs подписывает соединение на изменения вердикта ребенка
func ServeWs(c *gin.Context) {
	childUID := c.Param("child_uid")
	if !authorizeChild(c, childUID, userTypeParent, userTypeChild) {
		return
	}

	userID, userType := caller(c)
	websocket.ServeWs(WebSocketHub, c.Writer, c.Request, userID, userType, childUID)
}
