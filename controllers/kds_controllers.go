package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/middlewares"
	"github.com/yeremiapane/yumpooma/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts websocket upgrades from allowedOrigins only.
// Requests without an Origin header, such as native clients, are accepted.
func NewKDSController(hub *kds.Hub, allowedOrigins []string) *KDSController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// KDSHandler -> websocket endpoint for the kitchen display
func (kc *KDSController) KDSHandler(c *gin.Context) {
	username := c.GetString(middlewares.ContextUsername)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for %s: %v", username, err)
		return
	}
	utils.InfoLogger.Printf("Kitchen display connected: %s", username)
	kc.Hub.Serve(ws, username)
	utils.InfoLogger.Printf("Kitchen display disconnected: %s", username)
}
