package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/api/notifyhub"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

var notifyWSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the route is loopback only
	},
}

// HandleNotifyWS streams queue and upload notifications to the console UI.
// A console that connects mid-run first receives a "progress" notification with the
// current queue view, then every queue_* and upload_* notification as it happens.
// GET /api/console/v1/notify-ws
func HandleNotifyWS(hub *notifyhub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := notifyWSUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				tool.DefaultLogger.Debugf("[NotifyWS] Close: %v", err)
			}
		}()

		hub.Register(conn)
		defer hub.Unregister(conn)
		tool.DefaultLogger.Debugf("[NotifyWS] Console connected (%d open)", hub.Len())

		if ctrl := models.GetController(); ctrl != nil {
			snapshot := &types.Notification{
				ID:    tool.GenerateRandomUUID(),
				Type:  types.NotifyTypeProgress,
				Level: types.NotifyLevelInfo,
				Data:  map[string]any{"progress": ctrl.Progress()},
			}
			if err := hub.Send(conn, snapshot); err != nil {
				return
			}
		}

		// the console never sends anything; reading only detects the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
