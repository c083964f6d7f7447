package controllers

import (
	"net/http"

	"github.com/Garciabraganca/COSTABURGUER-sub001/kds"
	"github.com/Garciabraganca/COSTABURGUER-sub001/middlewares"
	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub        *kds.Hub
	Deliveries *services.DeliveryService
	upgrader   websocket.Upgrader
}

// NewRealtimeController accepts websocket connections from allowedOrigin, or
// from any origin when it is empty or "*".
func NewRealtimeController(hub *kds.Hub, deliveries *services.DeliveryService, allowedOrigin string) *RealtimeController {
	return &RealtimeController{
		Hub:        hub,
		Deliveries: deliveries,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// StaffSocket streams every event to the staff console.
func (rc *RealtimeController) StaffSocket(c *gin.Context) {
	role := c.GetString(middlewares.ContextRole)
	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("staff websocket upgrade")
		return
	}
	rc.Hub.Serve(ws, kds.TopicStaff, role)
}

// TrackingSocket streams the events of one delivery to its tracking page.
func (rc *RealtimeController) TrackingSocket(c *gin.Context) {
	token := c.Param("token")
	view, err := rc.Deliveries.TrackingView(c.Request.Context(), token)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("tracking websocket upgrade")
		return
	}
	if err := ws.WriteJSON(kds.Message{Event: "tracking.snapshot", OrderID: view.Order.ID, Data: view}); err != nil {
		ws.Close()
		return
	}
	rc.Hub.Serve(ws, kds.DeliveryTopic(token), "order")
}
