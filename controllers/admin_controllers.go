package controllers

import (
	"net/http"

	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Orders  *services.OrderService
	Monitor *services.PaymentMonitor
}

func NewAdminController(orders *services.OrderService, monitor *services.PaymentMonitor) *AdminController {
	return &AdminController{Orders: orders, Monitor: monitor}
}

// GetDashboardStats returns order counters and the payment monitor's metrics.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Orders.Stats(c.Request.Context())
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	data := gin.H{"orders": stats}
	if ac.Monitor != nil {
		data["payments"] = ac.Monitor.Metrics()
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", data)
}
