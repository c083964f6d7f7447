package controllers_test

import (
	"net/http"
	"testing"

	"github.com/Garciabraganca/COSTABURGUER-sub001/controllers"
	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	orders := services.NewOrderService(db, events.Nop{})
	payments := services.NewPaymentService(db, &stubProvider{status: models.PaymentStatusPending}, events.Nop{}, 0)
	ac := controllers.NewAdminController(orders, services.NewPaymentMonitor(payments, 0))
	oc := controllers.NewOrderController(orders, payments)

	r := gin.New()
	r.POST("/orders", oc.CreateOrder)
	r.GET("/admin/dashboard/stats", ac.GetDashboardStats)

	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/orders", classicCheckout(), "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := doJSON(t, r, http.MethodGet, "/admin/dashboard/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Orders   services.DashboardStats `json:"orders"`
		Payments services.PaymentMetrics `json:"payments"`
	}
	decodeData(t, env, &out)
	assert.Equal(t, int64(2), out.Orders.TotalOrders)
	assert.Equal(t, int64(3200), out.Orders.TodayRevenue)
	assert.Zero(t, out.Payments.Checked)
}
