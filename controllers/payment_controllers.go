package controllers

import (
	"net/http"

	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// CreatePayment opens (or reopens) the payment page of an online order.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	payment, err := pc.Payments.StartCheckout(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment created", payment)
}

// GetPaymentStatus is polled by the checkout page until the payment settles.
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	view, err := pc.Payments.RefreshStatus(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status", view)
}

// HandleNotification receives the provider's status callback.
func (pc *PaymentController) HandleNotification(c *gin.Context) {
	var n services.Notification
	if err := bindJSON(c, &n); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	if err := pc.Payments.HandleNotification(c.Request.Context(), n); err != nil {
		utils.ErrorLogger.WithError(err).Warnf("payment notification for %s rejected", n.OrderID)
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification processed", nil)
}
