package controllers

import (
	"net/http"
	"strings"

	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders   *services.OrderService
	Payments *services.PaymentService
}

func NewOrderController(orders *services.OrderService, payments *services.PaymentService) *OrderController {
	return &OrderController{Orders: orders, Payments: payments}
}

// CreateOrder is the checkout: the cart is re-priced on the server and, for
// online payment, a payment page is opened right away.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	online := strings.EqualFold(strings.TrimSpace(req.PaymentMethod), models.PaymentOnline)
	if online && !oc.Payments.Enabled() {
		utils.RespondFailure(c, services.ErrPaymentDisabled)
		return
	}

	ctx := c.Request.Context()
	order, err := oc.Orders.Checkout(ctx, req)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	response := gin.H{"order": order}
	if online {
		payment, err := oc.Payments.StartCheckout(ctx, order.ID)
		if err != nil {
			// the order stands; the customer can retry the payment
			utils.ErrorLogger.WithError(err).Errorf("open payment for order %d", order.ID)
		} else {
			response["payment"] = payment
		}
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", response)
}

// QuoteOrder prices a cart without placing the order.
func (oc *OrderController) QuoteOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	cart, err := oc.Orders.Quote(c.Request.Context(), req)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Quote", gin.H{
		"burgers":   cart.Burgers(),
		"extras":    cart.Extras(),
		"total":     cart.Total(),
		"formatted": cart.Total().String(),
	})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	orders, err := oc.Orders.KitchenQueue(c.Request.Context())
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", orders)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
