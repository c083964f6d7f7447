package controllers

import (
	"net/http"

	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

type DeliveryController struct {
	Deliveries *services.DeliveryService
}

func NewDeliveryController(deliveries *services.DeliveryService) *DeliveryController {
	return &DeliveryController{Deliveries: deliveries}
}

// Dispatch assigns a rider to an order and returns the delivery with its
// tracking token.
func (dc *DeliveryController) Dispatch(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var body struct {
		RiderName  string `json:"rider_name"`
		RiderPhone string `json:"rider_phone"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondFailure(c, err)
		return
	}

	delivery, err := dc.Deliveries.Dispatch(c.Request.Context(), orderID, body.RiderName, body.RiderPhone)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order dispatched", gin.H{
		"delivery":     delivery,
		"tracking_url": "/track/" + delivery.Token,
	})
}

func (dc *DeliveryController) ListActive(c *gin.Context) {
	deliveries, err := dc.Deliveries.ActiveDeliveries(c.Request.Context())
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active deliveries", deliveries)
}

func (dc *DeliveryController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &body); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	delivery, err := dc.Deliveries.UpdateStatus(c.Request.Context(), c.Param("token"), body.Status)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery status updated", delivery)
}

// Track is the public tracking view. The token is the capability.
func (dc *DeliveryController) Track(c *gin.Context) {
	view, err := dc.Deliveries.TrackingView(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tracking", view)
}

// PostLocation receives the rider device's position.
func (dc *DeliveryController) PostLocation(c *gin.Context) {
	var in services.LocationInput
	if err := bindJSON(c, &in); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	sample, err := dc.Deliveries.IngestLocation(c.Request.Context(), c.Param("token"), in)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Location recorded", sample)
}
