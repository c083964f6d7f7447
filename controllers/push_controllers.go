package controllers

import (
	"net/http"
	"strings"

	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushController stores Web Push subscriptions. Sending notifications is
// handled elsewhere.
type PushController struct {
	DB *gorm.DB
}

func NewPushController(db *gorm.DB) *PushController {
	return &PushController{DB: db}
}

type pushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	OrderID *uint `json:"order_id"`
}

// Subscribe upserts a subscription by endpoint.
func (pc *PushController) Subscribe(c *gin.Context) {
	if pc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	var req pushSubscriptionRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	endpoint := strings.TrimSpace(req.Endpoint)
	if !strings.HasPrefix(endpoint, "https://") || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		utils.RespondFailure(c, utils.NewError(utils.KindValidation, "subscription needs an https endpoint and keys"))
		return
	}

	sub := models.PushSubscription{
		Endpoint: endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
		OrderID:  req.OrderID,
	}
	err := pc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "order_id", "updated_at"}),
	}).Create(&sub).Error
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Subscription saved", nil)
}

// Unsubscribe removes a subscription by endpoint. Unknown endpoints are ignored.
func (pc *PushController) Unsubscribe(c *gin.Context) {
	if pc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	if err := pc.DB.Where("endpoint = ?", strings.TrimSpace(req.Endpoint)).Delete(&models.PushSubscription{}).Error; err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subscription removed", nil)
}
