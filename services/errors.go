package services

import "github.com/Garciabraganca/COSTABURGUER-sub001/utils"

var (
	ErrOrderNotFound      = utils.NewError(utils.KindNotFound, "order not found")
	ErrDeliveryNotFound   = utils.NewError(utils.KindNotFound, "delivery not found")
	ErrPaymentNotFound    = utils.NewError(utils.KindNotFound, "payment not found")
	ErrInvalidStatus      = utils.NewError(utils.KindValidation, "invalid status")
	ErrInvalidCoordinates = utils.NewError(utils.KindValidation, "invalid coordinates")
	ErrInvalidTransition  = utils.NewError(utils.KindConflict, "status transition not allowed")
	ErrDeliveryFinished   = utils.NewError(utils.KindConflict, "delivery already finished")
	ErrNotDispatchable    = utils.NewError(utils.KindConflict, "order cannot be dispatched")
	ErrRateLimited        = utils.NewError(utils.KindRateLimited, "location updates are limited to one every few seconds")
	ErrPaymentDisabled    = utils.NewError(utils.KindUnavailable, "online payment is not enabled")
	ErrInvalidSignature   = utils.NewError(utils.KindUnauthorized, "invalid notification signature")
)
