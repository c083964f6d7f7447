package middlewares

import (
	"net/http"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxNotificationBody bounds webhook payloads.
const maxNotificationBody = 64 << 10

// PaymentRateLimiter caps the provider's webhook calls across all callers.
func PaymentRateLimiter(perSecond, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, utils.NewError(utils.KindRateLimited, "too many payment notifications"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LimitBody rejects request bodies above the webhook limit.
func LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxNotificationBody)
		c.Next()
	}
}

// LogPaymentRequest logs every payment call with its outcome.
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		utils.InfoLogger.Printf(
			"Payment request - Method: %s, Path: %s, Status: %d, Duration: %v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start),
		)
	}
}
