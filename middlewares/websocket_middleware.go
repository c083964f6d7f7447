package middlewares

import (
	"net/http"
	"strings"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

// RequireWebSocketUpgrade answers plain HTTP requests to websocket routes
// with a JSON error instead of the upgrader's text response.
func RequireWebSocketUpgrade() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			utils.RespondError(c, http.StatusBadRequest, utils.NewError(utils.KindValidation, "websocket upgrade required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
