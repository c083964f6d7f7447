package middlewares

import (
	"errors"
	"net/http"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

var errNoRole = errors.New("no role in session")

// RequireRoles lets the request through only for the listed staff roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, utils.Wrap(utils.KindUnauthorized, errNoRole, "authentication required"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if !allowed[role] {
			utils.RespondError(c, http.StatusForbidden, utils.NewError(utils.KindForbidden, "role %s is not allowed here", role))
			c.Abort()
			return
		}
		c.Next()
	}
}
