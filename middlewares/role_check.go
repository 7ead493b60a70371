package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/littlelemon/restaurant-api/utils"
)

var ErrManagerOnly = errors.New("you must be a manager to do this")

// RequireManager gates catalog mutation and group management.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentRoles(c).Manager {
			utils.RespondError(c, http.StatusForbidden, ErrManagerOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}
