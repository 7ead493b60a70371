package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/utils"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// AuthMiddleware validates the bearer token and resolves the caller's
// effective roles from group membership, once per request.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}
		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Groups").First(&user, claims.UserID).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("user no longer exists"))
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUsername, user.Username)
		c.Set(CtxRoles, models.RolesFromGroups(user.Groups))

		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id.
func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(CtxUserID)
	userID, _ := id.(uint)
	return userID
}

// CurrentRoles returns the caller's role set resolved by AuthMiddleware.
func CurrentRoles(c *gin.Context) models.RoleSet {
	v, _ := c.Get(CtxRoles)
	roles, _ := v.(models.RoleSet)
	return roles
}
