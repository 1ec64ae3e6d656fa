package middleware

import (
	"net/http"

	"mauryaelectronics/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates routes that mutate shared data (catalog price write-back,
// complaint deletion) behind the admin role claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("staffRole")
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin privileges required",
			})
			return
		}
		c.Next()
	}
}
