package routes

import (
	"net/http"
	"time"

	"mauryaelectronics/handlers"
	"mauryaelectronics/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers staff authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)
	}
}

// RegisterComplaintRoutes registers the complaint lifecycle endpoints.
func RegisterComplaintRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/complaints")
	{
		// All complaint operations require an authenticated staff member.
		api.Use(middleware.JWTAuthStaffMiddleware())
		api.POST("", hb.CreateComplaintHandler)
		api.POST("/batch", hb.CreateBatchHandler)
		api.GET("", hb.ListComplaintsHandler)
		api.GET("/:id", hb.GetComplaintHandler)
		api.PATCH("/:id/status", hb.ChangeStatusHandler)

		// Updates can carry the apply-to-service flag which mutates the shared
		// catalog; deletion is destructive. Both are admin-only.
		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.PUT("/:id", hb.UpdateComplaintHandler)
		admin.DELETE("/:id", hb.DeleteComplaintHandler)
	}
}

// RegisterUploadRoutes registers the media upload proxy.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/uploads")
	{
		api.Use(middleware.JWTAuthStaffMiddleware())
		api.POST("", hb.UploadMediaHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Maurya Electronics service desk"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterComplaintRoutes(r, hb)
	RegisterUploadRoutes(r, hb)
	RegisterHealthRoute(r)
}
