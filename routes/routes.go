package routes

import (
	"PinguinGuard/controllers"
	"PinguinGuard/middlewares"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API. metricsHandler serves /metrics; nil falls
// back to the default prometheus registry.
func RegisterRoutes(r *gin.Engine, metricsHandler http.Handler) {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// Public routes
	r.GET("/health", controllers.Health)
	r.GET("/metrics", gin.WrapH(metricsHandler))

	auth := middlewares.AuthMiddleware()
	r.GET("/debug/auth", auth, controllers.DebugAuth)
	r.POST("/debug/push", auth, controllers.TestPushNotification)
	r.GET("/ws/restrictions/:child_uid", auth, controllers.ServeWs)

	parents := r.Group("/parents/me")
	parents.Use(auth)
	{
		parents.GET("/children", controllers.ListChildren)
		parents.POST("/children", controllers.LinkChild)
		parents.PUT("/device-token", controllers.RegisterDeviceToken)
	}

	children := r.Group("/children")
	children.Use(auth)
	{
		children.PUT("/me/device-token", controllers.RegisterDeviceToken)
		children.GET("/:child_uid", controllers.ReadChild)
	}

	policies := r.Group("/policies")
	policies.Use(auth)
	{
		policies.GET("/:child_uid", controllers.GetPolicy)
		policies.PUT("/:child_uid/block", controllers.SetBlock)
		policies.PUT("/:child_uid/windows", controllers.SetWindows)
		policies.PUT("/:child_uid/cap", controllers.SetDailyCap)
	}

	usage := r.Group("/usage")
	usage.Use(auth)
	{
		usage.POST("/:child_uid", controllers.RecordUsage)
		usage.GET("/:child_uid/today", controllers.GetTodayUsage)
		usage.GET("/:child_uid/history", controllers.GetUsageHistory)
	}

	r.GET("/restrictions/:child_uid", auth, controllers.GetRestriction)

	requests := r.Group("/unblock-requests")
	requests.Use(auth)
	{
		requests.POST("", controllers.CreateUnblockRequest)
		requests.GET("/pending", controllers.ListPendingUnblockRequests)
		requests.GET("/child/:child_uid", controllers.ListChildUnblockRequests)
		requests.POST("/:id/respond", controllers.RespondUnblockRequest)
	}
}
