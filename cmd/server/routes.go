package main

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"zyrix.backend/internal/interfaces/http/handlers"
	"zyrix.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	accountHandler *handlers.AccountHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/register", d.accountHandler.Register)
			accounts.GET("/verify-email", d.accountHandler.VerifyEmail)
			accounts.POST("/login", d.accountHandler.Login)
			accounts.POST("/request-password-reset", d.accountHandler.RequestPasswordReset)
			accounts.POST("/reset-password", d.accountHandler.ResetPassword)
			accounts.POST("/change-password", d.authMiddleware, d.accountHandler.ChangePassword)
			accounts.GET("/me", d.authMiddleware, d.accountHandler.GetMe)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine, sqlDB *sql.DB) {
	r.GET("/health", func(c *gin.Context) {
		dbConnected := false
		if sqlDB != nil {
			dbConnected = sqlDB.PingContext(c.Request.Context()) == nil
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "zyrix-backend",
			"version":     "3.0",
			"dbConnected": dbConnected,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", middleware.MetricsHandler())
}
