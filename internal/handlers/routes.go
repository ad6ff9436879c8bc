package handlers

import (
	"net/http"

	"github.com/example/macro-tracker/internal/middleware"
	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Foods   *services.FoodService
	Meals   *services.MealService
	Summary *services.SummaryService
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(db *gorm.DB, svc Services, log *zap.Logger) *gin.Engine {
	RegisterValidators()

	authHandler := NewAuthHandler(svc.Auth, log)
	userHandler := NewUserHandler(svc.Users, log)
	foodHandler := NewFoodHandler(svc.Foods, log)
	mealHandler := NewMealHandler(svc.Meals, log)
	summaryHandler := NewSummaryHandler(svc.Summary, log)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, CodeNotFound, "route not found")
	})

	// Health check
	router.GET("/health", health(db))

	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(svc.Auth))
		{
			protected.POST("/auth/refresh", authHandler.Refresh)

			users := protected.Group("/users/me")
			{
				users.GET("", userHandler.GetMe)
				users.PUT("", userHandler.UpdateMe)
				users.GET("/targets", userHandler.GetTargets)
				users.PUT("/targets", userHandler.UpdateTargets)
				users.PUT("/password", authHandler.ChangePassword)
			}

			foods := protected.Group("/foods")
			{
				foods.GET("", foodHandler.List)
				foods.POST("", foodHandler.Create)
				foods.GET("/:id", foodHandler.Get)
				foods.PUT("/:id", foodHandler.Update)
				foods.DELETE("/:id", foodHandler.Delete)
			}

			meals := protected.Group("/meals")
			{
				meals.GET("", mealHandler.List)
				meals.POST("", mealHandler.Create)
				meals.GET("/:id", mealHandler.Get)
				meals.PUT("/:id", mealHandler.Update)
				meals.DELETE("/:id", mealHandler.Delete)
			}

			summary := protected.Group("/summary")
			{
				summary.GET("/daily", summaryHandler.Daily)
				summary.GET("/monthly", summaryHandler.Monthly)
			}
		}
	}

	return router
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	}
}
