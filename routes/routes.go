package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meenakshirnair/Calcount/controllers"
	"github.com/meenakshirnair/Calcount/logger"
	"github.com/meenakshirnair/Calcount/middlewares"
)

// Handlers bundles every controller the router mounts.
type Handlers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Entries     *controllers.EntryController
	Summaries   *controllers.SummaryController
	Goals       *controllers.GoalController
	CustomFoods *controllers.CustomFoodController
	Food        *controllers.FoodController
}

func SetupRouter(h Handlers, jwtSecret string, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	controllers.RegisterValidations()

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Everything under /api requires a valid token
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		api.GET("/user/profile", h.User.GetProfile)
		api.PUT("/user/profile", h.User.UpdateProfile)

		api.POST("/entries", h.Entries.AddEntry)
		api.GET("/entries", h.Entries.ListEntries)
		api.PUT("/entries/:id", h.Entries.UpdateEntry)
		api.DELETE("/entries/:id", h.Entries.DeleteEntry)
		api.POST("/entries/image", h.Entries.AddEntryFromImage)
		api.POST("/entries/barcode", h.Entries.AddEntryFromBarcode)

		api.GET("/summary", h.Summaries.GetSummary)
		api.GET("/summary/history", h.Summaries.GetHistory)
		api.GET("/dashboard", h.Summaries.GetDashboard)

		api.GET("/goals", h.Goals.GetGoals)
		api.PUT("/goals", h.Goals.UpdateGoals)
		api.POST("/goals/recommendation", h.Goals.GetRecommendation)

		api.GET("/foods/custom", h.CustomFoods.List)
		api.POST("/foods/custom", h.CustomFoods.Create)
		api.PUT("/foods/custom/:id", h.CustomFoods.Update)
		api.DELETE("/foods/custom/:id", h.CustomFoods.Delete)

		api.POST("/food/estimate", h.Food.Estimate)
		api.GET("/food/suggest", h.Food.Suggest)
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}
