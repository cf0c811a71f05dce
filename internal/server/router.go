package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/platewise/recipeledger/internal/handlers"
	"github.com/platewise/recipeledger/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	IngredientHandler *handlers.IngredientHandler
	RecipeHandler     *handlers.RecipeHandler
	VersionHandler    *handlers.VersionHandler
	SSEHandler        *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// SSE
	api.GET("/sse/stream", cfg.SSEHandler.SSEStream)
	api.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
	api.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)
	// Ingredient catalog
	api.POST("/ingredients", cfg.IngredientHandler.CreateIngredient)
	api.GET("/ingredients", cfg.IngredientHandler.ListIngredients)
	api.DELETE("/ingredients/:id", cfg.IngredientHandler.DeleteIngredient)
	// Recipe roots
	api.GET("/recipes", cfg.RecipeHandler.ListRecipes)
	api.POST("/recipes/batch", cfg.RecipeHandler.CreateBatchRecipe)
	api.POST("/recipes/plate", cfg.RecipeHandler.CreatePlateRecipe)
	api.GET("/recipes/:kind/:id", cfg.RecipeHandler.GetRecipe)
	api.DELETE("/recipes/:kind/:id", cfg.RecipeHandler.DeleteRecipe)
	// Version ledger
	api.POST("/recipes/:kind/:id/versions", cfg.VersionHandler.CreateVersion)
	api.GET("/recipes/:kind/:id/versions", cfg.VersionHandler.ListHistory)
	api.GET("/recipes/:kind/:id/versions/active", cfg.VersionHandler.GetActiveVersion)
	api.GET("/recipes/:kind/:id/versions/diff", cfg.VersionHandler.DiffVersions)
	api.GET("/recipes/:kind/:id/versions/:number", cfg.VersionHandler.GetVersion)

	return router
}
