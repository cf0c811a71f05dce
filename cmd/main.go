package main

import (
	"fmt"
	"os"

	"github.com/platewise/recipeledger/internal/db"
	"github.com/platewise/recipeledger/internal/handlers"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/middleware"
	"github.com/platewise/recipeledger/internal/repos"
	"github.com/platewise/recipeledger/internal/server"
	"github.com/platewise/recipeledger/internal/services"
	"github.com/platewise/recipeledger/internal/sse"
	"github.com/platewise/recipeledger/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	ingredientRepo := repos.NewIngredientRepo(thePG, log)
	batchRecipeRepo := repos.NewBatchRecipeRepo(thePG, log)
	plateRecipeRepo := repos.NewPlateRecipeRepo(thePG, log)
	batchVersionRepo := repos.NewBatchVersionRepo(thePG, log)
	plateVersionRepo := repos.NewPlateVersionRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Services
	log.Info("Setting up Services from main...")
	activeVersionCache, err := services.NewActiveVersionCache(log)
	if err != nil {
		log.Warn("Active version cache disabled", "error", err)
		activeVersionCache = nil
	}
	authService := services.NewAuthService(log)
	ledgerService := services.NewLedgerService(
		thePG,
		log,
		ingredientRepo,
		batchRecipeRepo,
		plateRecipeRepo,
		batchVersionRepo,
		plateVersionRepo,
		activeVersionCache,
		sseHub,
	)
	ingredientService := services.NewIngredientService(thePG, log, ingredientRepo, sseHub)
	recipeService := services.NewRecipeService(thePG, log, batchRecipeRepo, plateRecipeRepo, ledgerService, activeVersionCache, sseHub)

	// Handlers
	log.Info("Setting up handlers from main...")
	ingredientHandler := handlers.NewIngredientHandler(log, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(log, recipeService)
	versionHandler := handlers.NewVersionHandler(log, ledgerService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		VersionHandler:    versionHandler,
		SSEHandler:        sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
