package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/s-411/cpn-backend/internal/config"
	"github.com/s-411/cpn-backend/internal/handlers"
	"github.com/s-411/cpn-backend/internal/middleware"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/services"
	statsws "github.com/s-411/cpn-backend/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	girlRepo := repository.NewGirlRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	secureCookies := !cfg.IsDevelopment()

	girlService := services.NewGirlService(db, girlRepo, userRepo)
	statsService := services.NewStatsService(girlRepo, entryRepo, statsRepo)
	onboardingService := services.NewOnboardingService(db)
	affiliateService := services.NewAffiliateService(cfg.RewardfulSecret, webhookRepo, userRepo)
	billingService := services.NewBillingService(userRepo, cfg.StripeSecretKey, cfg.AppBaseURL, cfg.StripePlayerPriceID, cfg.StripeLifetimePriceID)

	statsHub := statsws.NewHub()
	go statsHub.Run()

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, secureCookies)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, cfg.JWTSecret, secureCookies)
	girlHandler := handlers.NewGirlHandler(girlRepo, girlService, storageService)
	entryHandler := handlers.NewEntryHandler(entryRepo, girlRepo, statsService, statsHub)
	userHandler := handlers.NewUserHandler(userRepo)
	statsHandler := handlers.NewStatsHandler(statsService, statsService, statsHub)
	webhookHandler := handlers.NewWebhookHandler(affiliateService)
	billingHandler := handlers.NewBillingHandler(billingService)

	api := app.Group("/api")

	// Public surface: landing-page stats, affiliate webhook, onboarding.
	api.Get("/global-stats", statsHandler.GlobalStats)
	api.Post("/webhooks/rewardful", webhookHandler.Rewardful)
	api.Post("/onboarding/complete", onboardingHandler.Complete)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	protected := api.Group("", middleware.AuthRequired(cfg.JWTSecret))

	protected.Get("/user", userHandler.Get)
	protected.Put("/user", userHandler.Update)

	girls := protected.Group("/girls")
	girls.Get("", girlHandler.List)
	girls.Post("", girlHandler.Create)
	girls.Get("/:id", girlHandler.Get)
	girls.Put("/:id", girlHandler.Update)
	girls.Delete("/:id", girlHandler.Delete)
	girls.Post("/:id/photo", girlHandler.UploadPhoto)
	girls.Get("/:id/metrics", statsHandler.GirlMetrics)

	entries := protected.Group("/data-entries")
	entries.Get("", entryHandler.List)
	entries.Post("", entryHandler.Create)
	entries.Get("/:id", entryHandler.Get)
	entries.Put("/:id", entryHandler.Update)
	entries.Delete("/:id", entryHandler.Delete)

	protected.Get("/metrics", statsHandler.GlobalMetrics)

	billing := protected.Group("/billing")
	billing.Post("/checkout", billingHandler.CreateCheckout)
	billing.Post("/portal", billingHandler.CreatePortal)

	api.Use("/ws", middleware.AuthRequired(cfg.JWTSecret), statsHandler.WebSocketAuth)
	api.Get("/ws", websocket.New(statsHandler.HandleWebSocket))
}
