// internal/router/router.go
package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/cache"
	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/handlers"
	"github.com/javajoker/kk-storefront/internal/llm"
	"github.com/javajoker/kk-storefront/internal/middleware"
	"github.com/javajoker/kk-storefront/internal/observability"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

// Dependencies is the process-wide state shared by every handler.
type Dependencies struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	LLM           llm.Client
	Verifier      *utils.SessionVerifier
	ChatLimiter   *middleware.WindowLimiter
	Throttle      *middleware.RateLimiter
	Storage       *services.StorageService
	SentryEnabled bool
}

// NewDependencies builds the shared state. rdb may be nil.
func NewDependencies(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Dependencies, error) {
	verifier, err := utils.NewSessionVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to build session verifier: %w", err)
	}

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		LLM:         llm.New(cfg.LLM),
		Verifier:    verifier,
		ChatLimiter: middleware.NewWindowLimiter(cfg.Chat.RateLimit, cfg.Chat.RateWindow),
		Throttle:    middleware.NewRateLimiter(rate.Every(100*time.Millisecond), 20),
		Storage:     storage,
	}, nil
}

// Sweepers lists the limiters whose expired entries need periodic cleanup.
func (d *Dependencies) Sweepers() []middleware.Sweeper {
	return []middleware.Sweeper{d.ChatLimiter, d.Throttle}
}

func Initialize(deps *Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB
	counters := cache.NewPageViewCounters(deps.Redis)

	// Initialize services
	productService := services.NewProductService(db)
	seriesService := services.NewSeriesService(db)
	accessoryService := services.NewAccessoryService(db)
	attributeService := services.NewAttributeService(db)
	codeService := services.NewCodeService(db)
	labelService := services.NewLabelService(db, cfg.IPHashKey)
	reviewService := services.NewReviewService(db)
	wishlistService := services.NewWishlistService(db)
	analyticsService := services.NewAnalyticsService(db, counters)
	settingsService := services.NewSettingsService(db)
	searchService := services.NewSearchService(db)
	statsService := services.NewStatsService(db, counters)
	aiService := services.NewAIService(db, deps.LLM)
	notificationService := services.NewNotificationService(cfg)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	seriesHandler := handlers.NewSeriesHandler(seriesService)
	accessoryHandler := handlers.NewAccessoryHandler(accessoryService)
	attributeHandler := handlers.NewAttributeHandler(attributeService)
	codeHandler := handlers.NewCodeHandler(codeService)
	labelHandler := handlers.NewLabelHandler(labelService)
	reviewHandler := handlers.NewReviewHandler(reviewService, notificationService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	searchHandler := handlers.NewSearchHandler(searchService)
	statsHandler := handlers.NewStatsHandler(statsService)
	uploadHandler := handlers.NewUploadHandler(deps.Storage)
	migrationHandler := handlers.NewMigrationHandler(db)
	aiHandler := handlers.NewAIHandler(aiService)
	healthHandler := handlers.NewHealthHandler(db, deps.Redis, aiService, cfg.Telemetry.Release)

	gate := middleware.NewGate(deps.Verifier)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	if deps.SentryEnabled {
		r.Use(observability.SentryMiddleware())
	}
	if cfg.Telemetry.OtelEnabled {
		r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(deps.Throttle.Middleware())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", gate.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(gate.AdminRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		// Series routes
		series := api.Group("/series")
		{
			series.GET("", seriesHandler.GetSeries)
			series.GET("/:slug", seriesHandler.GetSeriesBySlug)

			protected := series.Group("")
			protected.Use(gate.AdminRequired())
			{
				protected.POST("", seriesHandler.CreateSeries)
				protected.PUT("/:id", seriesHandler.UpdateSeries)
				protected.DELETE("/:id", seriesHandler.DeleteSeries)
			}
		}

		// Accessory routes
		accessories := api.Group("/accessories")
		{
			accessories.GET("", accessoryHandler.GetAccessories)

			protected := accessories.Group("")
			protected.Use(gate.AdminRequired())
			{
				protected.POST("", accessoryHandler.CreateAccessory)
				protected.PUT("/:id", accessoryHandler.UpdateAccessory)
				protected.DELETE("/:id", accessoryHandler.DeleteAccessory)
			}
		}

		// Attribute routes
		attributes := api.Group("/attributes")
		{
			attributes.GET("", attributeHandler.GetAttributes)

			protected := attributes.Group("")
			protected.Use(gate.AdminRequired())
			{
				protected.POST("", attributeHandler.CreateAttribute)
				protected.PUT("/:id", attributeHandler.UpdateAttribute)
				protected.DELETE("/:id", attributeHandler.DeleteAttribute)
			}
		}

		// Code routes
		codes := api.Group("/codes")
		{
			codes.GET("/verify/:code", codeHandler.VerifyCode)

			protected := codes.Group("")
			protected.Use(gate.AdminRequired())
			{
				protected.GET("", codeHandler.GetCodes)
				protected.POST("", codeHandler.CreateCodes)
				protected.DELETE("/:id", codeHandler.DeleteCode)
			}
		}

		// Label lookup (public, records a scan)
		api.GET("/labels/:code", labelHandler.ScanLabel)

		// Review routes
		reviews := api.Group("/reviews")
		{
			reviews.GET("", reviewHandler.GetReviews)
			reviews.POST("", gate.AuthRequired(), reviewHandler.CreateReview)
		}

		// Wishlist routes
		wishlists := api.Group("/wishlists")
		wishlists.Use(gate.AuthRequired())
		{
			wishlists.GET("", wishlistHandler.GetWishlist)
			wishlists.POST("", wishlistHandler.AddToWishlist)
			wishlists.DELETE("", wishlistHandler.RemoveFromWishlist)
		}

		// Settings routes
		api.GET("/settings", settingsHandler.GetSettings)
		api.POST("/settings", gate.AdminRequired(), settingsHandler.SaveSettings)

		// Search routes
		api.GET("/search", searchHandler.Search)

		// Analytics beacons
		analytics := api.Group("/analytics")
		{
			analytics.POST("/track", analyticsHandler.TrackClick)
			analytics.POST("/pageview", analyticsHandler.TrackPageView)
		}

		// AI assistant
		api.POST("/chat", deps.ChatLimiter.Middleware(), aiHandler.Chat)

		// Upload routes
		upload := api.Group("/upload")
		upload.Use(gate.AdminRequired())
		{
			upload.POST("", uploadHandler.Upload)
			upload.DELETE("/:key", uploadHandler.Delete)
		}

		// Migration routes
		migrate := api.Group("/migrate")
		migrate.Use(gate.AdminRequired())
		{
			migrate.GET("", migrationHandler.ListMigrations)
			migrate.POST("/:name", migrationHandler.RunMigration)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(gate.AdminRequired())
		{
			admin.GET("/stats", statsHandler.GetDashboardStats)
			admin.GET("/analytics", analyticsHandler.GetSummary)
			admin.POST("/generate-product", aiHandler.GenerateProduct)

			adminLabels := admin.Group("/labels")
			{
				adminLabels.GET("", labelHandler.GetLabels)
				adminLabels.POST("", labelHandler.CreateLabel)
				adminLabels.PATCH("/:id", labelHandler.UpdateLabel)
				adminLabels.GET("/:id/scans", labelHandler.GetLabelScans)
			}

			adminReviews := admin.Group("/reviews")
			{
				adminReviews.GET("", reviewHandler.GetAllReviews)
				adminReviews.PATCH("/:id", reviewHandler.ModerateReview)
				adminReviews.DELETE("/:id", reviewHandler.DeleteReview)
			}
		}
	}

	// Local uploads are served from disk
	if deps.Storage.IsLocal() && cfg.Upload.PublicPath != "" {
		r.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	}

	return r
}
