package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roomvana/designhub/internal/auth"
	"github.com/roomvana/designhub/internal/cache"
	"github.com/roomvana/designhub/internal/config"
	"github.com/roomvana/designhub/internal/gemini"
	"github.com/roomvana/designhub/internal/http/handlers"
	"github.com/roomvana/designhub/internal/http/middlewares"
	"github.com/roomvana/designhub/internal/observability"
	"github.com/roomvana/designhub/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// metrics registry for this router instance
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("designhub-api"))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	projectsRepo := postgres.NewProjectsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager)

	// shared counters when redis is configured, per-process otherwise
	var counters middlewares.CounterStore
	if cfg.RedisAddr != "" {
		counters = middlewares.NewRedisCounterStore(middlewares.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	authLimiter := middlewares.NewRateLimiter(20, time.Minute, counters)
	generateLimiter := middlewares.NewRateLimiter(5, time.Minute, counters)

	listCache := cache.New(10 * time.Second)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiEndpoint,
		Timeout: cfg.GeminiTimeout(),
	})

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	projectsHandler := handlers.NewProjectsHandler(projectsRepo, listCache)
	designsHandler := handlers.NewDesignsHandler(geminiClient, cfg.GeminiModel, prom)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	authRoutes := api.Group("/auth")
	authRoutes.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	authRoutes.POST("/signup", authHandler.SignUp)
	authRoutes.POST("/login", authHandler.Login)

	projects := api.Group("/projects")
	projects.Use(authMiddleware.RequireAuth())
	projects.GET("", projectsHandler.ListProjects)
	projects.POST("", projectsHandler.CreateProject)
	projects.DELETE("/:id", projectsHandler.DeleteProject)

	designs := api.Group("/designs")
	designs.Use(authMiddleware.RequireAuth())
	designs.GET("/styles", designsHandler.ListStyles)
	designs.POST("/generate",
		generateLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		designsHandler.GenerateDesign,
	)

	return r
}
