package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/ftsilveira/dailydiet/internal/auth"
	"github.com/ftsilveira/dailydiet/internal/cache"
	"github.com/ftsilveira/dailydiet/internal/config"
	"github.com/ftsilveira/dailydiet/internal/http/handlers"
	"github.com/ftsilveira/dailydiet/internal/http/middlewares"
	"github.com/ftsilveira/dailydiet/internal/observability"
	"github.com/ftsilveira/dailydiet/internal/repo/memory"
	"github.com/ftsilveira/dailydiet/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("dailydiet-api"))
	}

	// metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

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

	// wire up repositories; no pool means the in-memory store (dev only)

	var usersRepo handlers.UserResolver
	var mealsRepo handlers.MealsStore

	if pool != nil {
		usersRepo = postgres.NewUsersRepo(pool)
		mealsRepo = postgres.NewMealsRepo(pool, prom)
	} else {
		mem := memory.NewUsersRepo()
		if cfg.SeedUserSubject != "" {
			mem.Add(cfg.SeedUserSubject, cfg.SeedUserName)
		}
		usersRepo = mem
		mealsRepo = memory.NewMealsRepo()
	}

	// summary cache: redis when configured, otherwise a process-local TTL map

	cacheTTL := time.Duration(cfg.SummaryCacheTTLSec) * time.Second

	var summaryCache cache.Store

	if cfg.RedisAddr != "" {
		summaryCache = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cacheTTL,
		})
	} else {
		summaryCache = cache.New(cacheTTL)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	authMW := middlewares.NewAuthMiddleware(jwtManager)
	limiter := middlewares.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	mealsHandler := handlers.NewMealsHandlerWithCache(usersRepo, mealsRepo, summaryCache, prom)

	meals := r.Group("/meals")
	meals.Use(authMW.RequireAuth())
	meals.Use(limiter.RateLimiterMiddleware(middlewares.KeyBySubjectOrIP))

	meals.GET("", mealsHandler.ListMeals)
	meals.POST("", mealsHandler.CreateMeal)
	meals.GET("/summary", mealsHandler.Summary)
	meals.GET("/:id", mealsHandler.GetMealByID)
	meals.PUT("/:id", mealsHandler.UpdateMeal)
	meals.DELETE("/:id", mealsHandler.DeleteMeal)

	return r
}
