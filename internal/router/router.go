package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneline/internal/auth"
	"phoneline/internal/middleware"
	"phoneline/internal/order"
	"phoneline/internal/restaurant"
	"phoneline/internal/web"
)

type Options struct {
	Restaurants *restaurant.Service
	// Tokens guards the API. Nil leaves it open.
	Tokens *auth.Tokens
	Logger *zap.Logger

	CORSAllowOrigins []string
	StaticDir        string
	APIProxyTarget   string
}

// New builds the engine with every route the server exposes.
func New(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)

	if len(opts.CORSAllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	restaurantHandler := restaurant.NewHandler(opts.Restaurants)
	orderHandler := order.NewHandler(opts.Restaurants, restaurant.StatusFor)

	// ───────────────────────── RESTAURANT ROUTES ─────────────────────────
	restaurants := r.Group("/api/restaurants/:phone")
	if opts.Tokens != nil {
		restaurants.Use(middleware.AuthMiddleware(opts.Tokens, logger))
	} else {
		logger.Warn("JWT_SECRET not set, API routes are unauthenticated")
	}

	// admin must be created after the auth middleware is attached.
	admin := restaurants.Group("")
	if opts.Tokens != nil {
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
	}
	{
		restaurantHandler.Register(restaurants)
		restaurants.POST("/orders/preview", orderHandler.Preview)
		admin.GET("/snapshots", restaurantHandler.ListSnapshots)
	}

	// ───────────────────────── HEALTH + DASHBOARD ─────────────────────────
	if err := web.Register(r, web.Options{
		StaticDir:   opts.StaticDir,
		ProxyTarget: opts.APIProxyTarget,
		Logger:      logger,
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// Server wraps the engine with the timeouts the API runs with.
func Server(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
