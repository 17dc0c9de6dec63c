package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/logging"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	RateLimit    config.RateLimitConfig
	Logger       *zerolog.Logger
	// HealthCheck backs /healthz. Nil reports healthy.
	HealthCheck func(ctx context.Context) error

	UserService    user.Service
	ItemService    item.Service
	RequestService itemrequest.Service
	BookingService booking.Service
}

// NewRouter initializes the HTTP router engine.
// Middleware order: recovery, request logging, metrics, CORS, rate limiting.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logging.OrNop(cfg.Logger)))
	r.Use(Metrics())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(newRateLimiter(cfg.RateLimit).Middleware())

	r.GET("/healthz", healthz(cfg.HealthCheck))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userMiddleware := auth.UserRequired()

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHttp.NewHandler(cfg.UserService))
		itemHttp.RegisterRoutes(root, itemHttp.NewHandler(cfg.ItemService), userMiddleware)
		requestHttp.RegisterRoutes(root, requestHttp.NewHandler(cfg.RequestService), userMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHttp.NewHandler(cfg.BookingService), userMiddleware)
	}

	return r
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logging.FromGin(c).Error().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func corsConfig(cfg Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.IsProduction && len(cfg.ProdOrigins) > 0 {
		c.AllowOrigins = cfg.ProdOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", auth.UserIDHeader, requestIDHeader}
	c.ExposeHeaders = []string{bookingHttp.TotalCountHeader, requestIDHeader}
	return c
}
