package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sergey-oreshkin/shareit/internal/auth"
	authHttp "github.com/sergey-oreshkin/shareit/internal/auth/http"
	"github.com/sergey-oreshkin/shareit/internal/booking"
	bookingHttp "github.com/sergey-oreshkin/shareit/internal/booking/http"
	"github.com/sergey-oreshkin/shareit/internal/item"
	itemHttp "github.com/sergey-oreshkin/shareit/internal/item/http"
	"github.com/sergey-oreshkin/shareit/internal/pkg/clock"
	"github.com/sergey-oreshkin/shareit/internal/request"
	requestHttp "github.com/sergey-oreshkin/shareit/internal/request/http"
	"github.com/sergey-oreshkin/shareit/internal/user"
	userHttp "github.com/sergey-oreshkin/shareit/internal/user/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	ItemService    item.Service
	RequestService request.Service
	BookingService booking.Service

	JWTManager *auth.JWTManager
	Logger     *zap.Logger
	Clock      clock.Clock
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, metrics, auth)
// and registering routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery(), Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: validates the JWT and puts the acting user id into the context.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	authHandler := authHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Clock)

	v1 := r.Group("/v1")
	{
		authHttp.RegisterRoutes(v1, authHandler)
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, authMiddleware)
		requestHttp.RegisterRoutes(v1, requestHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
