package handlers

import (
	"time"

	_ "bms_proxy/docs"
	"bms_proxy/internal/logger"
	"bms_proxy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "BMS Proxy Service"

// Options carries the HTTP layer settings taken from configuration.
type Options struct {
	AuthEnabled     bool
	DefaultUsername string // vendor credentials used when /api/login has none
	DefaultPassword string
	Environment     string
	Version         string
	WSInterval      time.Duration
	AllowedOrigins  []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.WSInterval <= 0 {
		opts.WSInterval = defaultInterval
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.guard(), h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.health)

	protected := api.Group("", h.guard())
	{
		h.registerVendorRoutes(protected)
		protected.GET("/state", h.getState)
		protected.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerVendorRoutes(api *gin.RouterGroup) {
	api.POST("/login", h.vendorLogin)
	api.POST("/logout", h.vendorLogout)
	api.POST("/set-temp", h.setTemperature)
	api.POST("/control-ac", h.controlAC)
	api.POST("/set-schedule-status", h.setScheduleStatus)
	api.POST("/set-schedule-time", h.setScheduleTime)
	api.POST("/get-current-status", h.getCurrentStatus)
	api.POST("/vfd-stats", h.getVfdStats)
	api.GET("/vfd-stats/export", h.exportVfdStats)
}

// guard returns the operator token check when auth is enabled and a
// pass-through otherwise.
func (h *Handler) guard() gin.HandlerFunc {
	if !h.opts.AuthEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return h.operatorMiddleware
}
