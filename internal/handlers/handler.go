package handlers

import (
	"reclaim_control/internal/logger"
	"reclaim_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	log         *logger.Logger
	requireAuth bool
}

// NewHandler constructs a new HTTP handler. When requireAuth is set, admin and
// recorder routes need a bearer token.
func NewHandler(services *service.Service, log *logger.Logger, requireAuth bool) *Handler {
	return &Handler{services: services, log: log, requireAuth: requireAuth}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerControlRoutes(router)
	h.registerAdminRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// Core routes stay open regardless of auth settings.
func (h *Handler) registerControlRoutes(r *gin.Engine) {
	r.GET("/state", h.getState)

	boost := r.Group("/boost")
	{
		boost.POST("/on", h.boostOn)
		boost.POST("/off", h.boostOff)
		// ?from=ON|OFF
		boost.POST("/toggle", h.boostToggle)
	}

	r.GET("/history/:start_ms/:end_ms", h.getHistory)
}

func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	admin := r.Group("/", h.optionalAuth)
	{
		admin.GET("/tables", h.getTables)
		admin.POST("/test_data/add", h.addTestData)
		admin.DELETE("/test_data/delete/:start_ms/:end_ms", h.deleteTestData)
		admin.GET("/events", h.getEvents)
	}

	logging := r.Group("/logging", h.optionalAuth)
	{
		logging.POST("/start/:interval", h.startLogging)
		logging.POST("/stop", h.stopLogging)
		logging.GET("/status", h.loggingStatus)
	}
}
