package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	BasePath       string
	AllowedOrigins []string
	// SubmitLimiter guards POST /quiz/submit; nil disables limiting.
	SubmitLimiter *RateLimiter
	// Metrics mounts /metrics and the request middleware when set.
	Metrics MetricsProvider
	Logger  *zap.Logger
}

type MetricsProvider interface {
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	basePath := opts.BasePath
	if basePath == "" {
		basePath = "/api"
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/healthz", h.health)

	api := r.Group(basePath)
	api.GET("/health", h.health)
	api.GET("/countries", h.listCountries)
	api.GET("/countries/:code", h.getCountry)

	submit := []gin.HandlerFunc{h.submitQuiz}
	if opts.SubmitLimiter != nil {
		submit = append([]gin.HandlerFunc{opts.SubmitLimiter.Middleware()}, submit...)
	}
	api.POST("/quiz/submit", submit...)
	api.GET("/quiz/:countryCode", h.generateQuiz)

	api.GET("/leaderboard", h.globalLeaderboard)
	api.GET("/leaderboard/countries/available", h.availableLeaderboards)
	api.GET("/leaderboard/:countryCode", h.countryLeaderboard)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}
