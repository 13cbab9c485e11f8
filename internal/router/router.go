package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/careerpath/internal/config"
	"github.com/stemsi/careerpath/internal/handler"
	"github.com/stemsi/careerpath/internal/middleware"
	"github.com/stemsi/careerpath/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health   *handler.HealthHandler
	Exam     *handler.ExamHandler
	Progress *handler.ProgressHandler
	Roadmap  *handler.RoadmapHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// limiter may be nil to disable rate limiting.
func SetupRouter(
	handlers *Handlers,
	identity *middleware.Identity,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health check.
	router.GET("/health", handlers.Health.Health)

	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	api.Use(identity.Optional(), middleware.Brotli(middleware.DefaultCompressMinLength))

	// ─── 1. Tests (anonymous callers get a non-deterministic paper) ────
	tests := api.Group("/tests")
	{
		tests.GET("/:test_id/paper", handlers.Exam.GetPaper)
		tests.POST("/:test_id/submit", identity.Require(), handlers.Exam.Submit)
	}

	// ─── 2. Student state (identity required) ──────────────────────────
	student := api.Group("")
	student.Use(identity.Require())
	{
		student.GET("/progress", handlers.Progress.GetProgress)
		student.GET("/profile", handlers.Roadmap.GetProfile)
		student.PUT("/profile", handlers.Roadmap.UpdateProfile)
		student.GET("/roadmap", handlers.Roadmap.GetRoadmap)
	}

	return router
}
