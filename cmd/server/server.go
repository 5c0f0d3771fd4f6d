package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/phone-addiction-o-meter/docs"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/config"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/database"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/encoding"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/middleware"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/privacy"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/security"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/trends"
)

const version = "1.0.0"

// server holds everything the handlers need; optional parts are nil when disabled
type server struct {
	cfg        *config.Config
	analyzer   *analysis.Analyzer
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	collectors *monitoring.Collectors
	security   *security.SecurityMiddleware
	limiter    *ratelimit.RateLimiter
	redis      *ratelimit.RedisClient
	cache      *cache.Cache
	memory     *monitoring.MemoryMonitor
	encoder    *encoding.Encoder
	compressor *middleware.CompressionMiddleware

	db       *database.DB
	repo     *database.Repository
	recorder *database.Recorder
	privacy  *privacy.PrivacyService
	trends   *trends.Service

	started time.Time
}

// newServer wires the components selected by cfg
func newServer(ctx context.Context, cfg *config.Config, logger *monitoring.Logger, src analysis.RandSource) (*server, error) {
	s := &server{
		cfg:        cfg,
		analyzer:   analysis.NewAnalyzer(src),
		metrics:    monitoring.NewMetrics(),
		logger:     logger,
		collectors: monitoring.NewCollectors(),
		encoder:    encoding.NewEncoder(),
		started:    time.Now(),
	}

	if cfg.Compression.Enabled {
		compCfg := middleware.DefaultCompressionConfig()
		compCfg.MinSize = cfg.Compression.MinSize
		compCfg.CompressionLevel = cfg.Compression.Level
		s.compressor = middleware.NewCompressionMiddleware(compCfg)
	}

	secCfg := security.DefaultSecurityConfig()
	secCfg.MaxBodyBytes = cfg.Server.MaxBodyBytes
	secCfg.RequestTimeout = cfg.RequestTimeout()
	s.security = security.NewSecurityMiddleware(secCfg)

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// the limiter falls back to memory
		slog.Warn("Redis unavailable, using in-memory rate limiting", "addr", cfg.Redis.Addr, "error", err)
	}
	s.redis = redisClient
	s.limiter = ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:   cfg.RateLimit.PerMinute,
		BurstMultiplier: cfg.RateLimit.BurstMultiplier,
	}, s.metrics)

	if ttl := cfg.CacheTTL(); ttl > 0 {
		s.cache = cache.NewCache(ttl, s.metrics)
	}

	if cfg.Storage.StoreAssessments {
		db, err := database.NewDB(cfg.Storage.DataDir)
		if err != nil {
			s.close()
			return nil, errors.NewConfigurationError("failed to open assessment database", err)
		}
		s.db = db
		s.repo = database.NewRepository(db)
		s.recorder = database.NewRecorder(s.repo, s.metrics, logger)
		s.privacy = privacy.NewService(s.repo, cfg.Storage.IPHashSalt, cfg.Storage.RetentionDays)
		s.trends = trends.NewService(s.repo, time.Minute)
	}

	s.memory = monitoring.NewMemoryMonitor(30*time.Second, s.metrics, logger)

	return s, nil
}

// run starts the background loops; they stop when ctx is cancelled
func (s *server) run(ctx context.Context) {
	go s.memory.Run(ctx)
	if s.privacy != nil {
		go s.privacy.RunRetention(ctx, 24*time.Hour)
	}
	if s.trends != nil {
		go s.trends.StartAutoRefresh(ctx, 5*time.Minute)
	}
}

// close releases resources after pending assessment writes have finished
func (s *server) close() {
	if s.recorder != nil {
		s.recorder.Wait()
	}
	if s.cache != nil {
		s.cache.Close()
	}
	if s.trends != nil {
		s.trends.Close()
	}
	if s.limiter != nil {
		s.limiter.Close()
	}
	errors.SafeClose(s.redis, "redis")
	if s.db != nil {
		errors.SafeClose(s.db, "database")
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", monitoring.RequestIDHeader},
		ExposeHeaders: []string{monitoring.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// router builds the gin engine with the full middleware stack
func (s *server) router() *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is counted, including rejected ones
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(s.collectors.Middleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.cfg.Server.MaxBodyBytes))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(cors.New(corsConfig(s.cfg.Server.AllowedOrigins)))
	r.Use(s.security.SecurityHeaders())
	r.Use(s.security.RequestTimeout)
	if s.compressor != nil {
		r.Use(s.compressor.Handler())
	}

	r.GET("/health", s.handleHealth)
	r.GET("/stats", s.handleStats)
	r.GET("/metrics", gin.WrapH(s.collectors.Handler()))
	r.GET("/privacy", s.handlePrivacy)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := r.Group("/")
	limited.Use(s.limiter.IPRateLimitMiddleware(s.collectors.ObserveRateLimited))
	limited.POST("/predict", s.security.ValidateContentType, s.security.LimitBody, s.handlePredict)

	assessments := limited.Group("/assessments")
	assessments.GET("/stats", s.handleAssessmentStats)
	assessments.GET("/:id", s.handleGetAssessment)
	assessments.DELETE("/:id", s.handleDeleteAssessment)

	return r
}
