package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/config"
	"github.com/staffhub/candidate-grid/internal/gridstate"
	"github.com/staffhub/candidate-grid/internal/handler"
	"github.com/staffhub/candidate-grid/internal/metrics"
	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/migrate"
	"github.com/staffhub/candidate-grid/internal/permission"
	"github.com/staffhub/candidate-grid/internal/repository"
	"github.com/staffhub/candidate-grid/internal/service"
	"github.com/staffhub/candidate-grid/internal/storage"
)

func serve(ctx context.Context, cfg *config.Config, migrateFirst bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting Candidate Grid API")

	// ── Database ─────────────────────────────────────────
	pool, err := openPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrateFirst {
		if err := migrate.Apply(ctx, pool); err != nil {
			return err
		}
	}

	// ── Redis (optional) ─────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		log.Info().Msg("Redis connected")
	}

	// ── Supporting services ──────────────────────────────
	policy, err := loadPolicy(cfg.PermissionsFile)
	if err != nil {
		return err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())

	var states gridstate.Store = gridstate.NewMemoryStore()
	var limiter middleware.Limiter
	if rdb != nil {
		states = gridstate.NewRedisStore(rdb, cfg.GridStateTTL)
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitRPS, time.Second)
	} else {
		memLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	// ── Repositories ─────────────────────────────────────
	candidateRepo := repository.NewCandidateRepo(pool)
	detailRepo := repository.NewDetailRepo(pool)
	submissionRepo := repository.NewSubmissionRepo(pool)
	interviewRepo := repository.NewInterviewRepo(pool)
	offerRepo := repository.NewOfferRepo(pool)
	noteRepo := repository.NewNoteRepo(pool)
	attachmentRepo := repository.NewAttachmentRepo(pool)
	checkRepo := repository.NewBackgroundCheckRepo(pool)

	// ── Services ─────────────────────────────────────────
	guard := service.NewScheduleGuard(time.Now)
	pipelineSvc := service.NewPipelineService(candidateRepo, detailRepo, collector)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, candidateRepo, detailRepo, blobs, cfg.MaxUploadBytes)
	panelSvc := service.NewPanelService(detailRepo, states)

	// ── Handlers ─────────────────────────────────────────
	handlers := handler.Handlers{
		Candidates:       handler.NewCandidateHandler(candidateRepo, detailRepo, collector),
		Pipeline:         handler.NewPipelineHandler(pipelineSvc, candidateRepo),
		Submissions:      handler.NewSubmissionHandler(submissionRepo, detailRepo, guard, collector),
		Interviews:       handler.NewInterviewHandler(interviewRepo, detailRepo, guard, collector),
		Offers:           handler.NewOfferHandler(offerRepo, detailRepo, guard, collector),
		Notes:            handler.NewNoteHandler(noteRepo, detailRepo, panelSvc, collector),
		Attachments:      handler.NewAttachmentHandler(attachmentRepo, attachmentSvc, collector, cfg.MaxUploadBytes),
		BackgroundChecks: handler.NewBackgroundCheckHandler(checkRepo, detailRepo, guard, collector),
		Grid:             handler.NewGridHandler(panelSvc),
		Permissions:      handler.NewPermissionHandler(policy),
	}

	// ── Middleware ────────────────────────────────────────
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.FirebaseProjectID, cfg.DefaultRole)
	if err != nil {
		return fmt.Errorf("initializing firebase auth: %w", err)
	}

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Unauthenticated
	r.GET("/health", healthHandler)
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	api := r.Group("/", authMiddleware.Authenticate(), middleware.RateLimit(limiter))
	handler.RegisterRoutes(api, handlers, policy)

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Candidate Grid API server running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"time":    time.Now().UTC(),
	})
}

// loadPolicy reads the YAML policy file, or falls back to the built-in roles
func loadPolicy(path string) (*permission.Policy, error) {
	if path == "" {
		log.Info().Msg("No permissions file configured; using default policy")
		return permission.DefaultPolicy(), nil
	}
	policy, err := permission.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("roles", len(policy.Roles)).Msg("Permissions policy loaded")
	return policy, nil
}

// newBlobStore picks S3 when a bucket is configured, local disk otherwise
func newBlobStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.AttachmentBucket != "" {
		s, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.AttachmentBucket, cfg.AttachmentPrefix)
		if err != nil {
			return nil, fmt.Errorf("initializing S3 attachment store: %w", err)
		}
		log.Info().Str("bucket", cfg.AttachmentBucket).Msg("Attachments stored in S3")
		return s, nil
	}
	s, err := storage.NewLocalStore(cfg.AttachmentDir)
	if err != nil {
		return nil, fmt.Errorf("initializing local attachment store: %w", err)
	}
	log.Info().Str("dir", cfg.AttachmentDir).Msg("Attachments stored on local disk")
	return s, nil
}
