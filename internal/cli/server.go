package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/app"
	"github.com/KevinSet35/geo-whiz/internal/config"
	"github.com/KevinSet35/geo-whiz/internal/infra/memory"
	"github.com/KevinSet35/geo-whiz/internal/infra/objectstore"
	"github.com/KevinSet35/geo-whiz/internal/infra/postgres"
	rediscache "github.com/KevinSet35/geo-whiz/internal/infra/redis"
	"github.com/KevinSet35/geo-whiz/internal/metrics"
	transport "github.com/KevinSet35/geo-whiz/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	templates, err := templateLoader(cfg, pool, redisClient)
	if err != nil {
		return err
	}
	store, err := app.LoadQuestionStore(ctx, templates)
	if err != nil {
		return err
	}
	log.Info("question store loaded",
		zap.String("source", cfg.Templates.Source),
		zap.Bool("redis_cache", redisClient != nil),
		zap.Strings("countries", store.Countries()),
		zap.Int("templates", store.Size()),
	)

	countries, leaderboardLoader, err := directoryLoaders(cfg, pool)
	if err != nil {
		return err
	}
	countryService, err := app.LoadCountryService(ctx, countries)
	if err != nil {
		return err
	}

	quizService := app.NewQuizService(store, countryService, cfg.Quiz.Length)
	leaderboardRepo := memory.NewLeaderboardRepository(leaderboardLoader, config.TTLDuration(cfg.Leaderboard.TTL, time.Minute))
	leaderboardService := app.NewLeaderboardService(leaderboardRepo, countryService, quizService.Length())

	m := metrics.New()
	handler := transport.NewHandler(quizService, countryService, leaderboardService,
		transport.WithRevealAnswers(cfg.Quiz.RevealAnswers),
		transport.WithRecorder(m),
		transport.WithLogger(log),
	)

	var limiter *transport.RateLimiter
	if cfg.RateLimit.MaxRequests > 0 {
		window := config.TTLDuration(cfg.RateLimit.Window, time.Minute)
		limiter = transport.NewRateLimiter(cfg.RateLimit.MaxRequests, window)
		go sweepLimiter(ctx, limiter)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transport.NewRouter(handler, transport.RouterOptions{
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SubmitLimiter:  limiter,
		Metrics:        m,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info("starting geo-whiz", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// templateLoader picks the question bank source, optionally behind the Redis cache.
func templateLoader(cfg config.Config, pool *pgxpool.Pool, client *redis.Client) (app.TemplateLoader, error) {
	var loader app.TemplateLoader
	switch cfg.Templates.Source {
	case "file":
		loader = memory.NewFileTemplateLoader(cfg.Templates.File)
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("templates source postgres needs postgres.url")
		}
		loader = postgres.NewTemplateLoader(pool)
	case "minio":
		m, err := newMinioLoader(cfg)
		if err != nil {
			return nil, err
		}
		loader = m
	default:
		bank, err := memory.EmbeddedTemplates()
		if err != nil {
			return nil, err
		}
		loader = memory.NewStaticTemplateLoader(bank)
	}

	if client != nil {
		return rediscache.NewTemplateCache(client, loader, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)), nil
	}
	return loader, nil
}

func directoryLoaders(cfg config.Config, pool *pgxpool.Pool) (app.CountryLoader, memory.LeaderboardLoader, error) {
	if cfg.Leaderboard.Source == "postgres" {
		if pool == nil {
			return nil, nil, fmt.Errorf("leaderboard source postgres needs postgres.url")
		}
		return postgres.NewCountryLoader(pool), postgres.NewLeaderboardLoader(pool), nil
	}

	countries, err := memory.EmbeddedCountries()
	if err != nil {
		return nil, nil, err
	}
	boards, err := memory.EmbeddedLeaderboards()
	if err != nil {
		return nil, nil, err
	}
	return memory.NewStaticCountryLoader(countries), memory.NewStaticLeaderboardLoader(boards), nil
}

func newMinioLoader(cfg config.Config) (*objectstore.TemplateLoader, error) {
	return objectstore.NewTemplateLoader(objectstore.Options{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		Object:    cfg.Minio.Object,
		UseSSL:    cfg.Minio.UseSSL,
	})
}

func sweepLimiter(ctx context.Context, limiter *transport.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
