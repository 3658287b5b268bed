// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activation-admin/internal/config"
	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/infra/adapters/auth"
	"activation-admin/internal/infra/adapters/notification"
	"activation-admin/internal/infra/adapters/storage"
	"activation-admin/internal/infra/api"
	apiv1 "activation-admin/internal/infra/api/apiv1"
	pg "activation-admin/internal/infra/db/postgres"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"
	red "activation-admin/internal/infra/redis"
	"activation-admin/internal/infra/scheduler"
	"activation-admin/internal/provision"
	"activation-admin/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, in-memory push and storage)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister(nil)
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional) ----
	var redisClient *red.Client
	limiter := provision.Unconfigured[apiv1.LoginLimiter]("redis.url not set")
	if cfg.Redis.URL != "" {
		redisClient, err = red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; login rate limiting and stats cache disabled")
			limiter = provision.Unconfigured[apiv1.LoginLimiter]("redis unreachable: " + err.Error())
		} else {
			defer redisClient.Close()
			limiter = provision.Configured[apiv1.LoginLimiter](red.NewRateLimiter(redisClient))
		}
	}

	// ---- Repositories ----
	codeRepo := pg.NewActivationCodeRepo(pool)
	if redisClient != nil && cfg.Redis.StatsTTL > 0 {
		codeRepo = pg.NewActivationCodeRepoCacheDecorator(codeRepo, redisClient, cfg.Redis.StatsTTL, logger)
	}
	bookRepo := pg.NewEBookRepo(pool)
	pushRepo := pg.NewPushNotificationRepo(pool)

	// ---- Providers ----
	pusher := provisionPush(cfg, logger)
	store := provisionStorage(ctx, cfg, logger)

	// ---- Use cases ----
	codesUC := usecase.NewActivationUseCase(codeRepo, logger)
	booksUC := usecase.NewEBookUseCase(bookRepo, store, logger)
	pushUC := usecase.NewBroadcastUseCase(pusher, pushRepo, logger)

	// ---- Background gauges ----
	sch := scheduler.NewScheduler(cfg.Admin.MetricsInterval, logger,
		scheduler.Func("db_pool_stats", pg.ReportPoolStats(pool)),
		scheduler.Func("registry_size", pg.ReportRegistrySize(codeRepo)),
	)
	sch.Start(ctx)
	defer sch.Stop()

	// ---- HTTP ----
	srv := apiv1.NewServer(apiv1.Deps{
		Codes:         codesUC,
		Books:         booksUC,
		Push:          pushUC,
		Verifier:      auth.NewStaticVerifier(cfg.Admin.Email, cfg.Admin.Password),
		Limiter:       limiter,
		LoginAttempts: cfg.Admin.LoginAttempts,
		LoginWindow:   cfg.Admin.LoginWindow,
		Dev:           cfg.Runtime.Dev,
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(api.TraceID(), api.RequestLog(logger), api.Recover(logger), apiv1.CORS(cfg.Admin.AllowedOrigins))
	r.Get("/health", api.Health(pool))
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(api.Timeout(cfg.Admin.RequestTimeout))
		apiv1.RegisterAPIV1(r, srv)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}

// provisionPush picks OneSignal when credentials are present. Dev mode falls back
// to the in-memory provider so the dashboard stays usable offline.
func provisionPush(cfg *config.Config, logger *zerolog.Logger) provision.Setup[adapter.NotificationProvider] {
	oc := cfg.OneSignal
	if oc.AppID != "" && oc.RESTAPIKey != "" {
		p, err := notification.NewOneSignal(oc.AppID, oc.RESTAPIKey, oc.BaseURL, oc.Timeout)
		if err == nil {
			logger.Info().Str("base_url", oc.BaseURL).Msg("push provider: onesignal")
			return provision.Configured[adapter.NotificationProvider](p)
		}
		logger.Warn().Err(err).Msg("onesignal disabled")
		return provision.Unconfigured[adapter.NotificationProvider](err.Error())
	}
	if cfg.Runtime.Dev {
		logger.Warn().Msg("push provider: noop (dev)")
		return provision.Configured[adapter.NotificationProvider](notification.NewNoop())
	}
	return provision.Unconfigured[adapter.NotificationProvider]("onesignal.app_id and onesignal.rest_api_key are required")
}

func provisionStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) provision.Setup[adapter.ObjectStorage] {
	sc := cfg.Storage
	if sc.AccessKeyID != "" && sc.SecretAccessKey != "" {
		s, err := storage.NewS3Storage(ctx, sc)
		if err == nil {
			logger.Info().Str("bucket", sc.Bucket).Str("endpoint", sc.Endpoint).Msg("object storage: s3")
			return provision.Configured[adapter.ObjectStorage](s)
		}
		logger.Warn().Err(err).Msg("object storage disabled")
		return provision.Unconfigured[adapter.ObjectStorage](err.Error())
	}
	if cfg.Runtime.Dev {
		logger.Warn().Msg("object storage: memory (dev)")
		return provision.Configured[adapter.ObjectStorage](storage.NewMemStorage(sc.PublicBaseURL))
	}
	return provision.Unconfigured[adapter.ObjectStorage]("storage.access_key_id and storage.secret_access_key are required")
}
