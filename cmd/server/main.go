package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/loyaltylab/reward-ledger-go/internal/config"
	"github.com/loyaltylab/reward-ledger-go/internal/handler"
	"github.com/loyaltylab/reward-ledger-go/internal/httputil"
	"github.com/loyaltylab/reward-ledger-go/internal/jobs"
	"github.com/loyaltylab/reward-ledger-go/internal/limiter"
	"github.com/loyaltylab/reward-ledger-go/internal/middleware"
	"github.com/loyaltylab/reward-ledger-go/internal/redis"
	"github.com/loyaltylab/reward-ledger-go/internal/repository"
	"github.com/loyaltylab/reward-ledger-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	policy := limiter.Policy{
		Capacity:     cfg.RateLimitCapacity,
		RefillRate:   cfg.RateLimitRefillPerMin,
		RefillPeriod: time.Minute,
	}

	var admission limiter.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected, using distributed rate limiter")

		admission = limiter.NewRedisLimiter(redisClient.Client, policy, cfg.BucketIdleTTL())
	} else {
		memLimiter := limiter.NewMemoryLimiter(policy)
		admission = memLimiter

		sweeper := jobs.NewSweeperJob(memLimiter, cfg.BucketIdleTTL(), config.SweeperJobInterval)
		sweeper.Start()
		defer sweeper.Stop()
	}

	accountRepo := repository.NewMemoryAccountRepository(cfg.InitialBalance)

	ledgerService := service.NewLedgerService(
		accountRepo,
		admission,
		service.PointRateForPlan(cfg.EarnRatePlan),
		service.LoggingMutationHook(),
	)
	ledgerService.SetMutationWait(cfg.MutationWait())

	identityMiddleware := middleware.NewIdentityMiddleware()
	rewardHandler := handler.NewRewardHandler(ledgerService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/rewards", func(r chi.Router) {
		r.Use(identityMiddleware.Handler)
		r.Mount("/", rewardHandler.Routes())
	})

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("plan", cfg.EarnRatePlan).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
