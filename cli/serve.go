package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"financial-calc/config"
	httpLayer "financial-calc/http"
	"financial-calc/repository"
	"financial-calc/service"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		cache := repository.NewRedisCache(cfg.RedisAddr, cfg.TTL.Duration)
		if err := cache.Ping(ctx); err != nil {
			cache.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache, func() { cache.Close() }, nil
	default:
		return repository.NewMemoryCache(), func() {}, nil
	}
}

func buildStore(ctx context.Context, cfg config.StoreConfig) (repository.CalculationRepository, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		repo, err := repository.NewCalculationRepositoryPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return repository.NewCalculationRepositoryMemory(), func() {}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cache, closeCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	store, closeStore, err := buildStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	calculatorService := service.NewCalculatorService(store, cache, service.SolverOptions{
		MaxIterations: cfg.Solver.MaxIterations,
		Tolerance:     cfg.Solver.Tolerance,
	})
	loanService := service.NewLoanService(store)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
	defer rateLimiter.Stop()

	mux := httpLayer.NewRouter(
		httpLayer.NewCalculatorHandler(calculatorService),
		httpLayer.NewLoanHandler(loanService),
		rateLimiter,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("fincalc listening on %s (cache=%s, store=%s)", cfg.Server.Addr, cfg.Cache.Backend, cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	case <-quit:
		log.Println("Shutting down server...")
	case <-ctx.Done():
		log.Println("Context cancelled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
