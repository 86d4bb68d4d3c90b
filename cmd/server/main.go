package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"treatment-site-service/internal/adapters/policystore"
	"treatment-site-service/internal/adapters/routing"
	"treatment-site-service/internal/adapters/storage"
	"treatment-site-service/internal/api"
	"treatment-site-service/internal/api/handlers"
	"treatment-site-service/internal/config"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/clock"
	"treatment-site-service/internal/platform/db"
	"treatment-site-service/internal/ports"
	"treatment-site-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "treatment-sites:"

// main is the application composition root.
// It wires concrete adapters behind ports, starts the countdown tick and
// serves HTTP until interrupted.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var database *sql.DB
	if cfg.NeedsDatabase() {
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer database.Close()

		if err := storage.InitSchema(ctx, database); err != nil {
			log.Fatal(err)
		}
	}

	repo, err := openRepository(cfg, database)
	if err != nil {
		log.Fatal(err)
	}
	policies, closePolicies, err := openPolicyStore(ctx, cfg, database)
	if err != nil {
		log.Fatal(err)
	}
	defer closePolicies()

	provider, err := routing.NewOSRMClient(cfg.OSRMBaseURL, cfg.OSRMProfile, cfg.OSRMRate)
	if err != nil {
		log.Fatal(err)
	}

	snapshot := services.NewSiteSnapshot(repo)
	if err := snapshot.Refresh(ctx); err != nil {
		log.Fatal(err)
	}

	configStore := services.NewConfigStore(policies, catalog.DefaultPolicy())
	if err := configStore.Load(ctx); err != nil {
		log.Fatal(err)
	}

	sysClock := clock.System{}
	classifier := services.NewClassifier()
	board := services.NewCountdownBoard(snapshot, configStore, classifier)
	stream := handlers.NewCountdownStream()
	board.OnUpdate(stream.Publish)
	board.Tick(sysClock.Now())

	tick := services.NewTickSource(sysClock, cfg.TickInterval)
	if err := tick.Subscribe(board.Tick); err != nil {
		log.Fatal(err)
	}
	if err := tick.Start(); err != nil {
		log.Fatal(err)
	}
	defer tick.Stop()

	sessions := services.NewSessionRegistry(
		func() *services.RoutePlanner {
			return services.NewRoutePlanner(provider, snapshot, cfg.MatchEpsilon)
		},
		func() *services.BulkCoordinator {
			return services.NewBulkCoordinator(snapshot, repo, classifier, cfg.BulkConcurrency)
		},
	)

	router := api.NewRouter(api.Deps{
		Sites:    services.NewSiteService(repo, snapshot, classifier),
		Board:    board,
		Config:   configStore,
		Catalog:  catalog,
		Sessions: sessions,
		Tick:     tick,
		Events:   stream,
		Now:      sysClock.Now,
	})

	// Timeouts leave room for slow routing calls; the event stream clears
	// its own write deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s storage=%s policy=%s osrm=%s sites=%d", cfg.Port, cfg.Storage, cfg.Policy, cfg.OSRMBaseURL, len(snapshot.All()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func openRepository(cfg config.Config, database *sql.DB) (ports.SiteRepository, error) {
	switch cfg.Storage {
	case config.StorageHTTP:
		repo, err := storage.NewHTTPRepository(cfg.StorageURL)
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}
		return repo, nil
	case config.StoragePostgres:
		return storage.NewPostgresRepository(database), nil
	case config.StorageMemory:
		seed, err := readOptionalSeed(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		return storage.NewMemoryRepository(seed...), nil
	default:
		return nil, fmt.Errorf("open repository: %w: %q", config.ErrUnknownBackend, cfg.Storage)
	}
}

func readOptionalSeed(path string) ([]domain.Site, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Printf("No seed file found path=%s (starting empty)", path)
		return nil, nil
	}
	return storage.ReadSeed(path)
}

// openPolicyStore returns the configured policy store and a close function.
func openPolicyStore(ctx context.Context, cfg config.Config, database *sql.DB) (ports.PolicyStore, func(), error) {
	switch cfg.Policy {
	case config.PolicyPostgres:
		return policystore.NewPostgresStore(database), func() {}, nil
	case config.PolicyRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("open policy store: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return policystore.NewRedisStore(rdb, redisKeyPrefix), func() { _ = rdb.Close() }, nil
	case config.PolicyMemory:
		return policystore.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("open policy store: %w: %q", config.ErrUnknownBackend, cfg.Policy)
	}
}
