package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-auction/internal/auction"
	bidding "live-auction/internal/biddingService"
	"live-auction/internal/broadcast"
	"live-auction/internal/cache"
	"live-auction/internal/config"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/internal/scheduler"
	"live-auction/internal/server"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(cfg)
	if err != nil {
		utils.Fatal("failed to open repository", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}
	store, err := openCache(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to open cache", map[string]any{"driver": cfg.CacheDriver, "error": err.Error()})
	}

	snapshots := cache.NewSnapshots(store)
	resolver := auction.NewResolver(repo, snapshots,
		auction.WithRepopulate(cfg.CacheRepopulate),
		auction.WithSnapshotGrace(cfg.SnapshotGrace),
	)
	hub := broadcast.NewHub()
	notifier := broadcast.NewNotifier(hub)
	manager := auction.NewManager(repo, resolver, snapshots, notifier)
	biddingSvc := bidding.NewBiddingService(repo, resolver, notifier)

	if cfg.SeedDemo {
		if err := seedDemoAuctions(ctx, repo); err != nil {
			utils.Fatal("failed to seed demo auctions", map[string]any{"error": err.Error()})
		}
	}

	publisher, err := openTriggerBus(ctx, cfg, scheduler.NewDispatcher(manager))
	if err != nil {
		utils.Fatal("failed to open trigger bus", map[string]any{"transport": cfg.TriggerTransport, "error": err.Error()})
	}
	if cfg.SchedulerEnabled {
		go scheduler.NewTicker(publisher, cfg.SweepInterval).Run(ctx)
	}

	router := server.SetupRouter(server.Dependencies{
		Auctions:  manager,
		Bidding:   biddingSvc,
		Hub:       hub,
		Publisher: publisher,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{
			"addr":    cfg.HTTPAddr,
			"store":   cfg.StoreDriver,
			"cache":   cfg.CacheDriver,
			"trigger": cfg.TriggerTransport,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		utils.Error("trigger bus shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openRepository returns the durable store selected by STORE_DRIVER
func openRepository(cfg config.AppConfig) (repository.AuctionDB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return repository.NewMemoryRepo(), nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewGormRepo(db), nil
}

// openCache returns the snapshot store selected by CACHE_DRIVER
func openCache(ctx context.Context, cfg config.AppConfig) (cache.Store, error) {
	if cfg.CacheDriver == config.CacheMemory {
		return cache.NewMemoryStore(), nil
	}

	store := cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	}))
	// the cache is advisory: an unreachable redis is logged, not fatal
	if err := store.Ping(ctx); err != nil {
		utils.Warn("redis not reachable, continuing with repository fallback", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
	}
	return store, nil
}

// openTriggerBus wires the one trigger source this deployment uses
func openTriggerBus(ctx context.Context, cfg config.AppConfig, dispatcher *scheduler.Dispatcher) (scheduler.Publisher, error) {
	handle := scheduler.DispatchHandler(dispatcher)
	if cfg.TriggerTransport == config.TriggerLocal {
		return scheduler.NewLocalBus(handle), nil
	}

	bus, err := scheduler.NewNATSBus(cfg.NATSURL, cfg.NATSQueue)
	if err != nil {
		return nil, err
	}
	if err := bus.Subscribe(ctx, handle); err != nil {
		_ = bus.Close()
		return nil, err
	}
	return bus, nil
}

// seedDemoAuctions adds sample auctions: one running, one about to start and
// one about to end
func seedDemoAuctions(ctx context.Context, repo repository.AuctionDB) error {
	now := time.Now().UTC()
	auctions := []models.Auction{
		{Title: "Vintage Lamp", StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour), StartingBid: 100, Status: models.StatusActive},
		{Title: "Oak Writing Desk", StartTime: now.Add(time.Minute), EndTime: now.Add(2 * time.Hour), StartingBid: 200, Status: models.StatusInactive},
		{Title: "Signed Vinyl", StartTime: now.Add(-time.Hour), EndTime: now.Add(2 * time.Minute), StartingBid: 150, Status: models.StatusActive},
	}

	for _, a := range auctions {
		a.AuctionID = utils.GenerateID()
		a.OwnerID = "demo-seller"
		a.CurrentHighestBid = a.StartingBid
		a.CreatedAt = now
		if err := repo.CreateAuction(ctx, a); err != nil {
			return err
		}
		utils.Info("seeded demo auction", map[string]any{"auction_id": a.AuctionID, "title": a.Title})
	}
	return nil
}
