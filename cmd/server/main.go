package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/admin"
	"github.com/playmatatu/duels/internal/api"
	"github.com/playmatatu/duels/internal/api/handlers"
	"github.com/playmatatu/duels/internal/config"
	"github.com/playmatatu/duels/internal/database"
	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/game"
	"github.com/playmatatu/duels/internal/history"
	"github.com/playmatatu/duels/internal/logging"
	"github.com/playmatatu/duels/internal/migrations"
	"github.com/playmatatu/duels/internal/redis"
	"github.com/playmatatu/duels/internal/registry"
	"github.com/playmatatu/duels/internal/wallet"
	"github.com/playmatatu/duels/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &handlers.Deps{Config: cfg, Log: logger}
	var publishers events.Fanout

	// Postgres backs wallets, match history and admin accounts.
	var wallets game.Wallet = wallet.NewMemory()
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			logger.Info("running database migrations")
			if err := migrations.Run(cfg.DatabaseURL, logger.Named("migrations")); err != nil {
				return err
			}
		}
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		wallets = wallet.NewPostgres(db, logger.Named("wallet"))
		store := history.NewStore(db)
		publishers = append(publishers, store)
		d.History = store
		d.Admin = admin.NewStore(db, logger.Named("admin"))
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory wallets")
	}
	d.Wallet = wallets

	// Redis backs the game registry and the match event channel.
	var matchStream <-chan events.MatchCompleted
	d.Registry = registry.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		d.Registry = registry.NewRedisStore(rdb, logger.Named("registry"))
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.MatchEventsChannel, logger.Named("events")))
		matchStream = events.Subscribe(ctx, rdb, cfg.MatchEventsChannel, logger.Named("events"))
	} else {
		logger.Warn("REDIS_URL not set, using in-memory registry")
		local := events.NewLocal(64, logger.Named("events"))
		publishers = append(publishers, local)
		matchStream = local.Events()
	}

	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, logger.Named("nats"))
		if err != nil {
			return err
		}
		defer nc.Drain()
		publishers = append(publishers, events.NewNATSPublisher(nc, cfg.MatchEventsSubject))
	}

	// The hub needs the service and the service notifies through the hub.
	var hub *ws.Hub
	notifier := game.NotifierFunc(func(playerID string, n game.Notification) {
		hub.Notify(playerID, n)
	})

	manager := game.NewManager(wallets, d.Registry, logger.Named("sessions"),
		game.WithIdleTimeout(cfg.SessionIdleTimeout),
		game.WithMaxDuration(cfg.SessionMaxDuration),
		game.WithRetention(cfg.SessionRetention),
		game.WithSettlementTimeout(cfg.SettlementTimeout),
		game.WithTargetScore(cfg.ChooserTargetScore),
		game.WithEvents(publishers),
		game.WithNotifier(notifier),
	)
	challenges := game.NewChallenges(manager, logger.Named("challenges"),
		game.WithChallengeTimeout(cfg.ChallengeTimeout),
		game.WithChallengeNotifier(notifier),
	)
	d.Service = game.NewService(game.NewValidator(d.Registry, wallets, d.Registry), challenges, manager, logger.Named("service"))
	defer d.Service.Shutdown()

	hub = ws.NewHub(d.Service, logger.Named("ws"))
	d.Hub = hub
	go hub.Run(ctx)
	go hub.ForwardMatchEvents(ctx, matchStream)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, d)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting duels server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
