// Package main is the entry point for the KidCapital game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/kidcapital/server/internal/config"
	"github.com/kidcapital/server/internal/domain/achievement"
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/infra/leaderboard"
	"github.com/kidcapital/server/internal/infra/storage"
	"github.com/kidcapital/server/internal/network"
	"github.com/kidcapital/server/internal/platform/logger"
	"github.com/kidcapital/server/internal/platform/metrics"
	"github.com/kidcapital/server/internal/scheduler"
)

func main() {
	log.Println("[KIDCAPITAL] Initializing game server...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[KIDCAPITAL] Ignoring unreadable .env: %v", err)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("[KIDCAPITAL] Config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[KIDCAPITAL] Invalid config: %v", err)
	}

	appLogger := logger.NewLogger()
	collector := metrics.Get()

	appLogger.Info("Initializing SQLite database " + cfg.Database.SQLitePath + "...")
	db, err := storage.InitSQLite(cfg.Database.SQLitePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()
	eventRepo := storage.NewSQLiteEventRepository(db)
	snapshotRepo := storage.NewSQLiteSnapshotRepository(db)
	profileRepo := storage.NewSQLiteProfileRepository(db)

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(storage.NewEventPersister(eventRepo, 5*time.Second).WithRecorder(collector))
	eventLog.OnPersistError(func(ev events.GameEvent, err error) {
		appLogger.Errorf("Failed to persist event %s (%s): %v", ev.ID, ev.Type, err)
	})
	defer eventLog.Close()

	cat := catalog.Default()
	if cfg.Game.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.Game.CatalogPath); err != nil {
			appLogger.Error("Failed to load catalog: " + err.Error())
			os.Exit(1)
		}
		appLogger.Info("Loaded catalog overrides from " + cfg.Game.CatalogPath)
	}

	timing, err := engine.TimingPreset(cfg.Game.Timing)
	if err != nil {
		appLogger.Error(err.Error())
		os.Exit(1)
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var pacer engine.Pacer = engine.SleepPacer{}
	if cfg.Game.Timing == "none" {
		pacer = engine.NoPacer{}
	}

	appLogger.Info("Bootstrapping Engine...")
	gameEngine := engine.NewEngine(cat, eventLog, engine.TurnOptions{
		Dice:   engine.NewRandDice(seed),
		Pacer:  pacer,
		Timing: timing,
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	localID := cfg.Game.LocalID
	if saved, err := snapshotRepo.Latest(ctx, localID); err == nil {
		gameEngine.Restore(saved.State, saved.Setup)
		appLogger.Info("Restored saved game " + saved.State.GameID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		appLogger.Error("Failed to load saved game: " + err.Error())
	}

	if profile, err := profileRepo.LoadProfile(ctx, localID); err == nil {
		gameEngine.Progress().Load(*profile)
	} else if !errors.Is(err, storage.ErrNotFound) {
		appLogger.Error("Failed to load profile: " + err.Error())
	}

	var publisher leaderboard.Publisher = leaderboard.Noop{}
	if cfg.Leaderboard.PostgresURL != "" {
		pg, err := leaderboard.NewPostgres(ctx, cfg.Leaderboard.PostgresURL)
		if err != nil {
			appLogger.Warn("Leaderboard disabled: " + err.Error())
		} else {
			publisher = pg
			appLogger.Info("Leaderboard connected")
		}
	}
	board := leaderboard.NewAsync(publisher, cfg.Leaderboard.Timeout, collector, appLogger)
	defer board.Close()

	gameEngine.Progress().OnChange(func(p achievement.Profile, unlocked []achievement.Achievement) {
		saveCtx, done := context.WithTimeout(ctx, 2*time.Second)
		defer done()
		if err := profileRepo.SaveProfile(saveCtx, localID, p); err != nil {
			appLogger.Errorf("Failed to save profile: %v", err)
		}
		if len(unlocked) > 0 {
			netWorth := 0
			for _, pl := range gameEngine.Snapshot().Players {
				if pl.IsHuman {
					netWorth = pl.NetWorth()
				}
			}
			board.Submit(leaderboard.EntryFor(localID, p, netWorth))
		}
	})

	gameEngine.Start(ctx)
	go gameEngine.Resume(ctx)

	appLogger.Info("Bootstrapping Scheduler...")
	sched := scheduler.New(ctx, gameEngine, snapshotRepo, profileRepo, board, localID, appLogger)
	if err := sched.RegisterAll(cfg.Schedule.BackupCron, cfg.Schedule.LeaderboardCron); err != nil {
		appLogger.Error("Failed to register jobs: " + err.Error())
		os.Exit(1)
	}
	sched.Start()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	control := network.NewController(gameEngine, profileRepo, localID, appLogger)
	hub := network.NewHub(control, collector, cfg.Network.ClientSendBuffer, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)
	gameEngine.Store().Subscribe(hub.PublishState)
	hub.PublishState(gameEngine.Snapshot())

	router := mux.NewRouter()
	router.Handle("/ws", network.ServeWS(hub, cfg.Server.AllowedOrigins, cfg.Network.MaxMessageSize))
	network.NewAPI(control, snapshotRepo, storage.NewReconstructor(eventRepo), appLogger).RegisterRoutes(router)
	router.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	router.Handle("/metrics/prom", collector.PrometheusHandler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("KidCapital server listening on " + cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed: " + err.Error())
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	appLogger.Info("Shutting down...")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown: " + err.Error())
	}
	sched.Stop()
	if err := sched.BackupNow(); err != nil {
		appLogger.Error("Final backup failed: " + err.Error())
	}
	cancel()
	appLogger.Info("Server stopped.")
}
