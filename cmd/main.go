package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bms_proxy/docs"
	"bms_proxy/internal/bms"
	"bms_proxy/internal/config"
	"bms_proxy/internal/handlers"
	"bms_proxy/internal/logger"
	"bms_proxy/internal/metrics"
	"bms_proxy/internal/repository"
	"bms_proxy/internal/repository/db"
	"bms_proxy/internal/server"
	"bms_proxy/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("VFD_CONFIG"), ".env")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.GetForEnv(cfg.LogLevel, cfg.Environment)
	metrics.Init()
	docs.SwaggerInfo.Version = cfg.Version

	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	profile, err := bms.LoadDeviceProfile(cfg.BMS.DeviceProfile)
	if err != nil {
		log.Fatalw("failed to load device profile", "err", err)
	}

	// vendor plumbing: one client and one shared session for the process
	client := bms.NewClient(bms.Config{
		BaseURL:   cfg.BMS.BaseURL,
		Timeout:   cfg.BMS.Timeout,
		UserAgent: cfg.BMS.UserAgent,
	}, log)
	store := bms.NewMemoryStore()
	sessions := bms.NewSessionManager(client, store, cfg.BMS.DWRHandshake, log)
	forwarder := bms.NewForwarder(client, store, profile, log)

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.Deps{
		Sessions:  sessions,
		Forwarder: forwarder,
		AuthKey:   cfg.Auth.SigningKey,
		AuthTTL:   cfg.Auth.TokenTTL,
		Log:       log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AuthEnabled:     cfg.Auth.Enabled,
		DefaultUsername: cfg.BMS.Username,
		DefaultPassword: cfg.BMS.Password,
		Environment:     cfg.Environment,
		Version:         cfg.Version,
		WSInterval:      cfg.WS.Interval,
		AllowedOrigins:  cfg.WS.AllowedOrigins,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Poller.Run(ctx, cfg.Poll.Interval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg, apiHandler, log)

	log.Infow("bms_proxy_started",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"bms_base_url", cfg.BMS.BaseURL,
		"device", profile.SubSystemName,
		"poll_interval", cfg.Poll.Interval,
		"auth_enabled", cfg.Auth.Enabled,
	)

	waitForShutdown(cancel, srv, log)
}

func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "bms_proxy.db")
		path = "bms_proxy.db"
	}
	return db.InitDB(path)
}

// runHTTPServer serves in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg *config.Config, handler *handlers.Handler, log *logger.Logger) {
	port := cfg.Port
	if port == "" {
		port = "3001"
	}
	opts := server.Options{WriteTimeout: server.WriteTimeoutFor(cfg.BMS.Timeout)}
	go func() {
		if err := srv.Run(port, handler.InitRoutes(), opts); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then stops the poller and
// drains in-flight requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	_ = log.Sync()
}
