// @title           Task Manager API
// @version         1.0
// @description     Personal to-do lists: each user creates, toggles, edits and deletes their own tasks.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	gorillahandlers "github.com/gorilla/handlers"

	"taskmanager/auth"
	"taskmanager/config"
	"taskmanager/db"
	"taskmanager/handlers"
	"taskmanager/logging"
	"taskmanager/store"
	"taskmanager/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	repo, closeDB, err := openRepository(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("unable to open database", "driver", cfg.DBDriver, "err", err)
	}

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	authService := auth.NewService(repo, auth.NewPasswordHasher(cfg.BcryptCost), tokens, logger)
	taskStore := store.NewTaskStore(repo, store.WithLogger(logger))
	mailer := utils.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Password)

	r := handlers.NewRouter(handlers.RouterConfig{
		Tasks:    taskStore,
		Auth:     authService,
		Mailer:   mailer,
		LoginURL: cfg.LoginURL,
		Logger:   logger,
	})

	var handler http.Handler = r
	handler = gorillahandlers.CombinedLoggingHandler(logging.Std(logger, log.InfoLevel).Writer(), handler)
	handler = gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(logging.Std(logger, log.ErrorLevel)),
		gorillahandlers.PrintRecoveryStack(true),
	)(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "err", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("graceful shutdown initiated")
				err := srv.Shutdown(ctx)
				closeDB()
				return err
			},
		},
	)

	exitCode := <-wait
	logger.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}

// openRepository connects to the configured backend and returns it with a close func.
func openRepository(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Repository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLitePath, cfg.LogLevel == "debug")
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using SQLite database", "path", cfg.SQLitePath)
		return store.NewGormRepository(gdb), func() { sqlDB.Close() }, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("connected to PostgreSQL")
		return store.NewPostgres(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.DBDriver)
	}
}
