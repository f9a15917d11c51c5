// Package server initializes and runs the application: it opens the
// database, applies migrations, wires the services and starts the HTTP
// server, shutting everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkarpov/tasktrack/internal/logging"
	"github.com/dkarpov/tasktrack/internal/server/api"
	"github.com/dkarpov/tasktrack/internal/server/config"
	"github.com/dkarpov/tasktrack/internal/server/repositories/repomanager"
	"github.com/dkarpov/tasktrack/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	userService       *services.UserService
	taskService       *services.TaskService
	attachmentService *services.AttachmentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is not configured")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		userService:       services.NewUserService(db, m, cfg),
		taskService:       services.NewTaskService(db, m),
		attachmentService: services.NewAttachmentService(db, m, cfg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := api.NewHTTPServer(app.config.EndpointAddr, app.logger,
		app.userService, app.taskService, app.attachmentService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
