package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"rentkenya/internal/config"
)

// App — обёртка над HTTP-сервером с управляемым жизненным циклом.
type App struct {
	log    *slog.Logger
	server *http.Server
	port   int
}

func New(log *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *App {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		log:    log,
		server: server,
		port:   cfg.Port,
	}
}

// MustRun запускает сервер и паникует при ошибке запуска.
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "httpapp.App.Run"

	a.log.Info("http server started", slog.Int("port", a.port))

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop останавливает сервер, дожидаясь активных запросов.
func (a *App) Stop(ctx context.Context) {
	const op = "httpapp.App.Stop"

	a.log.With(slog.String("op", op)).Info("stopping http server", slog.Int("port", a.port))

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("http server shutdown failed", slog.String("op", op))
	}
}
