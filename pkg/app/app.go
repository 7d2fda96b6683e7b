package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type App struct {
	name    string
	servers []Server
}

type Option func(a *App)

func NewApp(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithServer(servers ...Server) Option {
	return func(a *App) {
		a.servers = servers
	}
}

func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// Run starts every server and blocks until SIGINT/SIGTERM, then shuts them
// down with a bounded grace period.
func (a *App) Run(ctx context.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	for _, srv := range a.servers {
		go func(srv Server) {
			err := srv.Start(ctx)
			if err != nil {
				errCh <- err
			}
		}(srv)
	}

	select {
	case err := <-errCh:
		return err
	case <-signals:
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range a.servers {
		err := srv.Stop(stopCtx)
		if err != nil {
			return err
		}
	}
	return nil
}
