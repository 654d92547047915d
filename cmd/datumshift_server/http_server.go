package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Listener interface {
	Address() string
	Listen() error
	Shutdown(ctx context.Context) error
}

type HttpServer struct {
	log       *slog.Logger
	listeners map[string]Listener
}

func NewHttp(app *App) *HttpServer {
	srv := &HttpServer{
		log:       slog.Default().With("logger", "http"),
		listeners: make(map[string]Listener),
	}

	if addr := app.cfg.APIAddr(); addr != "" {
		srv.listeners["api calls"] = NewAPI(app, addr)
	}

	if addr := app.cfg.LocalAddr(); addr != "" {
		srv.listeners["local api calls"] = NewLocalAPI(app, addr)
	}

	return srv
}

func (h *HttpServer) Start() error {
	if len(h.listeners) == 0 {
		return errors.New("no listeners configured")
	}

	for name, listener := range h.listeners {
		go func(name string, listener Listener) {
			h.log.Info(fmt.Sprintf("listening %s at %s", name, listener.Address()))

			if err := listener.Listen(); err != nil {
				h.log.Error("error", slog.String("listener", name), slog.Any("error", err))
			}
		}(name, listener)
	}

	return nil
}

func (h *HttpServer) Shutdown(ctx context.Context) error {
	var errs []error

	for name, listener := range h.listeners {
		if err := listener.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
