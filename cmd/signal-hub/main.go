package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cwrk-planet/signal-hub/config"
	"github.com/cwrk-planet/signal-hub/internal/archive"
	"github.com/cwrk-planet/signal-hub/internal/hub"
	"github.com/cwrk-planet/signal-hub/internal/logging"
	"github.com/cwrk-planet/signal-hub/internal/transport/httpapi"
	"github.com/cwrk-planet/signal-hub/internal/transport/ws"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Init(logging.Config{
		Env:       logging.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logging.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting signal-hub", "env", cfg.Logging.Env, "version", cfg.Logging.Version)

	var store archive.Store = archive.Noop{}
	if cfg.Archive.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := archive.NewPostgres(ctx, cfg.Archive.DSN)
		cancel()
		if err != nil {
			log.Fatalf("archive store: %v", err)
		}
		store = pg
		defer store.Close()
	}

	// The Adapter needs a RoomMembership at construction, but the only
	// correct one is the Hub itself (it owns the Room Registry) and the
	// Hub's constructor needs an emitter. Build the Adapter with no
	// membership source yet and wire the Hub in once it exists.
	adapter := ws.NewAdapter(nil)

	h := hub.New(adapter, store, cfg, slog.Default())
	adapter.SetRoomMembership(h)
	wsServer := ws.NewServer(adapter, h, cfg.CORS.AllowedOrigins)

	router := httpapi.NewRouter(wsServer.HandleWS, func() httpapi.Stats {
		participants, roomCount := h.Stats()
		return httpapi.Stats{
			Participants: participants,
			Rooms:        roomCount,
			Connections:  adapter.ConnectionCount(),
		}
	}, cfg.CORS.AllowedOrigins)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	supervisorCtx, stopSupervisor := context.WithCancel(context.Background())
	go h.RunSupervisor(supervisorCtx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan struct{})
	go func() {
		hub.WaitForSignal()
		close(sigCh)
	}()

	select {
	case <-sigCh:
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	// Hard deadline (spec §4.9 step 5): if the soft sequence below hasn't
	// finished in 15s, exit non-zero rather than hang forever.
	hardDeadline := time.AfterFunc(15*time.Second, func() {
		slog.Error("shutdown hard deadline exceeded, forcing exit")
		os.Exit(1)
	})

	h.Shutdown()
	stopSupervisor()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctxShutdown)

	hardDeadline.Stop()
	slog.Info("stopped")
}
