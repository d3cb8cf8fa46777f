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

	server "titans-realm/server"
	"titans-realm/server/logging"
	"titans-realm/server/logging/sinks"
)

func main() {
	cfg := server.LoadConfig()

	router, err := buildRouter(cfg)
	if err != nil {
		log.Fatalf("logging setup: %v", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("store setup: %v", err)
	}

	world := server.NewWorld(cfg.Seed, router)
	if snap, ok, err := store.LoadWorld(); err != nil {
		log.Fatalf("load world: %v", err)
	} else if ok {
		world.Restore(snap)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go world.Run(ctx)

	hub := server.NewHub(cfg, world, store, server.NewLoreClient(cfg), router)
	mux := http.NewServeMux()
	hub.Routes(mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	// Session teardown runs exit saves; cancel stops the world loop.
	hub.Shutdown()
	cancel()
	if err := store.SaveWorld(world.Snapshot()); err != nil {
		log.Printf("save world: %v", err)
	}
	if err := router.Close(shutdownCtx); err != nil {
		log.Printf("close logging: %v", err)
	}
}

func buildRouter(cfg server.Config) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	if len(cfg.LogSinks) > 0 {
		logCfg.EnabledSinks = cfg.LogSinks
	}
	if cfg.LogJSONPath != "" {
		logCfg.JSON.FilePath = cfg.LogJSONPath
	}

	var named []logging.NamedSink
	if logCfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logCfg.Console)})
	}
	if logCfg.HasSink("json") && logCfg.JSON.FilePath != "" {
		jsonSink, err := sinks.NewJSONSink(logCfg.JSON)
		if err != nil {
			return nil, err
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: jsonSink})
	}
	return logging.NewRouter(nil, logCfg, named), nil
}

func buildStore(cfg server.Config) (server.Store, error) {
	if cfg.DBPath == "" {
		log.Printf("no RPG_DB_PATH set, using in-memory store")
		return server.NewMemoryStore(), nil
	}
	return server.OpenSQLStore(cfg.DBPath)
}
