package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cwrk-planet/roomcast/config"
	"github.com/cwrk-planet/roomcast/internal/fanout"
	"github.com/cwrk-planet/roomcast/internal/memory"
	"github.com/cwrk-planet/roomcast/internal/service"
	grpcx "github.com/cwrk-planet/roomcast/internal/transport/grpc"
	httpx "github.com/cwrk-planet/roomcast/internal/transport/http"
	"github.com/cwrk-planet/roomcast/internal/transport/ws"
	"github.com/cwrk-planet/roomcast/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.ParseEnv(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	defer func() { _ = logger.Sync() }()
	slog.Info("starting roomcast",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	if err := run(cfg); err != nil {
		slog.Error("roomcast stopped with error", "err", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	slog.Info("stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- state ---
	identities := memory.NewIdentityStore(nil)
	rooms := memory.NewRoomStore(nil)
	hub := fanout.NewHub()
	coord := service.NewCoordinator(identities, rooms, hub, service.Options{APIKeys: cfg.Auth.APIKeys})

	for _, seed := range cfg.SeedRooms {
		room, err := coord.SeedRoom(seed.Name, seed.StartDate, seed.MaxMembers)
		if err != nil {
			return err
		}
		slog.Info("seed room", "room", room.ID, "name", room.Name, "max", room.MaxMembers)
	}

	// --- transports ---
	var ready atomic.Bool
	ready.Store(true)

	wsServer := ws.NewServer(coord, ws.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		PingEvery:      cfg.WS.PingEvery,
		SendBuffer:     cfg.WS.SendBuffer,
	})
	router := httpx.NewRouter(httpx.NewHandler(coord), httpx.RouterOptions{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		WS:             wsServer.HandleWS,
		Ready:          ready.Load,
	})
	httpSrv := httpx.NewServer(httpx.Config{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpSrv.Run(gctx)
	})

	if cfg.GRPC.Addr != "" {
		grpcServer := grpcx.NewGRPCServer()
		health := grpcx.Register(grpcServer, grpcx.NewServer(coord))

		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr)
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			slog.Info("grpc listening", "addr", cfg.GRPC.Addr)
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			health.Shutdown()
			grpcServer.GracefulStop()
			return nil
		})
	}

	// --- graceful shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		ready.Store(false)
		slog.Info("shutting down")
		return nil
	})

	return g.Wait()
}
