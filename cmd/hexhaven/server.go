package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/hexhaven/hexhaven/internal/randutil"
	"github.com/hexhaven/hexhaven/internal/server"
	"github.com/hexhaven/hexhaven/internal/store"
)

// ServerCmd runs the WebSocket game server
type ServerCmd struct {
	Config      string `short:"c" default:"hexhaven.hcl" help:"Path to HCL configuration file"`
	Addr        string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel    string `short:"l" help:"Log level (overrides config)"`
	SnapshotDir string `help:"Directory for room snapshots (overrides config)"`
	Seed        *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Apply command line overrides
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.SnapshotDir != "" {
		cfg.Game.SnapshotDir = c.SnapshotDir
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	}

	snapshots, err := store.NewFileStore(cfg.Game.SnapshotDir)
	if err != nil {
		return fmt.Errorf("error opening snapshot store: %w", err)
	}

	logger.Info("Starting Hexhaven server",
		"addr", cfg.GetServerAddress(),
		"snapshots", cfg.Game.SnapshotDir)

	// Create WebSocket server and room service
	wsServer := server.NewServer(cfg.GetServerAddress(), logger)
	roomService := server.NewRoomService(wsServer, snapshots, randutil.New(seed), quartz.NewReal(), logger)
	roomService.SetDefaults(cfg.RoomDefaults())
	wsServer.SetRoomService(roomService)

	// Revive rooms persisted by a previous run
	if err := roomService.RestoreRooms(); err != nil {
		logger.Warn("Failed to restore rooms", "error", err)
	}

	// Run the listener and the shutdown watcher together
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := wsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		roomService.Shutdown()
		return wsServer.Stop()
	})
	return eg.Wait()
}
