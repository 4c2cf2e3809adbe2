package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nstehr/vimy/vimy-sim/agent"
	"github.com/nstehr/vimy/vimy-sim/config"
	"github.com/nstehr/vimy/vimy-sim/ipc"
	"github.com/nstehr/vimy/vimy-sim/sim"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Turn-Based Skirmish Simulation`

func main() {
	configPath := flag.String("config", "", "balance yaml (defaults built in)")
	socketPath := flag.String("socket", "/tmp/vimy-sim.sock", "unix socket for local clients")
	wsAddr := flag.String("ws", ":8087", "websocket listen address, empty to disable")
	strategy := flag.String("strategy", "", "AI strategy override: balanced, rusher, defender, economic")
	difficulty := flag.String("difficulty", "", "AI difficulty override: easy, normal, hard")
	tickRate := flag.Float64("tick-rate", 0, "simulation steps per second, 0 keeps the config value")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting vimy-sim")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *strategy != "" {
		cfg.AI.Strategy = *strategy
	}
	if *difficulty != "" {
		cfg.AI.Difficulty = *difficulty
	}
	if *tickRate > 0 {
		cfg.Host.TickRate = *tickRate
	}

	game, err := sim.New(cfg)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	hub := agent.NewHub()
	host := agent.New(game, hub, cfg.Host.SnapshotEvery)

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(*socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", *socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
		os.Exit(1)
	}
	defer os.Remove(*socketPath)

	slog.Info("listening on domain socket", "path", *socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return host.Run(ctx, cfg.Host.TickRate)
	})

	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})
	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go host.Serve(conn)
		}
	})

	if *wsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", ipc.WebSocketHandler(host.Serve))
		srv := &http.Server{Addr: *wsAddr, Handler: mux}

		g.Go(func() error {
			slog.Info("listening for websocket clients", "addr", *wsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("websocket server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("host exited", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}
