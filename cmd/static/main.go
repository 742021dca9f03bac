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

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yourname/static_lite/internal/app/statichttp"
	"github.com/yourname/static_lite/internal/config"
	"github.com/yourname/static_lite/internal/logging"
)

// main запускает раздачу статики и обеспечивает корректное завершение по сигналу.
func main() {
	app := &cli.App{
		Name:  "static",
		Usage: "serve files from a directory over HTTP with range and conditional requests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to YAML config",
				Value:   config.DefaultConfigPath,
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides listen_addr",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "directory to serve, overrides root",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadFile(c.String("config"), c.IsSet("config"))
	if err != nil {
		return err
	}
	if v := c.String("addr"); v != "" {
		cfg.ListenAddr = v
	}
	if v := c.String("root"); v != "" {
		cfg.Root = v
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	handler, srv, err := statichttp.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info().
			Str("addr", cfg.ListenAddr).
			Str("root", srv.Root()).
			Str("mount", cfg.MountPrefix).
			Msg("static listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT или падении листенера.
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info().Msg("static stopped")
		return nil
	})

	return eg.Wait()
}
