package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yourname/static_lite/internal/logging"
	"github.com/yourname/static_lite/pkg/staticclient"
	"github.com/yourname/static_lite/pkg/staticproto"
)

// etagSuffix: расширение файла, в котором хранится ETag недокачанного файла.
const etagSuffix = ".etag"

// main скачивает файл со static-сервера с докачкой после обрыва.
func main() {
	app := &cli.App{
		Name:      "fetch",
		Usage:     "download a file from a static server, resuming interrupted downloads",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "server base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"STATIC_SERVER"},
			},
			&cli.StringFlag{
				Name:  "mount",
				Usage: "mount prefix of the file tree on the server",
				Value: staticproto.DefaultMountPrefix,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "destination file, defaults to the base name of <path>",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "draw a progress bar on stderr",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "skip-health",
				Usage: "do not probe /health before downloading",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall download timeout, 0 disables it",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Action: fetch,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fetch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("exactly one <path> is required", 2)
	}
	remote := c.Args().First()

	out := c.String("out")
	if out == "" {
		out = path.Base(remote)
	}

	logger, err := logging.New(os.Stderr, c.String("log-level"), "console")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := c.Duration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var opts []staticclient.Option
	if c.Bool("progress") {
		opts = append(opts, staticclient.WithProgress(os.Stderr))
	}
	client := staticclient.New(opts...)

	server := strings.TrimRight(c.String("server"), "/")
	if !c.Bool("skip-health") {
		h, err := client.Health(ctx, server)
		if err != nil {
			return fmt.Errorf("health %s: %w", server, err)
		}
		logger.Debug().Str("root", h.Root).Msg("server healthy")
	}

	etag, err := readETag(out)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := client.Download(ctx, server+"/"+strings.Trim(c.String("mount"), "/"), staticclient.DownloadRequest{
		Path: remote,
		Dest: out,
		ETag: etag,
	})
	if err != nil {
		if res.ETag != "" {
			if werr := writeETag(out, res.ETag); werr != nil {
				logger.Warn().Err(werr).Msg("cannot save validator, next run restarts from zero")
			}
		}
		return err
	}

	if err := os.Remove(out + etagSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("cannot remove validator file")
	}

	logDone(logger, out, res, time.Since(started))
	return nil
}

func logDone(logger zerolog.Logger, out string, res staticclient.DownloadResult, took time.Duration) {
	logger.Info().
		Str("file", out).
		Int64("size", res.Size).
		Int64("written", res.Written).
		Bool("resumed", res.Resumed).
		Dur("took", took).
		Msg("downloaded")
}

// readETag возвращает ETag, сохранённый прошлой попыткой, или "" если его нет.
func readETag(out string) (string, error) {
	f, err := os.Open(out + etagSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, 1<<10))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func writeETag(out, etag string) error {
	return os.WriteFile(out+etagSuffix, []byte(etag+"\n"), 0o644)
}
