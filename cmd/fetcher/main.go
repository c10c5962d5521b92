package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/samvad-hq/samvad-fetcher/internal/app"
	"github.com/samvad-hq/samvad-fetcher/internal/config"
	"github.com/samvad-hq/samvad-fetcher/internal/logger"
)

func main() {
	cli := &CLI{}
	cliCtx := kong.Parse(cli,
		kong.Name("fetcher"),
		kong.Description("Issue authenticated requests against the configured backend."),
		kong.UsageOnError(),
	)

	if err := run(cliCtx, cli); err != nil {
		fmt.Fprintf(os.Stderr, "fetcher: %v\n", err)
		os.Exit(1)
	}
}

func run(cliCtx *kong.Context, cli *CLI) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("fetcher starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, err := app.NewFetcher(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize fetcher", "error", err)
		return err
	}
	defer fetcher.Close()

	logger.InfoObj("fetcher ready", "run_meta", map[string]any{
		"command": cliCtx.Command(),
		"backend": cfg.BackendURL,
		"stage":   cfg.Stage,
	})

	if err := cliCtx.Run(&env{
		ctx:     ctx,
		fetcher: fetcher,
		out:     &printer{w: os.Stdout, format: cli.Format},
	}); err != nil {
		logger.WarnObj("command failed", "run_meta", map[string]any{
			"command": cliCtx.Command(),
			"error":   err.Error(),
		})
		return err
	}
	return nil
}
