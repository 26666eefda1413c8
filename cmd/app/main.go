package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ehwaz/internal"
	"github.com/starford/ehwaz/internal/batch"
	"github.com/starford/ehwaz/internal/index"
	"github.com/starford/ehwaz/internal/linkservice"
	"github.com/starford/ehwaz/internal/mcpserver"
	"github.com/starford/ehwaz/internal/storage"
	pkgconfig "github.com/starford/ehwaz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// stderrLogger keeps stdout free for command output and MCP stdio.
func stderrLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

func openIndex(cfg *internal.Config) (storage.Provider, *index.DB, error) {
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}
	return store, db, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func linkAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	store, db, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("sync failed", slog.String("error", err.Error()))
	}

	opts := internal.BatchOptions(cfg, nil)
	if cmd.Bool("dry-run") {
		opts.DryRun = true
	}

	res, err := batch.New(store, db, logger).Run(ctx, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func deadlinksAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	store, db, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := batch.New(store, db, logger)
	svc := linkservice.NewService(store, db, runner, internal.BatchOptions(cfg, nil), logger)

	dead, err := svc.DeadLinks(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dead)
}

func mcpAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	store, db, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("sync failed", slog.String("error", err.Error()))
	}

	runner := batch.New(store, db, logger)
	svc := linkservice.NewService(store, db, runner, internal.BatchOptions(cfg, nil), logger)
	return mcpserver.New(svc).ServeStdio()
}

// configFlag returns a fresh flag instance per command; cli flags carry
// parse state and must not be shared.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "ehwaz",
		Usage:  "Auto-link engine for Markdown vaults: turns plain-text mentions into wiki links and finds dead links",
		Flags:  []cli.Flag{configFlag()},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE stream, and vault watcher",
				Flags:  []cli.Flag{configFlag()},
				Action: serveAction,
			},
			{
				Name:  "link",
				Usage: "Run one auto-link batch over the vault and print the result",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report what would change without writing any file",
					},
				},
				Action: linkAction,
			},
			{
				Name:   "deadlinks",
				Usage:  "Report links that resolve to nothing",
				Flags:  []cli.Flag{configFlag()},
				Action: deadlinksAction,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Flags:  []cli.Flag{configFlag()},
				Action: mcpAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
