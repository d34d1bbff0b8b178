package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"

	"github.com/starford/ley/internal"
	"github.com/starford/ley/internal/ley"
	pkgconfig "github.com/starford/ley/pkg/config"
)

// loadConfig reads the config file, if any, and applies command-line
// overrides on top of it.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if src := cmd.Args().Get(0); src != "" {
		cfg.Build.Source = src
	}
	if dst := cmd.Args().Get(1); dst != "" {
		cfg.Build.Destination = dst
	}
	if cmd.IsSet("style") {
		cfg.Build.Style = cmd.String("style")
	}
	if cmd.IsSet("index") {
		cfg.Build.Index = cmd.Bool("index")
	}
	if cmd.IsSet("keep-going") {
		cfg.Build.KeepGoing = cmd.Bool("keep-going")
	}
	if cmd.IsSet("workers") {
		cfg.Build.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := internal.Build(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	return nil
}

func watch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol.
	if err := internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr)); err != nil {
		return fmt.Errorf("mcp error: %w", err)
	}
	return nil
}

func dump(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("dump: a source file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}

	pp.ColoringEnabled = !cmd.Bool("no-color")
	if cmd.Bool("tokens") {
		_, err = pp.Fprintln(os.Stdout, ley.Tokenize(string(data)))
		return err
	}
	doc, err := ley.Parse(string(data), ley.WithStyle(cmd.String("style")))
	if err != nil {
		return fmt.Errorf("dump: %s: %w", path, err)
	}
	_, err = pp.Fprintln(os.Stdout, doc)
	return err
}

func main() {
	cmd := &cli.Command{
		Name:      "ley",
		Usage:     "Compile Ley markup into a static HTML site",
		ArgsUsage: "[source] [destination]",
		Action:    build,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"s"},
				Usage:   "Stylesheet for documents that declare none",
			},
			&cli.BoolFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Write index.html linking every page (directory mode)",
			},
			&cli.BoolFlag{
				Name:  "keep-going",
				Usage: "Skip documents that fail to parse instead of aborting",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of documents built concurrently",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Build a file or directory once",
				ArgsUsage: "[source] [destination]",
				Action:    build,
			},
			{
				Name:      "watch",
				Usage:     "Build, then rebuild on every source change",
				ArgsUsage: "[source] [destination]",
				Action:    watch,
			},
			{
				Name:      "serve",
				Usage:     "Run the preview server with live rebuilds and a REST API",
				ArgsUsage: "[source] [destination]",
				Action:    serve,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Usage:   "HTTP port",
						Sources: cli.EnvVars("APP_HTTP_PORT"),
					},
				},
			},
			{
				Name:      "mcp",
				Usage:     "Expose Ley tools over the Model Context Protocol on stdio",
				ArgsUsage: "[source] [destination]",
				Action:    serveMCP,
			},
			{
				Name:      "dump",
				Usage:     "Print the tokens or parsed tree of a source file",
				ArgsUsage: "<file>",
				Action:    dump,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "Print tokens instead of the tree",
					},
					&cli.BoolFlag{
						Name:  "no-color",
						Usage: "Disable colored output",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
