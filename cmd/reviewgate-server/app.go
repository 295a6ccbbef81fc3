package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/reviewgate/internal/infra/buildinfo"
	"github.com/yndnr/reviewgate/internal/infra/confloader"
	"github.com/yndnr/reviewgate/internal/server/config"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "reviewgate-server",
		Usage:   "session gateway for the review platform",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:  "config",
				Usage: "Configuration utilities",
				Subcommands: []*cli.Command{
					{
						Name:   "check",
						Usage:  "Load and validate the configuration, then print it with secrets masked",
						Action: checkConfig,
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					return writeJSON(c, buildinfo.Get())
				},
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"REVIEWGATE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "Path to a .env file (default: ./.env if present)",
			EnvVars: []string{"REVIEWGATE_ENV_FILE"},
		},
	}
}

// loadConfig loads and validates configuration from file, env file and
// environment. It also returns the sources that contributed.
func loadConfig(c *cli.Context) (*config.ServerConfig, []string, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if path := c.String("env-file"); path != "" {
		opts = append(opts, confloader.WithDotEnvFile(path))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, loader.Sources(), nil
}

func checkConfig(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	return writeJSON(c, config.Sanitize(cfg))
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
