package main

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"goal-planner/app/config"
	"goal-planner/app/logging"
	"goal-planner/app/services"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Sources: cli.EnvVars("GOALPLANNER_CONFIG"),
			Usage:   "YAML config file",
		},
		&cli.StringFlag{
			Name:    "neo4j-uri",
			Sources: cli.EnvVars("GOALPLANNER_NEO4J_URI"),
			Usage:   "Neo4j connection URI",
		},
		&cli.StringFlag{
			Name:    "neo4j-username",
			Sources: cli.EnvVars("GOALPLANNER_NEO4J_USERNAME"),
			Usage:   "Neo4j username",
		},
		&cli.StringFlag{
			Name:    "neo4j-password",
			Sources: cli.EnvVars("GOALPLANNER_NEO4J_PASSWORD"),
			Usage:   "Neo4j password",
		},
		&cli.StringFlag{
			Name:    "neo4j-database",
			Sources: cli.EnvVars("GOALPLANNER_NEO4J_DATABASE"),
			Usage:   "Neo4j database name",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Sources: cli.EnvVars("GOALPLANNER_LOG_FORMAT"),
			Usage:   "Log format (json or text)",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Sources: cli.EnvVars("GOALPLANNER_LOG_LEVEL"),
			Usage:   "Log level (debug, info, warn, error)",
		},
	}
}

func setString(cmd *cli.Command, name string, dst *string) {
	if cmd.IsSet(name) {
		*dst = cmd.String(name)
	}
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	setString(cmd, "neo4j-uri", &cfg.Neo4j.URI)
	setString(cmd, "neo4j-username", &cfg.Neo4j.Username)
	setString(cmd, "neo4j-password", &cfg.Neo4j.Password)
	setString(cmd, "neo4j-database", &cfg.Neo4j.Database)
	setString(cmd, "log-format", &cfg.Log.Format)
	setString(cmd, "log-level", &cfg.Log.Level)

	setString(cmd, "addr", &cfg.Addr)
	setString(cmd, "openai-api-key", &cfg.OpenAI.APIKey)
	setString(cmd, "openai-base-url", &cfg.OpenAI.BaseURL)
	if cmd.IsSet("openai-model") {
		cfg.OpenAI.Models = cmd.StringSlice("openai-model")
	}
	setString(cmd, "tts-model", &cfg.OpenAI.TTSModel)
	setString(cmd, "voice", &cfg.OpenAI.Voice)
	setString(cmd, "anthropic-api-key", &cfg.Anthropic.APIKey)
	setString(cmd, "anthropic-model", &cfg.Anthropic.Model)
	setString(cmd, "audio-dir", &cfg.Audio.Dir)
	setString(cmd, "audio-bucket", &cfg.Audio.Bucket)
	setString(cmd, "audio-prefix", &cfg.Audio.Prefix)
	return cfg, nil
}

// withStore opens the Neo4j plan store, runs fn and closes the driver.
func withStore(ctx context.Context, cfg config.Config, fn func(ctx context.Context, store *services.Neo4jStore) error) error {
	logger := logging.New(cfg.Log.Format, cfg.Log.Level, os.Stderr)
	ctx = logging.With(ctx, logger)

	driver, err := config.InitNeo4j(ctx, cfg.Neo4j)
	if err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to close Neo4j driver", "error", err)
		}
	}()

	return fn(ctx, services.NewNeo4jStore(driver, cfg.Neo4j.Database))
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.Args().First()
	if v == "" {
		return "", goerr.New("missing argument", goerr.V("argument", name))
	}
	return v, nil
}
