package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"goal-planner/app/logging"
	"goal-planner/app/services"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the Neo4j constraints used by the plan store",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return withStore(ctx, cfg, func(ctx context.Context, store *services.Neo4jStore) error {
				if err := store.EnsureSchema(ctx); err != nil {
					return err
				}
				logging.From(ctx).Info("schema is up to date")
				return nil
			})
		},
	}
}
