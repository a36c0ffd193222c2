package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"goal-planner/app/services"
	"goal-planner/app/views"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a stored plan with its progress",
		ArgsUsage: "PLAN_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Sources:  cli.EnvVars("GOALPLANNER_USER"),
				Usage:    "Owner of the plan",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			planID, err := requireArg(cmd, "PLAN_ID")
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return withStore(ctx, cfg, func(ctx context.Context, store *services.Neo4jStore) error {
				plans := services.NewPlanService(store, nil)
				rec, err := plans.Get(ctx, cmd.String("user"), planID)
				if err != nil {
					return err
				}
				progress, err := plans.Progress(ctx, cmd.String("user"), planID)
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, views.RenderPlan(rec, progress))
				return nil
			})
		},
	}
}
