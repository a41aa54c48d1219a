package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/giangnd99/hotel-management-sub003/cmd/app/commands"
	"github.com/giangnd99/hotel-management-sub003/internal/app"
	"github.com/giangnd99/hotel-management-sub003/internal/config"
)

func getSagaCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "reap-stale-sagas",
			Usage: "Compensate sagas whose downstream response never arrived",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				reaper, err := container.ReaperUseCase()
				if err != nil {
					return err
				}

				return commands.RunReapStaleSagas(
					ctx,
					reaper,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "saga-status",
			Usage: "Show the outbox records of a saga",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Saga ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				statusUseCase, err := container.StatusUseCase()
				if err != nil {
					return err
				}

				return commands.RunSagaStatus(
					ctx,
					statusUseCase,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}
