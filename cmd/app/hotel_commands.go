package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/giangnd99/hotel-management-sub003/cmd/app/commands"
	"github.com/giangnd99/hotel-management-sub003/internal/app"
	"github.com/giangnd99/hotel-management-sub003/internal/config"
)

func getHotelCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-room",
			Usage: "Register a new vacant room",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "number",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Room number (e.g., 101)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				roomUseCase, err := container.RoomUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateRoom(
					ctx,
					roomUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("number"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "show-room",
			Usage: "Show a room and the cost items recorded against it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Room ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				roomUseCase, err := container.RoomUseCase()
				if err != nil {
					return err
				}

				return commands.RunShowRoom(
					ctx,
					roomUseCase,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-booking",
			Usage: "Create a pending booking for one or more rooms",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "customer-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Customer ID (UUID)",
				},
				&cli.StringSliceFlag{
					Name:     "room-id",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Room ID (UUID), repeat for each room",
				},
				&cli.StringFlag{
					Name:     "check-in",
					Required: true,
					Usage:    "Check-in date in YYYY-MM-DD format",
				},
				&cli.StringFlag{
					Name:     "check-out",
					Required: true,
					Usage:    "Check-out date in YYYY-MM-DD format",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				bookingUseCase, err := container.BookingUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateBooking(
					ctx,
					bookingUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("customer-id"),
					cmd.StringSlice("room-id"),
					cmd.String("check-in"),
					cmd.String("check-out"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "show-booking",
			Usage: "Show the current state of a booking",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Booking ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				bookingUseCase, err := container.BookingUseCase()
				if err != nil {
					return err
				}

				return commands.RunShowBooking(
					ctx,
					bookingUseCase,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "deposit-booking",
			Usage: "Record a deposit payment and start the room reservation saga",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Booking ID (UUID)",
				},
				&cli.Int64Flag{
					Name:     "amount",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Deposit amount in minor currency units",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				paymentUseCase, err := container.PaymentUseCase()
				if err != nil {
					return err
				}

				bookingUseCase, err := container.BookingUseCase()
				if err != nil {
					return err
				}

				return commands.RunDepositBooking(
					ctx,
					paymentUseCase,
					bookingUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.Int64("amount"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-in-booking",
			Usage: "Start the room check-in saga for a confirmed booking",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Booking ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				bookingUseCase, err := container.BookingUseCase()
				if err != nil {
					return err
				}

				return commands.RunCheckInBooking(
					ctx,
					bookingUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "cancel-booking",
			Usage: "Start the cancellation saga for a booking",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Booking ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "reason",
					Aliases: []string{"r"},
					Usage:   "Cancellation reason",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				bookingUseCase, err := container.BookingUseCase()
				if err != nil {
					return err
				}

				return commands.RunCancelBooking(
					ctx,
					bookingUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("reason"),
					cmd.String("format"),
				)
			},
		},
	}
}
