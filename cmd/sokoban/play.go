package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/inconshreveable/log15"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/timeshift-sokoban/frontend/terminal"
	"github.com/wricardo/timeshift-sokoban/game/config"
	"github.com/wricardo/timeshift-sokoban/game/service"
	"github.com/wricardo/timeshift-sokoban/game/session"
)

const (
	sessionCleanupInterval = 5 * time.Minute
	sessionMaxAge          = time.Hour
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play a level in the terminal",
		ArgsUsage: "[level]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// The screen owns the terminal; logs go to the log file or nowhere.
			if cmd.String("log-file") == "" {
				log15.Root().SetHandler(log15.DiscardHandler())
			}
			log := logger(cmd)

			svc, err := initializeServices(ctx, cmd.String("maps-dir"), log)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize screen: %w", err)
			}
			defer screen.Fini()

			app := terminal.New(screen, svc, log)
			if err := app.Start(ctx, cmd.Args().First()); err != nil {
				return err
			}
			if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// initializeServices wires the level catalog and session manager into a
// GameService and starts the session cleanup loop for the lifetime of ctx.
func initializeServices(ctx context.Context, mapsDir string, log log15.Logger) (service.GameService, error) {
	levels, err := config.NewManager(mapsDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open level catalog: %w", err)
	}

	sessions := session.NewManager()
	go sessions.RunCleanup(ctx, sessionCleanupInterval, sessionMaxAge, log)

	return service.NewGameService(sessions, levels, log), nil
}

func openCatalog(cmd *cli.Command, log log15.Logger) (*config.Manager, error) {
	levels, err := config.NewManager(cmd.String("maps-dir"), log)
	if err != nil {
		return nil, fmt.Errorf("failed to open level catalog: %w", err)
	}
	return levels, nil
}
