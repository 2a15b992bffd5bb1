// Command sokoban plays and manages Time-Shift Sokoban levels.
//
// Commands:
//  1. "play" (default) opens the terminal frontend on a level or the level menu
//  2. "convert" compiles text level sources into binary map files
//  3. "validate" checks level files for playability
//  4. "analyze" prints heuristics about every level in the maps directory
//  5. "solve" searches for the shortest solution of a level
//
// Global flags select the maps directory and logging; each may also be set
// from the environment or a .env file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/inconshreveable/log15"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Time-Shift Sokoban"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log15.Warn("error loading .env file", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newCommand builds the command tree.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "sokoban",
		Usage:   "a box-pushing puzzle where every move can be taken back",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "maps",
				Usage:   "directory containing level files",
				Sources: cli.EnvVars("SOKOBAN_MAPS_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error, crit)",
				Sources: cli.EnvVars("SOKOBAN_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to this file instead of stderr",
				Sources: cli.EnvVars("SOKOBAN_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("SOKOBAN_DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd)
		},
		DefaultCommand: "play",
		Commands: []*cli.Command{
			playCommand(),
			convertCommand(),
			validateCommand(),
			analyzeCommand(),
			solveCommand(),
		},
	}
}

// setupLogging configures the root log15 logger from the global flags.
func setupLogging(cmd *cli.Command) error {
	lvl, err := log15.LvlFromString(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	if cmd.Bool("debug") {
		lvl = log15.LvlDebug
	}

	handler := log15.StreamHandler(errWriter(cmd), log15.TerminalFormat())
	if path := cmd.String("log-file"); path != "" {
		if handler, err = log15.FileHandler(path, log15.LogfmtFormat()); err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, handler))
	return nil
}

// logger returns a child of the root logger for one command.
func logger(cmd *cli.Command) log15.Logger {
	return log15.Root().New("cmd", cmd.Name)
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
