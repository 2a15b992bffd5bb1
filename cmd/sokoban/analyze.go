package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
	"github.com/wricardo/timeshift-sokoban/game/solver"
)

func maxStatesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "max-states",
		Value: strconv.Itoa(solver.DefaultMaxStates),
		Usage: "maximum number of distinct states the solver may visit",
	}
}

func maxStates(cmd *cli.Command) (int, error) {
	n, err := strconv.Atoi(cmd.String("max-states"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid --max-states %q", cmd.String("max-states"))
	}
	return n, nil
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print heuristics for levels in the maps directory",
		ArgsUsage: "[levels...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "solve",
				Usage: "also run the solver on each level",
			},
			maxStatesFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			levels, err := openCatalog(cmd, logger(cmd))
			if err != nil {
				return err
			}
			limit, err := maxStates(cmd)
			if err != nil {
				return err
			}

			names := cmd.Args().Slice()
			if len(names) == 0 {
				infos, err := levels.ListLevels()
				if err != nil {
					return err
				}
				for _, info := range infos {
					names = append(names, info.Name)
				}
			}

			out := outWriter(cmd)
			for _, name := range names {
				fmt.Fprintf(out, "\n=== Analyzing %s ===\n", name)
				data, err := levels.LoadLevel(name)
				if err != nil {
					fmt.Fprintf(out, "Error loading level: %v\n", err)
					continue
				}
				analyzeLevel(ctx, out, data, cmd.Bool("solve"), limit)
			}
			return nil
		},
	}
}

// analyzeLevel prints size, counts and push bounds for one level and warns
// about cells that trap boxes.
func analyzeLevel(ctx context.Context, out io.Writer, data *grid.MapData, solve bool, limit int) {
	g := grid.New(data)
	dead := engine.DeadCorners(g)

	fmt.Fprintf(out, "Grid Size: %d x %d\n", data.Width, data.Height)
	fmt.Fprintf(out, "Player: %s\n", data.PlayerSpawn)
	fmt.Fprintf(out, "Boxes: %d\n", len(data.BoxSpawns))
	fmt.Fprintf(out, "Goals: %d\n", len(data.Goals))
	fmt.Fprintf(out, "Open Cells: %d\n", engine.CountOpenCells(g))
	fmt.Fprintf(out, "Push Lower Bound: %d\n", engine.PushLowerBound(data.BoxSpawns, data.Goals))

	if extra := len(data.BoxSpawns) - len(data.Goals); extra > 0 {
		fmt.Fprintf(out, "⚠️  %d more boxes than goals\n", extra)
	}

	if len(dead) > 0 {
		fmt.Fprintf(out, "⚠️  %d dead corners: a box pushed there is stuck\n", len(dead))
		for i, p := range dead {
			if i < 5 {
				fmt.Fprintf(out, "   Dead corner: %s\n", p)
			}
		}
		if len(dead) > 5 {
			fmt.Fprintf(out, "   ... and %d more\n", len(dead)-5)
		}
	} else {
		fmt.Fprintf(out, "✅ No dead corners\n")
	}

	if !solve {
		return
	}
	res, err := solver.Solve(ctx, data, solver.Options{MaxStates: limit})
	switch {
	case err == nil:
		fmt.Fprintf(out, "✅ Solvable in %d moves (%d pushes, %d states explored)\n", len(res.Moves), res.Pushes, res.Explored)
	case errors.Is(err, solver.ErrNoSolution):
		fmt.Fprintf(out, "⚠️  CRITICAL: level has no solution\n")
	case errors.Is(err, solver.ErrSearchLimit):
		fmt.Fprintf(out, "⚠️  Search limit of %d states reached\n", limit)
	default:
		fmt.Fprintf(out, "Error solving level: %v\n", err)
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "find the shortest solution for a level",
		ArgsUsage: "<level>",
		Flags: []cli.Flag{
			maxStatesFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("solve: missing level name")
			}
			log := logger(cmd)
			levels, err := openCatalog(cmd, log)
			if err != nil {
				return err
			}
			limit, err := maxStates(cmd)
			if err != nil {
				return err
			}

			data, err := levels.LoadLevel(name)
			if err != nil {
				return err
			}

			log.Debug("solving", "level", name, "max_states", limit)
			res, err := solver.Solve(ctx, data, solver.Options{MaxStates: limit})
			if err != nil {
				return fmt.Errorf("failed to solve %s: %w", name, err)
			}
			ok, err := solver.Verify(name, data, res.Moves)
			if err != nil {
				return fmt.Errorf("solution for %s does not replay: %w", name, err)
			}
			if !ok {
				return fmt.Errorf("solution for %s does not complete the level", name)
			}
			log.Info("level solved", "level", name, "moves", len(res.Moves), "explored", res.Explored)

			out := outWriter(cmd)
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "%s: %d moves, %d pushes, %d states explored\n", name, len(res.Moves), res.Pushes, res.Explored)
			fmt.Fprintln(out, res.Solution)
			return nil
		},
	}
}
