package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/timeshift-sokoban/game/config"
	"github.com/wricardo/timeshift-sokoban/game/engine"
	"github.com/wricardo/timeshift-sokoban/game/grid"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "compile a text level source into a binary map file",
		ArgsUsage: "<src.txt> [dst.bin]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "convert every source in the maps directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := outWriter(cmd)
			log := logger(cmd)

			if cmd.Bool("all") {
				levels, err := openCatalog(cmd, log)
				if err != nil {
					return err
				}
				converted, err := levels.ConvertSources()
				for _, name := range converted {
					fmt.Fprintf(out, "converted %s\n", name)
				}
				return err
			}

			src := cmd.Args().First()
			if src == "" {
				return fmt.Errorf("convert: missing source file")
			}
			dst := cmd.Args().Get(1)
			if dst == "" {
				dst = strings.TrimSuffix(src, filepath.Ext(src)) + config.BinaryExt
			}

			data, err := grid.ConvertText(src, dst)
			if err != nil {
				return err
			}
			log.Info("level converted", "src", src, "dst", dst)
			fmt.Fprintf(out, "converted %s -> %s (%dx%d)\n", src, dst, data.Width, data.Height)
			return nil
		},
	}
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// loadLevelFile decodes a level by extension.
func loadLevelFile(path string) (*grid.MapData, error) {
	switch filepath.Ext(path) {
	case config.BinaryExt:
		return grid.Load(path)
	case config.SourceExt:
		return grid.LoadText(path)
	}
	return nil, fmt.Errorf("unsupported level file extension %q", filepath.Ext(path))
}

// validateLevel loads a level file and checks it for playability, including
// boxes that start where they can never be moved to a goal.
func validateLevel(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := loadLevelFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := engine.ValidateMap(data); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	g := grid.New(data)
	dead := make(map[grid.Position]bool)
	for _, p := range engine.DeadCorners(g) {
		dead[p] = true
	}
	for _, b := range data.BoxSpawns {
		if dead[b] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("box at %s starts in a dead corner", b))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", data.Width, data.Height))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Boxes: %d", len(data.BoxSpawns)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Goals: %d", len(data.Goals)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Open cells: %d", engine.CountOpenCells(g)))
	}
	return result
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check level files for playability",
		ArgsUsage: "[files...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				dir := cmd.String("maps-dir")
				for _, ext := range []string{config.SourceExt, config.BinaryExt} {
					matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
					if err != nil {
						return fmt.Errorf("failed to list level files: %w", err)
					}
					files = append(files, matches...)
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no level files found")
			}

			out := outWriter(cmd)
			allValid := true
			for _, file := range files {
				result := validateLevel(file)
				printValidation(out, result)
				if !result.Valid {
					allValid = false
				}
			}

			fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
			if !allValid {
				fmt.Fprintln(out, "❌ Some levels have errors")
				return fmt.Errorf("validation failed")
			}
			fmt.Fprintln(out, "✅ All levels are valid!")
			return nil
		},
	}
}

func printValidation(out io.Writer, result ValidationResult) {
	fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
	if result.Valid {
		fmt.Fprintln(out, "✅ VALID")
		for _, info := range result.Errors {
			fmt.Fprintln(out, "  "+info)
		}
		return
	}
	fmt.Fprintln(out, "❌ INVALID")
	for _, err := range result.Errors {
		fmt.Fprintln(out, "  ❌ "+err)
	}
}
