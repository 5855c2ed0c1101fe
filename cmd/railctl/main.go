// Command railctl is an offline companion to the server. It lays out rail
// networks without starting a session, prints generation statistics over
// many seeds and validates configuration directories.
//
//	railctl generate -seed 42 -config configs/classic.json
//	railctl analyze -seeds 500 -width 20 -height 14 -lines 6
//	railctl validate configs
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/trolly/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// layoutFlags are shared by the commands that lay out networks.
func layoutFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.StringFlag{Name: "config", Usage: "config file (JSON or YAML); built-in classic when empty"},
		&cli.IntFlag{Name: "width", Usage: "override grid width"},
		&cli.IntFlag{Name: "height", Usage: "override grid height"},
		&cli.IntFlag{Name: "lines", Usage: "override number of rail lines"},
	)
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "railctl",
		Usage:  "generate, analyze and validate rail networks",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "lay out one network and print it",
				Flags: layoutFlags(
					&cli.Int64Flag{Name: "seed", Usage: "network seed (random when 0)"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := layoutConfig(cmd)
					if err != nil {
						return err
					}
					return generate(out, cfg, cmd.Int64("seed"))
				},
			},
			{
				Name:  "analyze",
				Usage: "generate many networks and summarize them",
				Flags: layoutFlags(
					&cli.IntFlag{Name: "seeds", Value: 100, Usage: "number of seeds to try"},
					&cli.Int64Flag{Name: "start", Value: 1, Usage: "first seed"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := layoutConfig(cmd)
					if err != nil {
						return err
					}
					analyze(out, cfg, cmd.Int64("start"), cmd.Int("seeds")).Print(out)
					return nil
				},
			},
			{
				Name:      "validate",
				Usage:     "validate every config file in a directory",
				ArgsUsage: "[dir]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := cmd.Args().First()
					if dir == "" {
						dir = "configs"
					}
					results, err := validateDir(dir)
					if err != nil {
						return err
					}
					if !printResults(out, results) {
						return errors.New("some configurations have errors")
					}
					return nil
				},
			},
		},
	}
}

// layoutConfig loads the -config file, or the default, and applies the
// size overrides.
func layoutConfig(cmd *cli.Command) (*engine.GameConfig, error) {
	cfg := engine.DefaultGameConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := engine.LoadGameConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if w := cmd.Int("width"); w > 0 {
		cfg.Width = w
	}
	if h := cmd.Int("height"); h > 0 {
		cfg.Height = h
	}
	if n := cmd.Int("lines"); n > 0 {
		cfg.Lines = n
	}
	return cfg, engine.ValidateGameConfig(cfg)
}

func generate(out io.Writer, cfg *engine.GameConfig, seed int64) error {
	eng, err := engine.NewEngine(cfg, seed)
	if err != nil {
		return err
	}
	state := eng.GetState()

	fmt.Fprintf(out, "Config: %s  Grid: %dx%d  Seed: %d\n", cfg.Name, cfg.Width, cfg.Height, eng.GetSeed())
	for i, line := range state.Lines {
		start, dir := line.Start()
		fmt.Fprintf(out, "Line %d: %d cells, %d segments, enters at %s heading %s\n",
			i+1, line.Length(), len(line.Segments), start, dir)
	}
	fmt.Fprintf(out, "Track cells: %d  Junctions: %d  Switches: %d\n\n",
		state.Grid.TrackCells(), engine.CountJunctions(state.Grid), len(state.Switches))
	fmt.Fprint(out, state.Board())
	return nil
}

// Analysis aggregates generation statistics over a run of seeds.
type Analysis struct {
	Config   string
	Seeds    int
	Failures []int64

	LineLengths []int
	TrackCells  []int
	Junctions   []int
	Switches    []int
}

func analyze(out io.Writer, cfg *engine.GameConfig, start int64, seeds int) *Analysis {
	a := &Analysis{Config: cfg.Name, Seeds: seeds}

	// NPCs do not affect the layout
	layout := *cfg
	layout.NPCs = 0

	for i := 0; i < seeds; i++ {
		seed := start + int64(i)
		if seed == 0 {
			seed = -1
		}
		eng, err := engine.NewEngine(&layout, seed)
		if err != nil {
			if !errors.Is(err, engine.ErrGenerationFailed) {
				fmt.Fprintf(out, "seed %d: %v\n", seed, err)
			}
			a.Failures = append(a.Failures, seed)
			continue
		}
		state := eng.GetState()
		for _, line := range state.Lines {
			a.LineLengths = append(a.LineLengths, line.Length())
		}
		a.TrackCells = append(a.TrackCells, state.Grid.TrackCells())
		a.Junctions = append(a.Junctions, engine.CountJunctions(state.Grid))
		a.Switches = append(a.Switches, len(state.Switches))
	}
	return a
}

// Print writes a human-readable summary.
func (a *Analysis) Print(out io.Writer) {
	fmt.Fprintf(out, "=== %s: %d seeds ===\n", a.Config, a.Seeds)
	if n := len(a.Failures); n > 0 {
		fmt.Fprintf(out, "⚠️  %d/%d seeds failed to lay out a network\n", n, a.Seeds)
	} else {
		fmt.Fprintln(out, "✅ Every seed produced a network")
	}
	row := func(name string, values []int) {
		lo, hi, mean := summarize(values)
		fmt.Fprintf(out, "%-14s min %4d  max %4d  mean %7.1f\n", name, lo, hi, mean)
	}
	row("Line length", a.LineLengths)
	row("Track cells", a.TrackCells)
	row("Junctions", a.Junctions)
	row("Switches", a.Switches)
}

func summarize(values []int) (lo, hi int, mean float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	lo, hi = values[0], values[0]
	sum := 0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}
	return lo, hi, float64(sum) / float64(len(values))
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Info holds the summary lines; otherwise Errors holds
// what went wrong.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateConfig loads a config file, checks its fields and lays out a
// network with a fixed seed to prove the grid can hold the requested lines.
func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	cfg, err := engine.LoadGameConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.NewEngine(cfg, 1)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot lay out network: %v", err))
		return result
	}
	state := eng.GetState()

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Grid: %dx%d", cfg.Width, cfg.Height),
		fmt.Sprintf("✓ Lines: %d (%d track cells, %d switches with seed 1)",
			cfg.Lines, state.Grid.TrackCells(), len(state.Switches)),
		fmt.Sprintf("✓ Wanderers: %d, Trolleys: %d", cfg.NPCs, cfg.MaxTrains),
	)
	return result
}

func validateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir: %w", err)
	}

	var results []ValidationResult
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			results = append(results, validateConfig(filepath.Join(dir, e.Name())))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

// printResults writes the report and reports whether every file was valid.
func printResults(out io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(out, "  "+info)
			}
			continue
		}
		fmt.Fprintln(out, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			fmt.Fprintln(out, "  ❌ "+err)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid
}
