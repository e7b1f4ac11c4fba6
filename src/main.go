package main

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"packedlife/src/config"
	"packedlife/src/engine"
	"packedlife/src/shapes"
	"packedlife/src/snapshot"
	"packedlife/src/telemetry"
	"packedlife/src/view"
)

var (
	//engine name -> goroutines per generation
	engines = map[string]int{
		"sequential": 1,
		"parallel":   runtime.NumCPU(),
	}
)

type EnvOptions struct {
	configPath string
	engine     string
	objects    []string
}

func main() {
	cfg := initOptions()

	var stateCh chan engine.Status

	if !cfg.View.Interactive {
		stateCh = make(chan engine.Status, 10) //the buffered channel to getting the engine status
	}

	o := cfg.EngineOptions()
	e := engine.New(&o, stateCh)

	rec, err := telemetry.NewRecorder(cfg.Telemetry.Dir, cfg.Telemetry.Every)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	rec.Attach(e)
	if err := rec.WriteConfig(cfg); err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	if err := seed(e, cfg); err != nil {
		log.Fatalf("seeding: %v", err)
	}

	if cfg.View.Interactive {
		v := view.NewViewTerminal()
		e.RegisterViewer(v)
		v.Start()
	} else {
		c := view.NewConsoleOut(cfg.View.ProgressEvery)
		e.RegisterViewer(c)
		c.Start()
		e.Run()
		for st := range stateCh {
			if st.RunningMode == engine.RunningStateFinished {
				break
			}
		}
		printSummary(rec.Summary())
	}

	if cfg.Snapshot.Path != "" {
		if err := snapshot.WritePNG(cfg.Snapshot.Path, e.Snapshot(), cfg.Snapshot.Scale); err != nil {
			log.Printf("snapshot: %v", err)
		}
	}
	e.Close()
	if err := rec.Close(); err != nil {
		log.Printf("telemetry: %v", err)
	}
}

//seed populates the universe: strategy first, then the template and the stamps on top
func seed(e *engine.Engine, cfg *config.Config) error {
	s, err := cfg.Strategy()
	if err != nil {
		return err
	}
	e.Init(s)
	if cfg.Universe.Template != "" {
		if err := e.SettleTemplate(cfg.Universe.Template); err != nil {
			return err
		}
	}
	stamps, err := cfg.Stamps()
	if err != nil {
		return err
	}
	for _, st := range stamps {
		e.DrawObject(st.Shape, st.Row, st.Col)
	}
	return nil
}

func printSummary(s telemetry.Summary) {
	if s.Generations == 0 {
		return
	}
	fmt.Println("Population:")
	fmt.Printf("  mean: %.1f, std: %.1f\n", s.MeanPopulation, s.StdPopulation)
	fmt.Printf("  min: %.0f, median: %.0f, max: %.0f\n", s.MinPopulation, s.P50Population, s.MaxPopulation)
	fmt.Printf("  mean births+deaths: %.1f\n", s.MeanTurnover)
}

//parseObject parses the stamp in the form shape@row,col
func parseObject(s string) (config.StampConfig, error) {
	parts := strings.SplitN(s, "@", 2)
	if len(parts) != 2 {
		return config.StampConfig{}, fmt.Errorf("object %q: want shape@row,col", s)
	}
	if _, err := shapes.ParseID(parts[0]); err != nil {
		return config.StampConfig{}, fmt.Errorf("object %q: %w", s, err)
	}
	coords := strings.Split(parts[1], ",")
	if len(coords) != 2 {
		return config.StampConfig{}, fmt.Errorf("object %q: want shape@row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(coords[0]))
	if err != nil {
		return config.StampConfig{}, fmt.Errorf("object %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(coords[1]))
	if err != nil {
		return config.StampConfig{}, fmt.Errorf("object %q: col: %w", s, err)
	}
	return config.StampConfig{Shape: strings.TrimSpace(parts[0]), Row: row, Col: col}, nil
}

//applyFlags copies every value changed by the command line from flagged to cfg
func applyFlags(cfg *config.Config, flagged *config.Config, defaults *config.Config) {
	if flagged.Universe.Width != defaults.Universe.Width {
		cfg.Universe.Width = flagged.Universe.Width
	}
	if flagged.Universe.Height != defaults.Universe.Height {
		cfg.Universe.Height = flagged.Universe.Height
	}
	if flagged.Universe.Workers != defaults.Universe.Workers {
		cfg.Universe.Workers = flagged.Universe.Workers
	}
	if flagged.Universe.Seed != defaults.Universe.Seed {
		cfg.Universe.Seed = flagged.Universe.Seed
	}
	if flagged.Universe.Strategy != defaults.Universe.Strategy {
		cfg.Universe.Strategy = flagged.Universe.Strategy
	}
	if flagged.Universe.Template != defaults.Universe.Template {
		cfg.Universe.Template = flagged.Universe.Template
	}
	if flagged.Simulation.Interval != defaults.Simulation.Interval {
		cfg.Simulation.Interval = flagged.Simulation.Interval
	}
	if flagged.Simulation.MaxSteps != defaults.Simulation.MaxSteps {
		cfg.Simulation.MaxSteps = flagged.Simulation.MaxSteps
	}
	if flagged.Telemetry.Dir != defaults.Telemetry.Dir {
		cfg.Telemetry.Dir = flagged.Telemetry.Dir
	}
	if flagged.Snapshot.Path != defaults.Snapshot.Path {
		cfg.Snapshot.Path = flagged.Snapshot.Path
	}
	if flagged.Snapshot.Scale != defaults.Snapshot.Scale {
		cfg.Snapshot.Scale = flagged.Snapshot.Scale
	}
	if flagged.View.Interactive != defaults.View.Interactive {
		cfg.View.Interactive = flagged.View.Interactive
	}
}

func initOptions() *config.Config {

	defaults := config.Defaults()
	flagged := config.Defaults()
	engineNames := make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	eo := &EnvOptions{}
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.configPath, "c", "config", "YAML configuration file, flags override its values")
	flaggy.Int(&flagged.Universe.Width, "x", "width", "Width of the universe")
	flaggy.Int(&flagged.Universe.Height, "y", "height", "Height of the universe")
	flaggy.Duration(&flagged.Simulation.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&flagged.Simulation.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations, 0 for no limit")
	flaggy.Bool(&flagged.View.Interactive, "n", "interactive", "Start interactive mode")
	flaggy.String(&flagged.Universe.Strategy, "S", "strategy", "Seeding strategy [deterministic|random|empty]")
	flaggy.Int64(&flagged.Universe.Seed, "r", "seed", "Seed of the random strategy, 0 uses the clock")
	flaggy.String(&flagged.Universe.Template, "T", "template", "Engine template settled after seeding")
	flaggy.StringSlice(&eo.objects, "o", "object", "Shape stamped after seeding as shape@row,col, shape is one of [spaceship|glider|pulsar]")
	flaggy.String(&eo.engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"]")
	flaggy.Int(&flagged.Universe.Workers, "w", "workers", "Goroutines per generation, overrides the engine")
	flaggy.String(&flagged.Telemetry.Dir, "t", "telemetry", "Directory for generations.csv and summary.yaml")
	flaggy.String(&flagged.Snapshot.Path, "p", "png", "Write the final universe to this PNG file")
	flaggy.Int(&flagged.Snapshot.Scale, "", "scale", "Pixels per cell in the PNG")

	flaggy.Parse()

	cfg := flagged
	if eo.configPath != "" {
		var err error
		if cfg, err = config.Load(eo.configPath); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
		applyFlags(cfg, flagged, defaults)
	}

	if eo.engine != "" {
		workers, ok := engines[eo.engine]
		if !ok {
			flaggy.ShowHelpAndExit("unknown engine")
		}
		if flagged.Universe.Workers == defaults.Universe.Workers {
			cfg.Universe.Workers = workers
		}
	}

	for _, s := range eo.objects {
		obj, err := parseObject(s)
		if err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
		cfg.Universe.Objects = append(cfg.Universe.Objects, obj)
	}

	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	if !cfg.View.Interactive {
		flaggy.ShowHelp("")
		fmt.Printf("Started at %v\n", time.Now().Format(time.Stamp))
	}

	return cfg
}
