package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/table-sim/table-sim/sim"
)

var (
	// Scenario flags; a --config YAML file overrides all of them.
	seed            int64
	horizon         float64
	logLevel        string
	numTables       int
	numClients      int
	lambda          float64
	readProbability float64
	serviceTime     float64
	tableDist       string
	lognormalM      float64
	lognormalS      float64
	maxEvents       uint64

	configPath string
	outputPath string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "table-sim",
	Short: "Discrete-event simulator for concurrent database table access",
}

// runCmd executes one simulation and writes the result as JSON.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the table access simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := buildConfig()
		if configPath != "" {
			loaded, err := sim.Load(configPath)
			if err != nil {
				logrus.Fatalf("unable to read scenario config: %v", err)
			}
			cfg = *loaded
		}

		result, err := sim.Run(cfg)
		if err != nil {
			logrus.Fatalf("simulation not started: %v", err)
		}

		if err := writeResult(result, outputPath); err != nil {
			logrus.Fatalf("writing result: %v", err)
		}
	},
}

// buildConfig assembles a scenario from the CLI flags.
func buildConfig() sim.Config {
	return sim.Config{
		NumTables:         numTables,
		NumClients:        numClients,
		Lambda:            lambda,
		ReadProbability:   readProbability,
		ServiceTime:       serviceTime,
		TableDistribution: tableDist,
		LognormalM:        lognormalM,
		LognormalS:        lognormalS,
		Horizon:           horizon,
		Seed:              seed,
		MaxEvents:         maxEvents,
	}
}

// writeResult serializes the run result as indented JSON, to stdout when no
// path is given.
func writeResult(result *sim.RunResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands.
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random generation")
	runCmd.Flags().Float64Var(&horizon, "horizon", 10000, "Simulation horizon in virtual seconds")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().IntVar(&numTables, "tables", 4, "Number of database tables")
	runCmd.Flags().IntVar(&numClients, "clients", 10, "Number of clients")
	runCmd.Flags().Float64Var(&lambda, "lambda", 1.0, "Per-client access rate (accesses per virtual second)")
	runCmd.Flags().Float64Var(&readProbability, "read-probability", 0.8, "Probability a generated access is a read")
	runCmd.Flags().Float64Var(&serviceTime, "service-time", 0.1, "Fixed operation duration in virtual seconds")
	runCmd.Flags().StringVar(&tableDist, "table-distribution", "uniform", "Target table distribution (uniform, lognormal)")
	runCmd.Flags().Float64Var(&lognormalM, "lognormal-m", 0.0, "Lognormal mu (log-space mean)")
	runCmd.Flags().Float64Var(&lognormalS, "lognormal-s", 1.0, "Lognormal sigma (log-space std dev)")
	runCmd.Flags().Uint64Var(&maxEvents, "max-events", 0, "Cap on executed events (0 = unlimited)")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (overrides the scenario flags)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Result JSON path (stdout when empty)")

	rootCmd.AddCommand(runCmd)
}
