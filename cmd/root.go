package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/hospital-sim/hospital-sim/sim"
)

var (
	// CLI flags for simulation control
	seed     int64  // Seed for random patient generation
	logLevel string // Log verbosity level
	duration time.Duration

	// Scenario selection
	scenarioFile string // YAML scenario path ("" = built-in default)

	// Hospital-side tuning
	sweepInterval time.Duration // discharge sweep interval

	// Ambulance-side tuning
	generationInterval time.Duration
	queryTimeout       time.Duration
	admissionTimeout   time.Duration
	travelMin          time.Duration
	travelMax          time.Duration
	maxRetries         int
	retryDelay         time.Duration
	gracePeriod        time.Duration

	// Patient generation probabilities
	emergencyProbability float64
	massEventProbability float64
	massEventMin         int
	massEventMax         int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hospital-sim",
	Short: "Multi-actor simulator for emergency-patient routing",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hospital network simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario := DefaultScenario()
		if scenarioFile != "" {
			scenario, err = LoadScenario(scenarioFile)
			if err != nil {
				logrus.Fatalf("unable to read scenario config: %v", err)
			}
		}

		cfg := sim.DefaultSimulationConfig()
		cfg.Duration = duration
		cfg.DischargeSweepInterval = sweepInterval
		cfg.GenerationInterval = generationInterval
		cfg.QueryTimeout = queryTimeout
		cfg.AdmissionTimeout = admissionTimeout
		cfg.TravelTimeMin = travelMin
		cfg.TravelTimeMax = travelMax
		cfg.MaxRetryAttempts = maxRetries
		cfg.RetryDelay = retryDelay
		cfg.RetryGracePeriod = gracePeriod
		cfg.Generator.EmergencyProbability = emergencyProbability
		cfg.Generator.MassEventProbability = massEventProbability
		cfg.Generator.MassEventSizeMin = massEventMin
		cfg.Generator.MassEventSizeMax = massEventMax

		logrus.Infof("Starting simulation: %d hospitals, %d ambulances, window=%s, seed=%d",
			len(scenario.Hospitals), scenario.Ambulances, cfg.Duration, seed)

		s := sim.NewSimulation(scenario, cfg, seed)
		report := s.Run(context.Background())
		report.Print()

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random patient generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "Simulation window for new patient generation")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "YAML scenario file (default: built-in three-hospital network)")

	// Hospital configs
	runCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", 2*time.Second, "Discharge sweep (resource recovery) interval")

	// Dispatch configs
	runCmd.Flags().DurationVar(&generationInterval, "generation-interval", 500*time.Millisecond, "Pause between patient generation ticks")
	runCmd.Flags().DurationVar(&queryTimeout, "query-timeout", 5*time.Second, "Resource query exchange timeout")
	runCmd.Flags().DurationVar(&admissionTimeout, "admission-timeout", 6*time.Second, "Admission/transfer exchange timeout")
	runCmd.Flags().DurationVar(&travelMin, "travel-min", 200*time.Millisecond, "Minimum simulated travel delay")
	runCmd.Flags().DurationVar(&travelMax, "travel-max", 800*time.Millisecond, "Maximum simulated travel delay")
	runCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Maximum re-dispatch attempts per patient")
	runCmd.Flags().DurationVar(&retryDelay, "retry-delay", time.Second, "Linear backoff unit between retries")
	runCmd.Flags().DurationVar(&gracePeriod, "grace-period", 2*time.Second, "Retry drain allowance past the simulation window")

	// Patient generation configs
	runCmd.Flags().Float64Var(&emergencyProbability, "emergency-prob", 0.35, "Probability a generated patient is an emergency")
	runCmd.Flags().Float64Var(&massEventProbability, "mass-event-prob", 0.08, "Per-tick probability of a mass-casualty event")
	runCmd.Flags().IntVar(&massEventMin, "mass-event-min", 3, "Minimum mass-casualty batch size")
	runCmd.Flags().IntVar(&massEventMax, "mass-event-max", 6, "Maximum mass-casualty batch size")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
