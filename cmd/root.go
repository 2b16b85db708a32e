// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edgesim/migrationsim/dataset"
	"github.com/edgesim/migrationsim/metrics"
	"github.com/edgesim/migrationsim/report"
	"github.com/edgesim/migrationsim/sim"
)

var (
	datasetPath         string
	algorithm           string
	logLevel            string
	seed                int64
	maxSteps            int
	delayThreshold       float64
	provTimeThreshold    float64
	correctedMigration   bool
	metricsLevel         string
	csvOutput            bool
)

var rootCmd = &cobra.Command{
	Use:   "migrationsim",
	Short: "Discrete-time simulator for mobility-aware edge service migration and container registry placement",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a placement/provisioning scenario to completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !sim.IsValidAlgorithm(algorithm) {
			logrus.Fatalf("unknown algorithm %q; valid options: %v", algorithm, sim.ValidAlgorithmNames())
		}
		if !metrics.IsValidLevel(metricsLevel) {
			logrus.Fatalf("unknown metrics level %q", metricsLevel)
		}

		logrus.WithFields(logrus.Fields{
			"dataset":   datasetPath,
			"algorithm": algorithm,
			"seed":      seed,
		}).Info("loading scenario")

		world, err := dataset.Load(datasetPath)
		if err != nil {
			logrus.Fatalf("loading dataset: %v", err)
		}

		bundle := &sim.PolicyBundle{
			Algorithm:                 algorithm,
			DelayThreshold:            &delayThreshold,
			ProvisioningTimeThreshold: &provTimeThreshold,
		}
		if err := bundle.Validate(); err != nil {
			logrus.Fatalf("invalid policy configuration: %v", err)
		}

		config := sim.KernelConfig{
			Migration: sim.MigrationConfig{CorrectedMigrationFormula: correctedMigration},
			Policy:    bundle,
			MaxSteps:  maxSteps,
			Recorder:  metrics.Config{Level: metrics.Level(metricsLevel)},
		}

		kernel, err := sim.NewKernel(world, config, algorithm, nil)
		if err != nil {
			logrus.Fatalf("constructing kernel: %v", err)
		}

		steps, err := kernel.Run()
		if err != nil {
			logrus.Fatalf("simulation failed at step %d: %v", steps, err)
		}

		summary := metrics.Summarize(kernel.Recorder)
		if csvOutput {
			return report.WriteCSV(cmd.OutOrStdout(), true, algorithm, steps, summary)
		}
		return report.WriteSummary(cmd.OutOrStdout(), algorithm, steps, summary)
	},
}

var listAlgorithmsCmd = &cobra.Command{
	Use:   "list-algorithms",
	Short: "List the recognized placement algorithms",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range sim.ValidAlgorithmNames() {
			if _, err := cmd.OutOrStdout().Write([]byte(name + "\n")); err != nil {
				return err
			}
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario dataset without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := dataset.Load(datasetPath); err != nil {
			return err
		}
		logrus.WithField("dataset", datasetPath).Info("dataset is valid")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&datasetPath, "dataset", "", "path to the scenario JSON file (required)")
	runCmd.Flags().StringVar(&algorithm, "algorithm", "never_follow", "placement algorithm: never_follow, follow_user, proposed_heuristic")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "reproducibility seed, recorded alongside output")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum number of steps to run (0 = run to the trace's end)")
	runCmd.Flags().Float64Var(&delayThreshold, "delay-threshold", sim.DefaultDelayThreshold, "default delay SLA used when a user omits one")
	runCmd.Flags().Float64Var(&provTimeThreshold, "prov-time-threshold", sim.DefaultProvisioningTimeThreshold, "provisioning time threshold used by proposed_heuristic's U_slow working set")
	runCmd.Flags().BoolVar(&correctedMigration, "corrected-migration-formula", false, "divide migration time by hop count instead of multiplying (see DESIGN.md)")
	runCmd.Flags().StringVar(&metricsLevel, "metrics", "none", "metric recording level: none, steps")
	runCmd.Flags().BoolVar(&csvOutput, "csv", false, "emit a single tab-separated summary line instead of the human-readable report")
	runCmd.MarkFlagRequired("dataset")

	validateCmd.Flags().StringVar(&datasetPath, "dataset", "", "path to the scenario JSON file (required)")
	validateCmd.MarkFlagRequired("dataset")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listAlgorithmsCmd)
	rootCmd.AddCommand(validateCmd)
}
