// Package report formats simulation results for human consumption, kept
// deliberately separate from the kernel (spec §1, §6): sim never imports
// report, only cmd does.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/edgesim/migrationsim/metrics"
)

// WriteSummary writes a human-readable summary of a completed run to w,
// grounded on original_source/edge_sim_py/simulator.py::show_results.
func WriteSummary(w io.Writer, algorithm string, steps int, summary *metrics.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "algorithm:\t%s\n", algorithm)
	fmt.Fprintf(tw, "steps:\t%d\n", steps)
	fmt.Fprintf(tw, "sla violations:\t%d\n", summary.TotalSLAViolations)
	fmt.Fprintf(tw, "migrations:\t%d\n", summary.TotalMigrations)
	fmt.Fprintf(tw, "registry events:\t%d\n", summary.TotalRegistryEvents)
	fmt.Fprintf(tw, "mean delay:\t%.2f\n", summary.MeanDelay)
	fmt.Fprintf(tw, "max delay:\t%d\n", summary.MaxDelay)
	fmt.Fprintf(tw, "mean power (w):\t%.2f\n", summary.MeanPowerWatts)

	return tw.Flush()
}

// WriteCSV writes one tab-separated summary line, preceded by a header line
// when header is true, suitable for comparing multiple algorithm runs.
func WriteCSV(w io.Writer, header bool, algorithm string, steps int, summary *metrics.Summary) error {
	if header {
		if _, err := fmt.Fprintln(w, "algorithm\tsteps\tsla_violations\tmigrations\tregistry_events\tmean_delay\tmax_delay\tmean_power_watts"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.2f\t%d\t%.2f\n",
		algorithm, steps, summary.TotalSLAViolations, summary.TotalMigrations,
		summary.TotalRegistryEvents, summary.MeanDelay, summary.MaxDelay, summary.MeanPowerWatts)
	return err
}

// WriteMigrationsByService writes a sorted per-service migration-count
// breakdown, one line per service id.
func WriteMigrationsByService(w io.Writer, summary *metrics.Summary) error {
	ids := make([]int, 0, len(summary.MigrationsByService))
	for id := range summary.MigrationsByService {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "service\tmigrations")
	for _, id := range ids {
		fmt.Fprintf(tw, "%d\t%d\n", id, summary.MigrationsByService[id])
	}
	return tw.Flush()
}
