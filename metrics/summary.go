package metrics

// Summary aggregates statistics from a Recorder's collected steps.
type Summary struct {
	TotalSteps         int
	TotalMigrations    int
	TotalRegistryEvents int
	TotalSLAViolations  int
	MeanDelay           float64
	MaxDelay            int
	MeanPowerWatts      float64
	MigrationsByService map[int]int
}

// Summarize computes aggregate statistics from a Recorder. Safe for a nil
// or empty recorder (returns zero-value fields).
func Summarize(r *Recorder) *Summary {
	summary := &Summary{
		MigrationsByService: make(map[int]int),
	}
	if r == nil || len(r.Steps) == 0 {
		return summary
	}

	summary.TotalSteps = len(r.Steps)
	totalDelay := 0
	totalPower := 0.0
	for _, step := range r.Steps {
		summary.TotalSLAViolations += step.SLAViolations
		totalDelay += step.TotalDelay
		totalPower += step.TotalPowerWatts
		if step.TotalDelay > summary.MaxDelay {
			summary.MaxDelay = step.TotalDelay
		}
		for _, mig := range step.Migrations {
			summary.TotalMigrations++
			summary.MigrationsByService[mig.ServiceID]++
		}
		summary.TotalRegistryEvents += len(step.RegistryEvents)
	}

	summary.MeanDelay = float64(totalDelay) / float64(summary.TotalSteps)
	summary.MeanPowerWatts = totalPower / float64(summary.TotalSteps)
	return summary
}
