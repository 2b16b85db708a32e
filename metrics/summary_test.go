package metrics

import "testing"

func TestSummarize_EmptyRecorder_ZeroValues(t *testing.T) {
	// GIVEN an empty recorder
	r := NewRecorder(Config{Level: LevelSteps})

	// WHEN summarized
	summary := Summarize(r)

	// THEN all counts are zero
	if summary.TotalSteps != 0 {
		t.Errorf("expected 0 total steps, got %d", summary.TotalSteps)
	}
	if summary.TotalMigrations != 0 {
		t.Error("expected 0 migrations")
	}
	if summary.MeanDelay != 0 || summary.MaxDelay != 0 {
		t.Error("expected 0 delay values")
	}
}

func TestSummarize_PopulatedRecorder_CorrectCounts(t *testing.T) {
	// GIVEN a recorder with mixed step records
	r := NewRecorder(Config{Level: LevelSteps})
	r.RecordStep(StepRecord{Step: 0, TotalDelay: 10, SLAViolations: 1,
		Migrations: []MigrationRecord{{ServiceID: 1, DestID: 2}}})
	r.RecordStep(StepRecord{Step: 1, TotalDelay: 30, SLAViolations: 0,
		Migrations: []MigrationRecord{{ServiceID: 1, DestID: 3}, {ServiceID: 2, DestID: 3}},
		RegistryEvents: []RegistryEvent{{RegistryID: 5, Kind: "replicate"}}})

	// WHEN summarized
	summary := Summarize(r)

	// THEN counts match
	if summary.TotalSteps != 2 {
		t.Errorf("expected 2 steps, got %d", summary.TotalSteps)
	}
	if summary.TotalMigrations != 3 {
		t.Errorf("expected 3 migrations, got %d", summary.TotalMigrations)
	}
	if summary.TotalSLAViolations != 1 {
		t.Errorf("expected 1 SLA violation, got %d", summary.TotalSLAViolations)
	}
	if summary.TotalRegistryEvents != 1 {
		t.Errorf("expected 1 registry event, got %d", summary.TotalRegistryEvents)
	}
	if summary.MaxDelay != 30 {
		t.Errorf("expected max delay 30, got %d", summary.MaxDelay)
	}
	if summary.MeanDelay != 20 {
		t.Errorf("expected mean delay 20, got %f", summary.MeanDelay)
	}
	if summary.MigrationsByService[1] != 2 {
		t.Errorf("expected service 1 migrated twice, got %d", summary.MigrationsByService[1])
	}
}
