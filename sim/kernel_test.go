package sim

import (
	"testing"

	"github.com/edgesim/migrationsim/metrics"
)

func TestKernel_Run_StopsAtMaxSteps(t *testing.T) {
	// GIVEN a world with a user that moves across the line topology
	w, stations, servers := buildLineWorld()
	app := &Application{ID: 0}
	svc := &Service{ID: 0, Server: servers[0], Application: app}
	servers[0].Services = append(servers[0].Services, svc)
	app.Services = append(app.Services, svc)

	user := NewUser(0, []Coordinates{stations[0].Coordinates, stations[1].Coordinates, stations[2].Coordinates})
	user.Applications = append(user.Applications, app)
	app.Users = append(app.Users, user)
	w.Users.Add(user)

	kernel, err := NewKernel(w, KernelConfig{
		Policy:   &PolicyBundle{},
		MaxSteps: 2,
		Recorder: metrics.Config{Level: metrics.LevelSteps},
	}, "never_follow", nil)
	if err != nil {
		t.Fatalf("unexpected error constructing kernel: %v", err)
	}

	// WHEN the kernel runs
	steps, err := kernel.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN it stops at the configured max step count
	if steps != 2 {
		t.Errorf("expected 2 steps, got %d", steps)
	}
	if len(kernel.Recorder.Steps) != 2 {
		t.Errorf("expected 2 recorded steps, got %d", len(kernel.Recorder.Steps))
	}
}

func TestKernel_RestoreOriginalState_UndoesMigrations(t *testing.T) {
	// GIVEN a kernel that has snapshotted its world, then a migration happens
	w, _, servers := buildLineWorld()
	svc := &Service{ID: 0, Demand: 1, Server: servers[0]}
	servers[0].Services = append(servers[0].Services, svc)
	w.Services.Add(svc)

	kernel, err := NewKernel(w, KernelConfig{Policy: &PolicyBundle{}}, "never_follow", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kernel.StoreOriginalState()

	if err := Migrate(w, svc, servers[1], 0, MigrationConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Server != servers[1] {
		t.Fatalf("expected migration to have happened")
	}

	// WHEN the original state is restored
	if err := kernel.RestoreOriginalState(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN the service is back on its original host
	if svc.Server != servers[0] {
		t.Errorf("expected service restored to servers[0], got %v", svc.Server)
	}
	if len(svc.Migrations) != 0 {
		t.Errorf("expected migration history cleared, got %v", svc.Migrations)
	}
}

func TestKernel_RestoreOriginalState_WithoutStore_ReturnsSnapshotMissing(t *testing.T) {
	w, _, _ := buildLineWorld()
	kernel, err := NewKernel(w, KernelConfig{Policy: &PolicyBundle{}}, "never_follow", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = kernel.RestoreOriginalState()
	if _, ok := err.(*SnapshotMissingError); !ok {
		t.Fatalf("expected *SnapshotMissingError, got %v", err)
	}
}
