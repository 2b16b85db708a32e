package sim

import "testing"

func TestGetMigrationTime_MultipliesByHopCount(t *testing.T) {
	// GIVEN a service hosted on srv0 needing a layer not present on srv2,
	// two hops away across equal-bandwidth links
	w, _, servers := buildLineWorld()
	svc := &Service{ID: 0, Demand: 1, Layers: []string{"app"}}
	servers[0].Services = append(servers[0].Services, svc)
	svc.Server = servers[0]

	reg := &ContainerRegistry{ID: 0, Server: servers[0]}
	img := &ContainerImage{ID: 0, Name: "app", Size: 100, ContainerRegistry: reg}
	reg.Images = append(reg.Images, img)
	servers[0].ContainerRegistries = append(servers[0].ContainerRegistries, reg)

	// WHEN migration time to srv2 (2 hops away) is computed
	duration, err := GetMigrationTime(w, svc, servers[2], MigrationConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN the preserved quirk multiplies transfer time by hop count: the
	// path weight here is raw bandwidth (100 on both links), so minBandwidth
	// is 100 and transfer time is 100/100 * 2 hops = 2
	if duration != 2 {
		t.Errorf("expected migration time 2 (size/bandwidth * hops), got %f", duration)
	}
}

func TestGetMigrationTime_CorrectedFormula_DividesByHopCount(t *testing.T) {
	// GIVEN the same setup as above but with the corrected formula enabled
	w, _, servers := buildLineWorld()
	svc := &Service{ID: 0, Demand: 1, Layers: []string{"app"}}
	servers[0].Services = append(servers[0].Services, svc)
	svc.Server = servers[0]

	reg := &ContainerRegistry{ID: 0, Server: servers[0]}
	img := &ContainerImage{ID: 0, Name: "app", Size: 100, ContainerRegistry: reg}
	reg.Images = append(reg.Images, img)
	servers[0].ContainerRegistries = append(servers[0].ContainerRegistries, reg)

	// WHEN computed with CorrectedMigrationFormula
	duration, err := GetMigrationTime(w, svc, servers[2], MigrationConfig{CorrectedMigrationFormula: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN transfer time is divided, not multiplied: (100/100) / 2 = 0.5
	if duration != 0.5 {
		t.Errorf("expected corrected migration time 0.5, got %f", duration)
	}
}

func TestGetMigrationTime_NoMissingLayers_ReturnsZero(t *testing.T) {
	// GIVEN a target that already hosts every layer the service needs
	w, _, servers := buildLineWorld()
	svc := &Service{ID: 0, Demand: 1, Layers: []string{"app"}}
	svc.Server = servers[0]

	reg := &ContainerRegistry{ID: 0, Server: servers[2]}
	img := &ContainerImage{ID: 0, Name: "app", Size: 100, ContainerRegistry: reg}
	reg.Images = append(reg.Images, img)
	servers[2].ContainerRegistries = append(servers[2].ContainerRegistries, reg)

	// WHEN migration time to srv2 is computed
	duration, err := GetMigrationTime(w, svc, servers[2], MigrationConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN there is nothing to transfer
	if duration != 0 {
		t.Errorf("expected 0 migration time, got %f", duration)
	}
}

func TestMigrate_MovesServiceAndRecomputesDemand(t *testing.T) {
	// GIVEN a service hosted on srv0
	w, _, servers := buildLineWorld()
	svc := &Service{ID: 0, Demand: 10}
	servers[0].Services = append(servers[0].Services, svc)
	svc.Server = servers[0]
	servers[0].RecomputeDemand()

	// WHEN it migrates to srv1
	if err := Migrate(w, svc, servers[1], 3, MigrationConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN it is removed from srv0 and placed on srv1, with demand updated
	if svc.Server != servers[1] {
		t.Errorf("expected service on srv1, got %v", svc.Server)
	}
	if servers[0].Demand() != 0 {
		t.Errorf("expected srv0 demand 0, got %d", servers[0].Demand())
	}
	if servers[1].Demand() != 10 {
		t.Errorf("expected srv1 demand 10, got %d", servers[1].Demand())
	}
	if len(svc.Migrations) != 1 || svc.Migrations[0].Step != 3 {
		t.Fatalf("expected one migration record at step 3, got %v", svc.Migrations)
	}
	if svc.Migrations[0].Origin != servers[0] || svc.Migrations[0].Destination != servers[1] {
		t.Errorf("migration record origin/destination mismatch: %+v", svc.Migrations[0])
	}
}
