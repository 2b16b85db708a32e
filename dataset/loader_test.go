package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edgesim/migrationsim/sim"
)

const fixtureJSON = `{
  "base_stations": [
    {"id": 0, "coordinates": {"x": 0, "y": 0}, "wireless_delay": 5},
    {"id": 1, "coordinates": {"x": 1, "y": 0}, "wireless_delay": 5}
  ],
  "links": [
    {"id": 0, "a": 0, "b": 1, "delay": 10, "bandwidth": 100}
  ],
  "edge_servers": [
    {"id": 0, "base_station_id": 0, "capacity": 50},
    {"id": 1, "base_station_id": 1, "capacity": 50}
  ],
  "container_registries": [
    {"id": 0, "edge_server_id": 0, "base_footprint": 1, "provisioning_time": 2,
     "images": [{"id": 0, "name": "app", "size": 20, "layer": "Application"}]}
  ],
  "applications": [
    {"id": 0, "service_ids": [0]}
  ],
  "services": [
    {"id": 0, "demand": 5, "layers": ["app"], "edge_server_id": 0}
  ],
  "users": [
    {"id": 0, "coordinates_trace": [{"x": 0, "y": 0}, {"x": 1, "y": 0}],
     "application_ids": [0], "delay_slas": {"0": 30}}
  ]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad_WiresEveryCrossReference(t *testing.T) {
	// GIVEN a scenario file describing 2 base stations, 2 servers, a
	// registry, an application/service chain, and a user
	path := writeFixture(t)

	// WHEN loaded
	w, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN every collection is populated and cross-referenced correctly
	if w.BaseStations.Count() != 2 {
		t.Errorf("expected 2 base stations, got %d", w.BaseStations.Count())
	}
	if w.EdgeServers.Count() != 2 {
		t.Errorf("expected 2 edge servers, got %d", w.EdgeServers.Count())
	}
	svc, ok := w.Services.FindByID(0)
	if !ok {
		t.Fatal("expected service 0 to exist")
	}
	if svc.Server == nil || svc.Server.EntityID() != 0 {
		t.Errorf("expected service 0 placed on edge server 0, got %v", svc.Server)
	}
	app, ok := w.Applications.FindByID(0)
	if !ok || len(app.Services) != 1 {
		t.Fatalf("expected application 0 with 1 service, got %v", app)
	}
	user, ok := w.Users.FindByID(0)
	if !ok {
		t.Fatal("expected user 0 to exist")
	}
	if user.BaseStation == nil || user.BaseStation.EntityID() != 0 {
		t.Errorf("expected user 0 initially at base station 0, got %v", user.BaseStation)
	}
	if sla, ok := user.DelaySlas[app]; !ok || sla != 30 {
		t.Errorf("expected delay SLA 30 for app 0, got %d (found=%v)", sla, ok)
	}
}

func TestLoad_UnknownReference_ReturnsDatasetInvalidError(t *testing.T) {
	// GIVEN a scenario referencing a base station that doesn't exist
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := `{"base_stations": [{"id": 0}], "links": [{"id": 0, "a": 0, "b": 99, "delay": 1, "bandwidth": 1}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// WHEN loaded
	_, err := Load(path)

	// THEN loading fails with a DatasetInvalidError
	if err == nil {
		t.Fatal("expected an error for an unresolved reference")
	}
	var invalid *sim.DatasetInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *sim.DatasetInvalidError, got %T: %v", err, err)
	}
}
