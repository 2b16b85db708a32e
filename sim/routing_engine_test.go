package sim

import "testing"

func TestSetCommunicationPath_ChainsThroughServiceHosts(t *testing.T) {
	// GIVEN a user at bs0 consuming an app with one service hosted at bs2
	w, stations, servers := buildLineWorld()
	app := &Application{ID: 0}
	svc := &Service{ID: 0, Application: app}
	svc.Server = servers[2]
	app.Services = append(app.Services, svc)

	user := NewUser(0, nil)
	user.BaseStation = stations[0]
	user.Applications = append(user.Applications, app)
	app.Users = append(app.Users, user)

	// WHEN the communication path is computed
	if err := SetCommunicationPath(w, user, app, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// THEN it traverses bs0 -> bs1 -> bs2 and the links are marked as carrying app
	path := user.CommunicationPaths[app]
	if len(path) != 3 || path[0] != stations[0] || path[2] != stations[2] {
		t.Fatalf("expected path through all 3 stations, got %v", path)
	}
	link, ok := w.Topology.FindLink(stations[0], stations[1])
	if !ok || !link.Applications[app] {
		t.Errorf("expected link bs0-bs1 to carry app")
	}
}

func TestSetCommunicationPath_UnplacedService_ReturnsError(t *testing.T) {
	// GIVEN an application whose service has no assigned server
	w, stations, _ := buildLineWorld()
	app := &Application{ID: 0}
	svc := &Service{ID: 0, Application: app}
	app.Services = append(app.Services, svc)

	user := NewUser(0, nil)
	user.BaseStation = stations[0]
	user.Applications = append(user.Applications, app)

	// WHEN the communication path is computed
	err := SetCommunicationPath(w, user, app, nil)

	// THEN an UnplacedServiceError is returned
	if _, ok := err.(*UnplacedServiceError); !ok {
		t.Fatalf("expected *UnplacedServiceError, got %v", err)
	}
}

func TestComputeDelay_SumsWirelessAndPathDelay(t *testing.T) {
	// GIVEN a user with a 20-unit wireless delay and a computed path
	w, stations, servers := buildLineWorld()
	stations[0].WirelessDelay = 20
	app := &Application{ID: 0}
	svc := &Service{ID: 0, Application: app, Server: servers[2]}
	app.Services = append(app.Services, svc)

	user := NewUser(0, nil)
	user.BaseStation = stations[0]
	user.Applications = append(user.Applications, app)
	if err := SetCommunicationPath(w, user, app, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WHEN latency is computed
	delay := ComputeDelay(w, user, app, MetricLatency)

	// THEN it is wireless delay (20) plus path delay (10+10=20)
	if delay != 40 {
		t.Errorf("expected delay 40, got %d", delay)
	}

	// AND response time doubles it
	rt := ComputeDelay(w, user, app, MetricResponseTime)
	if rt != 80 {
		t.Errorf("expected response time 80, got %d", rt)
	}
}

func TestClosestBaseStation_ExactMatchPreferred(t *testing.T) {
	w, stations, _ := buildLineWorld()
	user := NewUser(0, nil)
	user.Coordinates = stations[1].Coordinates

	got := ClosestBaseStation(w, user)
	if got != stations[1] {
		t.Errorf("expected exact coordinate match bs1, got %v", got)
	}
}
