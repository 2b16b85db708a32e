// Package dataset loads a JSON scenario file into a sim.World. It is an
// external collaborator of the sim package, not part of its core: the
// kernel never imports dataset, only cmd does (spec §1, §6).
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edgesim/migrationsim/sim"
)

// Scenario is the top-level shape of a scenario JSON file (spec §6).
type Scenario struct {
	BaseStations []baseStationDef `json:"base_stations"`
	Links        []linkDef        `json:"links"`
	EdgeServers  []edgeServerDef  `json:"edge_servers"`
	Registries   []registryDef    `json:"container_registries"`
	Applications []applicationDef `json:"applications"`
	Services     []serviceDef     `json:"services"`
	Users        []userDef        `json:"users"`
}

type coordinatesDef struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type baseStationDef struct {
	ID             int            `json:"id"`
	Coordinates    coordinatesDef `json:"coordinates"`
	WirelessDelay  int            `json:"wireless_delay"`
	ChassisPower   float64        `json:"chassis_power"`
	ActivePower    float64        `json:"active_power"`
	LowPowerPct    float64        `json:"low_power_percentage"`
}

type linkDef struct {
	ID        int `json:"id"`
	A         int `json:"a"`
	B         int `json:"b"`
	Delay     int `json:"delay"`
	Bandwidth int `json:"bandwidth"`
}

type edgeServerDef struct {
	ID                    int     `json:"id"`
	BaseStationID         int     `json:"base_station_id"`
	Capacity              int     `json:"capacity"`
	MaxPower              float64 `json:"max_power"`
	StaticPowerPercentage float64 `json:"static_power_percentage"`
}

type imageDef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
	Layer string `json:"layer"`
}

type registryDef struct {
	ID               int        `json:"id"`
	EdgeServerID     int        `json:"edge_server_id"`
	BaseFootprint    int        `json:"base_footprint"`
	ProvisioningTime int        `json:"provisioning_time"`
	Images           []imageDef `json:"images"`
}

type applicationDef struct {
	ID         int   `json:"id"`
	ServiceIDs []int `json:"service_ids"`
}

type serviceDef struct {
	ID            int      `json:"id"`
	Demand        int      `json:"demand"`
	Layers        []string `json:"layers"`
	EdgeServerID  *int     `json:"edge_server_id"` // nil when unplaced at load time
}

type userDef struct {
	ID                   int              `json:"id"`
	CoordinatesTrace     []coordinatesDef `json:"coordinates_trace"`
	ApplicationIDs       []int            `json:"application_ids"`
	DelaySlas            map[int]int      `json:"delay_slas"`
	ProvisioningTimeSlas map[int]int      `json:"provisioning_time_slas"`
}

// Load reads and parses a scenario JSON file and materializes it into a
// fresh sim.World, wiring every cross-reference (spec §6 schema,
// original_source/edge_sim_py/simulator.py::load_dataset).
func Load(path string) (*sim.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	return build(&scenario)
}

func build(scenario *Scenario) (*sim.World, error) {
	w := sim.NewWorld()

	stations := make(map[int]*sim.BaseStation, len(scenario.BaseStations))
	for _, def := range scenario.BaseStations {
		bs := &sim.BaseStation{
			ID:            def.ID,
			Coordinates:   sim.Coordinates{X: def.Coordinates.X, Y: def.Coordinates.Y},
			WirelessDelay: def.WirelessDelay,
			ChassisPower:  def.ChassisPower,
		}
		if def.ActivePower > 0 {
			bs.PowerModel = &sim.SwitchPower{ActivePower: def.ActivePower, LowPowerPercentage: def.LowPowerPct}
		}
		stations[def.ID] = bs
		w.BaseStations.Add(bs)
		w.Topology.AddNode(bs)
	}

	for _, def := range scenario.Links {
		a, ok := stations[def.A]
		if !ok {
			return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("link %d references unknown base station %d", def.ID, def.A)}
		}
		b, ok := stations[def.B]
		if !ok {
			return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("link %d references unknown base station %d", def.ID, def.B)}
		}
		w.Topology.AddLink(def.ID, a, b, def.Delay, def.Bandwidth)
	}

	servers := make(map[int]*sim.EdgeServer, len(scenario.EdgeServers))
	for _, def := range scenario.EdgeServers {
		bs, ok := stations[def.BaseStationID]
		if !ok {
			return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("edge server %d references unknown base station %d", def.ID, def.BaseStationID)}
		}
		srv := &sim.EdgeServer{
			ID:                    def.ID,
			Coordinates:           bs.Coordinates,
			BaseStation:           bs,
			MaxPower:              def.MaxPower,
			StaticPowerPercentage: def.StaticPowerPercentage,
		}
		srv.SetCapacity(def.Capacity)
		if def.MaxPower > 0 {
			srv.PowerModel = &sim.LinearServerPower{MaxPower: def.MaxPower, StaticPowerPercentage: def.StaticPowerPercentage}
		}
		bs.EdgeServers = append(bs.EdgeServers, srv)
		servers[def.ID] = srv
		w.EdgeServers.Add(srv)
	}

	maxRegistryID, maxImageID := -1, -1
	for _, def := range scenario.Registries {
		srv, ok := servers[def.EdgeServerID]
		if !ok {
			return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("registry %d references unknown edge server %d", def.ID, def.EdgeServerID)}
		}
		reg := &sim.ContainerRegistry{
			ID:               def.ID,
			Server:           srv,
			BaseFootprint:    def.BaseFootprint,
			ProvisioningTime: def.ProvisioningTime,
		}
		for _, imgDef := range def.Images {
			img := &sim.ContainerImage{
				ID:                imgDef.ID,
				Name:              imgDef.Name,
				Size:              imgDef.Size,
				Layer:             sim.ImageLayer(imgDef.Layer),
				ContainerRegistry: reg,
			}
			reg.Images = append(reg.Images, img)
			w.ContainerImages.Add(img)
			if imgDef.ID > maxImageID {
				maxImageID = imgDef.ID
			}
		}
		srv.ContainerRegistries = append(srv.ContainerRegistries, reg)
		w.ContainerRegistries.Add(reg)
		if def.ID > maxRegistryID {
			maxRegistryID = def.ID
		}
	}

	applications := make(map[int]*sim.Application, len(scenario.Applications))
	for _, def := range scenario.Applications {
		app := &sim.Application{ID: def.ID}
		applications[def.ID] = app
		w.Applications.Add(app)
	}

	services := make(map[int]*sim.Service, len(scenario.Services))
	for _, def := range scenario.Services {
		svc := &sim.Service{ID: def.ID, Demand: def.Demand, Layers: def.Layers}
		if def.EdgeServerID != nil {
			srv, ok := servers[*def.EdgeServerID]
			if !ok {
				return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("service %d references unknown edge server %d", def.ID, *def.EdgeServerID)}
			}
			svc.Server = srv
			srv.Services = append(srv.Services, svc)
		}
		services[def.ID] = svc
		w.Services.Add(svc)
	}
	for _, def := range scenario.Applications {
		app := applications[def.ID]
		for _, sid := range def.ServiceIDs {
			svc, ok := services[sid]
			if !ok {
				return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("application %d references unknown service %d", def.ID, sid)}
			}
			svc.Application = app
			app.Services = append(app.Services, svc)
		}
	}

	for _, def := range scenario.Users {
		trace := make([]sim.Coordinates, len(def.CoordinatesTrace))
		for i, c := range def.CoordinatesTrace {
			trace[i] = sim.Coordinates{X: c.X, Y: c.Y}
		}
		user := sim.NewUser(def.ID, trace)
		for _, aid := range def.ApplicationIDs {
			app, ok := applications[aid]
			if !ok {
				return nil, &sim.DatasetInvalidError{Reason: fmt.Sprintf("user %d references unknown application %d", def.ID, aid)}
			}
			user.Applications = append(user.Applications, app)
			app.Users = append(app.Users, user)
			if sla, ok := def.DelaySlas[aid]; ok {
				user.DelaySlas[app] = sla
			}
			if sla, ok := def.ProvisioningTimeSlas[aid]; ok {
				user.ProvisioningTimeSlas[app] = sla
			}
		}
		if len(trace) > 0 {
			user.Coordinates = trace[0]
			user.BaseStation = sim.ClosestBaseStation(w, user)
			if user.BaseStation != nil {
				user.BaseStation.Users = append(user.BaseStation.Users, user)
			}
		}
		w.Users.Add(user)
	}

	for _, srv := range servers {
		srv.RecomputeDemand()
	}
	w.SeedIDCounters(maxRegistryID+1, maxImageID+1)

	return w, nil
}
