package sim

// worldSnapshot captures every mutable field a simulation step can change,
// so a run can be replayed from scratch against a different policy without
// reloading the dataset, grounded on
// original_source/edge_sim_py/simulator.py::store_original_state /
// restore_original_state.
type worldSnapshot struct {
	services    map[*Service]serviceState
	edgeServers map[*EdgeServer]edgeServerState
	registries  map[*ContainerRegistry]registryState
	users       map[*User]userState
	links       map[*Link]linkState

	registrySet []*ContainerRegistry
	imageSet    []*ContainerImage
	nextRegID   int
	nextImgID   int
}

type serviceState struct {
	server     *EdgeServer
	migrations []MigrationRecord
}

type edgeServerState struct {
	services   []*Service
	registries []*ContainerRegistry
	demand     int
}

type registryState struct {
	server     *EdgeServer
	images     []*ContainerImage
	migrations []MigrationRecord
}

type userState struct {
	coordinates Coordinates
	baseStation *BaseStation
	paths       map[*Application][]*BaseStation
	delays      map[*Application]int
}

type linkState struct {
	bandwidthDemand int
	applications    map[*Application]bool
}

// StoreOriginalState snapshots the World's mutable state so
// RestoreOriginalState can later undo every migration and registry change
// a run has made. Called automatically at the start of Run.
func (k *Kernel) StoreOriginalState() {
	snap := &worldSnapshot{
		services:    make(map[*Service]serviceState),
		edgeServers: make(map[*EdgeServer]edgeServerState),
		registries:  make(map[*ContainerRegistry]registryState),
		users:       make(map[*User]userState),
		links:       make(map[*Link]linkState),
		nextRegID:   k.World.nextRegistryID,
		nextImgID:   k.World.nextImageID,
	}

	for _, svc := range k.World.Services.All() {
		snap.services[svc] = serviceState{
			server:     svc.Server,
			migrations: append([]MigrationRecord(nil), svc.Migrations...),
		}
	}
	for _, srv := range k.World.EdgeServers.All() {
		snap.edgeServers[srv] = edgeServerState{
			services:   append([]*Service(nil), srv.Services...),
			registries: append([]*ContainerRegistry(nil), srv.ContainerRegistries...),
			demand:     srv.demand,
		}
	}
	for _, reg := range k.World.ContainerRegistries.All() {
		snap.registries[reg] = registryState{
			server:     reg.Server,
			images:     append([]*ContainerImage(nil), reg.Images...),
			migrations: append([]MigrationRecord(nil), reg.Migrations...),
		}
	}
	for _, user := range k.World.Users.All() {
		paths := make(map[*Application][]*BaseStation, len(user.CommunicationPaths))
		for app, path := range user.CommunicationPaths {
			paths[app] = append([]*BaseStation(nil), path...)
		}
		delays := make(map[*Application]int, len(user.Delays))
		for app, d := range user.Delays {
			delays[app] = d
		}
		snap.users[user] = userState{
			coordinates: user.Coordinates,
			baseStation: user.BaseStation,
			paths:       paths,
			delays:      delays,
		}
	}
	for _, link := range k.World.Topology.Links() {
		apps := make(map[*Application]bool, len(link.Applications))
		for app := range link.Applications {
			apps[app] = true
		}
		snap.links[link] = linkState{bandwidthDemand: link.BandwidthDemand, applications: apps}
	}

	snap.registrySet = append([]*ContainerRegistry(nil), k.World.ContainerRegistries.All()...)
	snap.imageSet = append([]*ContainerImage(nil), k.World.ContainerImages.All()...)

	k.snapshot = snap
}

// RestoreOriginalState undoes every migration and registry change made
// since the last StoreOriginalState call, and resets the step counter to 0.
// Returns a SnapshotMissingError if StoreOriginalState was never called.
func (k *Kernel) RestoreOriginalState() error {
	snap := k.snapshot
	if snap == nil {
		return &SnapshotMissingError{}
	}

	for svc, state := range snap.services {
		svc.Server = state.server
		svc.Migrations = state.migrations
	}
	for srv, state := range snap.edgeServers {
		srv.Services = state.services
		srv.ContainerRegistries = state.registries
		srv.demand = state.demand
	}
	for reg, state := range snap.registries {
		reg.Server = state.server
		reg.Images = state.images
		reg.Migrations = state.migrations
	}
	for user, state := range snap.users {
		user.Coordinates = state.coordinates
		user.BaseStation = state.baseStation
		user.CommunicationPaths = state.paths
		user.Delays = state.delays
	}
	for link, state := range snap.links {
		link.BandwidthDemand = state.bandwidthDemand
		link.Applications = state.applications
	}

	for _, bs := range k.World.BaseStations.All() {
		bs.Users = nil
	}
	for user := range snap.users {
		if user.BaseStation != nil {
			user.BaseStation.Users = append(user.BaseStation.Users, user)
		}
	}

	k.World.ContainerRegistries = Collection[*ContainerRegistry]{}
	for _, reg := range snap.registrySet {
		k.World.ContainerRegistries.Add(reg)
	}
	k.World.ContainerImages = Collection[*ContainerImage]{}
	for _, img := range snap.imageSet {
		k.World.ContainerImages.Add(img)
	}
	k.World.nextRegistryID = snap.nextRegID
	k.World.nextImageID = snap.nextImgID

	k.step = 0
	return nil
}
