package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// ProposedHeuristicPolicy runs the three-phase placement/provisioning
// heuristic, grounded on
// original_source/simulator/algorithms/proposed_heuristic.py:
//
//   - Phase A: migrate services whose user is violating its delay SLA,
//     most-violated application first, to the nearest edge server with room.
//   - Phase B: cull every registry that is not the bandwidth-closest
//     registry to any user.
//   - Phase C: greedily provision new registries, each carrying one copy of
//     every distinct image, to cover users whose estimated provisioning time
//     still exceeds the configured threshold (U_slow).
func ProposedHeuristicPolicy(w *World, step int, bundle *PolicyBundle, cfg MigrationConfig) error {
	delayThreshold := bundle.DelayThresholdOrDefault()
	provThreshold := bundle.ProvisioningTimeThresholdOrDefault()

	if err := heuristicPhaseA(w, step, cfg, delayThreshold); err != nil {
		return err
	}
	heuristicPhaseB(w)
	heuristicPhaseC(w, step, provThreshold)
	return nil
}

// appUrgency pairs an application with how badly its delay SLA is being
// violated (larger is more urgent).
type appUrgency struct {
	user  *User
	app   *Application
	delta float64 // delay - delaySla; positive means violating
}

// heuristicPhaseA migrates services belonging to SLA-violating applications,
// most-urgent first, to the nearest edge server attached along the path
// from the user's base station outward that has room for the service
// (spec §4.6.3 Phase A).
func heuristicPhaseA(w *World, step int, cfg MigrationConfig, delayThreshold float64) error {
	var urgent []appUrgency
	for _, user := range w.Users.All() {
		for _, app := range user.Applications {
			sla, hasSLA := user.DelaySlas[app]
			threshold := delayThreshold
			if hasSLA {
				threshold = float64(sla)
			}
			delay := float64(user.Delays[app])
			if delay <= threshold {
				continue
			}
			urgent = append(urgent, appUrgency{user: user, app: app, delta: delay - threshold})
		}
	}

	sort.SliceStable(urgent, func(i, j int) bool { return urgent[i].delta > urgent[j].delta })

	for _, u := range urgent {
		order := nearestEdgeServers(w, u.user.BaseStation)
		for _, svc := range u.app.Services {
			if svc.Server != nil && svc.Server.BaseStation == u.user.BaseStation {
				continue
			}
			target := firstCapableServer(order, svc)
			if target == nil {
				logrus.WithField("step", step).Debug((&CapacityExhaustedError{Service: svc}).Error())
				continue
			}
			if target == svc.Server {
				continue
			}
			if err := Migrate(w, svc, target, step, cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// nearestEdgeServers returns every edge server in the world sorted by
// ascending hop count from origin.
func nearestEdgeServers(w *World, origin *BaseStation) []*EdgeServer {
	type ranked struct {
		srv  *EdgeServer
		hops int
	}
	rankedServers := make([]ranked, 0, w.EdgeServers.Count())
	for _, srv := range w.EdgeServers.All() {
		path, err := w.Topology.ShortestPath(origin, srv.BaseStation, WeightHopCount)
		hops := len(w.Topology.Nodes()) + 1 // effectively unreachable
		if err == nil {
			hops = len(Deduplicate(path)) - 1
		}
		rankedServers = append(rankedServers, ranked{srv: srv, hops: hops})
	}
	sort.SliceStable(rankedServers, func(i, j int) bool { return rankedServers[i].hops < rankedServers[j].hops })

	out := make([]*EdgeServer, len(rankedServers))
	for i, r := range rankedServers {
		out[i] = r.srv
	}
	return out
}

// firstCapableServer returns the first server in order that can host svc.
func firstCapableServer(order []*EdgeServer, svc *Service) *EdgeServer {
	for _, srv := range order {
		if srv == svc.Server {
			continue
		}
		if srv.CanHost(svc.Demand) {
			return srv
		}
	}
	return nil
}

// heuristicPhaseB deprovisions every registry that is not the
// bandwidth-closest registry to any user in the world, delegating to
// RemoveFarthestRegistries exactly as
// original_source/simulator/algorithms/proposed_heuristic.py calls
// removing_farthest_container_registries() unconditionally every round
// (spec §4.6.3 Phase B).
func heuristicPhaseB(w *World) {
	RemoveFarthestRegistries(w)
}

// slowUser is one (user, application, service) tuple whose estimated
// provisioning time at its current placement still exceeds the configured
// threshold.
type slowUser struct {
	user *User
	app  *Application
	svc  *Service
}

// heuristicPhaseC greedily provisions new registries to cover the working
// set of slow users (U_slow): each round it picks, among edge servers with
// room for a full registry and no registry of their own, the one whose
// provisioning would newly satisfy the most pending slow users, until the
// set is empty or no eligible candidate improves coverage (spec §4.6.3
// Phase C), grounded on
// original_source/simulator/algorithms/proposed_heuristic.py's
// `while len(users_with_long_prov_time) > 0 and len(edge_servers) > 0` loop.
func heuristicPhaseC(w *World, step int, provThreshold float64) {
	images, registryDemand := distinctSystemImages(w)
	if len(images) == 0 {
		return
	}

	for {
		uSlow := computeSlowUsers(w, provThreshold)
		if len(uSlow) == 0 {
			return
		}

		candidates := provisioningCandidates(w, registryDemand)
		if len(candidates) == 0 {
			logrus.WithField("pending", len(uSlow)).Debug((&NoCandidateRegistryHostError{}).Error())
			return
		}

		bestServer, bestCovered := selectExpansionCandidate(w, candidates, uSlow, provThreshold)
		if bestServer == nil {
			logrus.WithField("pending", len(uSlow)).Debug((&NoCandidateRegistryHostError{}).Error())
			return
		}

		provisionFullRegistry(w, bestServer, images, step)
		if bestCovered == 0 {
			return
		}
	}
}

// computeSlowUsers returns every (user, application, service) tuple whose
// provisioning time to fetch its services' missing image layers from the
// best-covering registry currently in the world exceeds provThreshold.
func computeSlowUsers(w *World, provThreshold float64) []slowUser {
	var out []slowUser
	for _, user := range w.Users.All() {
		for _, app := range user.Applications {
			for _, svc := range app.Services {
				if svc.Server == nil {
					continue
				}
				if estimateProvisioningTime(w, svc) > provThreshold {
					out = append(out, slowUser{user: user, app: app, svc: svc})
				}
			}
		}
	}
	return out
}

// distinctSystemImages returns one representative ContainerImage per
// distinct image name found anywhere in the world, plus the summed size of
// that representative set — the footprint a freshly provisioned registry
// carrying "one copy of every distinct image name in the system" needs
// (spec §4.6.3 Phase C), grounded on proposed_heuristic.py's
// `images`/`registry_demand` computation.
func distinctSystemImages(w *World) ([]*ContainerImage, int) {
	seen := make(map[string]bool)
	var images []*ContainerImage
	demand := 0
	for _, srv := range w.EdgeServers.All() {
		for _, reg := range srv.ContainerRegistries {
			for _, img := range reg.Images {
				if seen[img.Name] {
					continue
				}
				seen[img.Name] = true
				images = append(images, img)
				demand += img.Size
			}
		}
	}
	return images, demand
}

// provisioningCandidates returns every edge server with enough free
// capacity to host a full registry and no registry of its own yet (spec
// §4.6.3 Phase C), grounded on proposed_heuristic.py's
// `[s for s in EdgeServer.all() if s.capacity - s.demand >= registry_demand
// and len(s.container_registries) == 0]`.
func provisioningCandidates(w *World, registryDemand int) []*EdgeServer {
	var out []*EdgeServer
	for _, srv := range w.EdgeServers.All() {
		if len(srv.ContainerRegistries) != 0 {
			continue
		}
		if srv.FreeCapacity() < registryDemand {
			continue
		}
		out = append(out, srv)
	}
	return out
}

// estimateProvisioningTime estimates how long it would take svc's server to
// pull its missing image layers from the best-covering registry currently
// in the world, using the same size-over-bandwidth-times-hops accounting as
// migration (spec §4.4, §4.6.3).
func estimateProvisioningTime(w *World, svc *Service) float64 {
	missing := make(map[string]bool)
	have := make(map[string]bool)
	for _, reg := range svc.Server.ContainerRegistries {
		for _, img := range reg.Images {
			have[img.Name] = true
		}
	}
	for _, layer := range svc.Layers {
		if !have[layer] {
			missing[layer] = true
		}
	}
	if len(missing) == 0 {
		return 0
	}

	reg, _, size, ok := bestCoveringRegistry(w, svc.Server, missing)
	if !ok {
		return 1e9 // unresolvable: no registry anywhere hosts these layers
	}

	path, err := w.Topology.ShortestPath(reg.Server.BaseStation, svc.Server.BaseStation, WeightByInverseBandwidth)
	if err != nil {
		return 1e9
	}
	minBW := w.Topology.PathMinBandwidth(path)
	if minBW <= 0 {
		return 1e9
	}
	hopCount := float64(len(Deduplicate(path)) - 1)
	if hopCount < 1 {
		hopCount = 1
	}
	return (float64(size) / minBW) * hopCount
}

// bestCoveringRegistry returns the registry that covers the most of
// wanted's layer names, along with the matched coverage set and total size,
// breaking ties by proximity to target.
func bestCoveringRegistry(w *World, target *EdgeServer, wanted map[string]bool) (*ContainerRegistry, map[string]bool, int, bool) {
	var best *ContainerRegistry
	var bestCoverage map[string]bool
	bestSize := 0
	bestHops := -1

	for _, reg := range w.ContainerRegistries.All() {
		coverage := make(map[string]bool)
		size := 0
		for _, img := range reg.Images {
			if wanted[img.Name] {
				coverage[img.Name] = true
				size += img.Size
			}
		}
		if len(coverage) == 0 {
			continue
		}
		path, err := w.Topology.ShortestPath(reg.Server.BaseStation, target.BaseStation, WeightHopCount)
		hops := len(w.Topology.Nodes()) + 1
		if err == nil {
			hops = len(Deduplicate(path)) - 1
		}
		better := best == nil ||
			len(coverage) > len(bestCoverage) ||
			(len(coverage) == len(bestCoverage) && hops < bestHops)
		if better {
			best, bestCoverage, bestSize, bestHops = reg, coverage, size, hops
		}
	}
	return best, bestCoverage, bestSize, best != nil
}

// selectExpansionCandidate picks, among candidates, the edge server whose
// registry provisioning would satisfy the most pending slow users, using
// bandwidth-weighted provisioning time from that server to each slow
// user's base station (spec §4.6.3 Phase C), grounded on
// proposed_heuristic.py's `supported_users`/
// `sorted(edge_servers, key=lambda s: -len(s.supported_users))[0]`. Returns
// a nil server if no candidate would satisfy any pending user.
func selectExpansionCandidate(w *World, candidates []*EdgeServer, uSlow []slowUser, provThreshold float64) (*EdgeServer, int) {
	var bestServer *EdgeServer
	bestCovered := -1

	for _, srv := range candidates {
		covered := 0
		for _, su := range uSlow {
			if provisioningTimeFrom(w, srv, su) <= provThreshold {
				covered++
			}
		}
		if covered > bestCovered {
			bestServer, bestCovered = srv, covered
		}
	}
	if bestCovered <= 0 {
		return nil, 0
	}
	return bestServer, bestCovered
}

// provisioningTimeFrom estimates how long it would take su's user to pull
// su's service's layers from a freshly provisioned registry at srv, using
// the bandwidth-weighted path from srv to the user's base station. No hop
// multiplier applies here, matching proposed_heuristic.py's
// `provisioning_time = user_images_demand / bandwidth`.
func provisioningTimeFrom(w *World, srv *EdgeServer, su slowUser) float64 {
	if srv.BaseStation == su.user.BaseStation {
		return 0
	}
	path, err := w.Topology.ShortestPath(srv.BaseStation, su.user.BaseStation, WeightByInverseBandwidth)
	if err != nil {
		return math.Inf(1)
	}
	minBW := w.Topology.PathMinBandwidth(path)
	if minBW <= 0 {
		return math.Inf(1)
	}
	demand := 0
	for _, layer := range su.svc.Layers {
		demand += layerSizeByName(w, layer)
	}
	return float64(demand) / minBW
}

// layerSizeByName returns the size of the first ContainerImage anywhere in
// the world with the given layer name, or 0 if none exists.
func layerSizeByName(w *World, name string) int {
	for _, srv := range w.EdgeServers.All() {
		for _, reg := range srv.ContainerRegistries {
			for _, img := range reg.Images {
				if img.Name == name {
					return img.Size
				}
			}
		}
	}
	return 0
}

// provisionFullRegistry provisions a new ContainerRegistry on target
// carrying one fresh-id clone of every image in images, grounded on
// proposed_heuristic.py's inline `ContainerRegistry()` plus per-image
// `ContainerImage(...)` provisioning loop in Phase C.
func provisionFullRegistry(w *World, target *EdgeServer, images []*ContainerImage, step int) *ContainerRegistry {
	reg := &ContainerRegistry{ID: w.nextRegistryID, Server: target}
	w.nextRegistryID++

	for _, img := range images {
		clone := &ContainerImage{
			ID:                w.nextImageID,
			Size:              img.Size,
			Name:              img.Name,
			Layer:             img.Layer,
			ContainerRegistry: reg,
		}
		w.nextImageID++
		reg.Images = append(reg.Images, clone)
		w.ContainerImages.Add(clone)
	}

	reg.Migrations = append(reg.Migrations, MigrationRecord{Step: step, Destination: target})

	target.ContainerRegistries = append(target.ContainerRegistries, reg)
	target.RecomputeDemand()
	w.ContainerRegistries.Add(reg)
	return reg
}
