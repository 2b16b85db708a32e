package sim

import "math"

// DelayMetric selects how ComputeDelay scales path delay (spec §4.3).
type DelayMetric string

const (
	MetricLatency     DelayMetric = "latency"
	MetricResponseTime DelayMetric = "responseTime"
)

// walkPathLinks calls fn for every link traversed by path (after dedup).
func walkPathLinks(t *Topology, path []*BaseStation, fn func(link *Link)) {
	path = Deduplicate(path)
	for i := 0; i < len(path)-1; i++ {
		link, ok := t.FindLink(path[i], path[i+1])
		if !ok {
			continue
		}
		fn(link)
	}
}

// releasePath removes app from the Applications set of every link path traverses.
func releasePath(t *Topology, path []*BaseStation, app *Application) {
	walkPathLinks(t, path, func(link *Link) {
		delete(link.Applications, app)
	})
}

// allocatePath adds app to the Applications set of every link path traverses.
func allocatePath(t *Topology, path []*BaseStation, app *Application) {
	walkPathLinks(t, path, func(link *Link) {
		link.Applications[app] = true
	})
}

// SetCommunicationPath updates the set of links user traverses to reach app,
// recomputing the path via per-hop delay-weighted Dijkstra through the
// application's service chain when explicitPath is nil, grounded on
// original_source/simulator/components/user.py::set_communication_path.
func SetCommunicationPath(w *World, user *User, app *Application, explicitPath []*BaseStation) error {
	if prior, ok := user.CommunicationPaths[app]; ok {
		releasePath(w.Topology, prior, app)
	}

	var path []*BaseStation
	if explicitPath != nil {
		path = Deduplicate(explicitPath)
	} else {
		chain := make([]*BaseStation, 0, len(app.Services)+1)
		chain = append(chain, user.BaseStation)
		for _, svc := range app.Services {
			if svc.Server == nil {
				return &UnplacedServiceError{Service: svc}
			}
			chain = append(chain, svc.Server.BaseStation)
		}

		path = []*BaseStation{}
		for i := 0; i < len(chain)-1; i++ {
			hop, err := w.Topology.ShortestPath(chain[i], chain[i+1], WeightByDelay)
			if err != nil {
				return err
			}
			path = append(path, hop...)
		}
		if len(chain) == 1 {
			path = append(path, chain[0])
		}
		path = Deduplicate(path)
	}

	user.CommunicationPaths[app] = path
	allocatePath(w.Topology, path, app)
	ComputeDelay(w, user, app, MetricLatency)
	return nil
}

// ComputeDelay computes and stores user's delay for app: wireless delay plus
// the communication path's total link delay, doubled for response time
// (spec §4.3).
func ComputeDelay(w *World, user *User, app *Application, metric DelayMetric) int {
	delay := user.BaseStation.WirelessDelay
	delay += w.Topology.PathDelay(user.CommunicationPaths[app])
	if metric == MetricResponseTime {
		delay *= 2
	}
	user.Delays[app] = delay
	return delay
}

// ClosestBaseStation returns the base station at user's current coordinates
// if one exists, otherwise the nearest by Euclidean distance (spec §4.3).
func ClosestBaseStation(w *World, user *User) *BaseStation {
	for _, bs := range w.BaseStations.All() {
		if bs.Coordinates == user.Coordinates {
			return bs
		}
	}

	var best *BaseStation
	bestDist := math.Inf(1)
	for _, bs := range w.BaseStations.All() {
		dx := bs.Coordinates.X - user.Coordinates.X
		dy := bs.Coordinates.Y - user.Coordinates.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = bs
		}
	}
	return best
}
