package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// edgeServersByDelay returns every edge server in the world sorted by
// ascending shortest-path delay from origin, grounded on
// original_source/simulator/algorithms/follow_user.py::get_candidate_hosts.
func edgeServersByDelay(w *World, origin *BaseStation) []*EdgeServer {
	type ranked struct {
		srv   *EdgeServer
		delay int
	}
	const unreachable = int(^uint(0) >> 1)

	rankedServers := make([]ranked, 0, w.EdgeServers.Count())
	for _, srv := range w.EdgeServers.All() {
		delay := unreachable
		if path, err := w.Topology.ShortestPath(origin, srv.BaseStation, WeightByDelay); err == nil {
			delay = w.Topology.PathDelay(path)
		}
		rankedServers = append(rankedServers, ranked{srv: srv, delay: delay})
	}
	sort.SliceStable(rankedServers, func(i, j int) bool { return rankedServers[i].delay < rankedServers[j].delay })

	out := make([]*EdgeServer, len(rankedServers))
	for i, r := range rankedServers {
		out[i] = r.srv
	}
	return out
}

// FollowUserPolicy keeps every service as close as possible to its user: for
// each user it walks every edge server in the world ordered by ascending
// delay from the user's base station, migrating the service to the first
// candidate with room. The walk stops early, without migrating, if it
// reaches the service's current host before finding a closer candidate with
// capacity — it is already the closest reachable host (spec §4.6.2),
// grounded on original_source/simulator/algorithms/follow_user.py.
func FollowUserPolicy(w *World, step int, bundle *PolicyBundle, cfg MigrationConfig) error {
	for _, user := range w.Users.All() {
		if user.BaseStation == nil {
			continue
		}
		candidates := edgeServersByDelay(w, user.BaseStation)
		for _, app := range user.Applications {
			for _, svc := range app.Services {
				migrated, atBest, err := tryFollowUser(w, svc, candidates, step, cfg)
				if err != nil {
					return err
				}
				if !migrated && !atBest {
					logrus.WithField("step", step).Debug((&CapacityExhaustedError{Service: svc}).Error())
				}
			}
		}
	}
	return nil
}

// tryFollowUser walks candidates in order, migrating svc to the first one
// with room. It reports migrated=true if a migration happened, and
// atBest=true if the walk reached svc's current host before that (meaning
// svc was already optimally placed and no capacity-exhaustion warning
// applies).
func tryFollowUser(w *World, svc *Service, candidates []*EdgeServer, step int, cfg MigrationConfig) (migrated, atBest bool, err error) {
	for _, target := range candidates {
		if target == svc.Server {
			return false, true, nil
		}
		if !target.CanHost(svc.Demand) {
			continue
		}
		if err := Migrate(w, svc, target, step, cfg); err != nil {
			return false, false, err
		}
		return true, false, nil
	}
	return false, false, nil
}
