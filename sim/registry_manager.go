package sim

import "math"

// RemoveFarthestRegistries deprovisions every container registry that is
// not the bandwidth-closest registry to any user currently in the world,
// then renumbers every surviving registry and image contiguously starting
// at 0 (spec §4.2, §4.5), grounded on
// original_source/simulator/algorithms/proposed_heuristic.py::removing_farthest_container_registries.
//
// Each user picks exactly one "closest" registry: the one reachable along
// the path with the greatest minimum bandwidth, ties broken by the
// first-encountered registry in world order. Every registry never picked by
// any user is farthest and is removed — there is no fixed count or single
// reference point, matching the original's per-user set difference.
func RemoveFarthestRegistries(w *World) []*ContainerRegistry {
	all := w.ContainerRegistries.All()
	if len(all) == 0 {
		return nil
	}

	closest := make(map[*ContainerRegistry]bool)
	for _, user := range w.Users.All() {
		if user.BaseStation == nil {
			continue
		}
		if reg := closestRegistryTo(w, all, user.BaseStation); reg != nil {
			closest[reg] = true
		}
	}

	var removed []*ContainerRegistry
	for _, reg := range all {
		if !closest[reg] {
			removed = append(removed, reg)
		}
	}

	for _, reg := range removed {
		if reg.Server != nil {
			reg.Server.removeRegistry(reg)
			reg.Server.RecomputeDemand()
		}
		w.ContainerRegistries.Remove(reg)
		for _, img := range reg.Images {
			w.ContainerImages.Remove(img)
		}
	}

	renumberRegistries(w)
	return removed
}

// closestRegistryTo returns whichever registry in candidates is reachable
// from target along the highest-minimum-bandwidth path, ties broken by the
// first-encountered registry, grounded on original_source's
// `sorted(registries, key=lambda r: -r["bandwidth"])[0]`.
func closestRegistryTo(w *World, candidates []*ContainerRegistry, target *BaseStation) *ContainerRegistry {
	var best *ContainerRegistry
	bestBandwidth := math.Inf(-1)
	for _, reg := range candidates {
		if reg.Server == nil {
			continue
		}
		var bandwidth float64
		if reg.Server.BaseStation == target {
			bandwidth = math.Inf(1)
		} else {
			path, err := w.Topology.ShortestPath(reg.Server.BaseStation, target, WeightByInverseBandwidth)
			if err != nil {
				continue
			}
			bandwidth = w.Topology.PathMinBandwidth(path)
		}
		if bandwidth > bestBandwidth {
			best, bestBandwidth = reg, bandwidth
		}
	}
	return best
}

// renumberRegistries reassigns contiguous ids (starting at 0) to every
// surviving registry and image, and resets the World's id counters so
// subsequent provisioning continues from the new high-water mark (spec §4.2
// contiguous-id invariant).
func renumberRegistries(w *World) {
	regs := w.ContainerRegistries.All()
	for i, reg := range regs {
		reg.ID = i
	}
	w.nextRegistryID = len(regs)

	imgs := w.ContainerImages.All()
	for i, img := range imgs {
		img.ID = i
	}
	w.nextImageID = len(imgs)
}
