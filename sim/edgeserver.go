package sim

// EdgeServer is a compute node co-located with a base station, grounded on
// original_source/edge_sim_py/components/edge_server.py.
type EdgeServer struct {
	ID          int
	Coordinates Coordinates
	capacity    int
	demand      int
	BaseStation *BaseStation
	Services    []*Service

	ContainerRegistries []*ContainerRegistry

	MaxPower              float64
	StaticPowerPercentage float64
	PowerModel            PowerModel
}

func (s *EdgeServer) EntityID() int { return s.ID }

// Capacity returns the server's total resource capacity.
func (s *EdgeServer) Capacity() int { return s.capacity }

// Demand returns the server's current occupancy. Kept in sync with
// RecomputeDemand after every mutation of Services/ContainerRegistries —
// spec §3 invariant 1.
func (s *EdgeServer) Demand() int { return s.demand }

// SetCapacity sets the server's total capacity (dataset load only).
func (s *EdgeServer) SetCapacity(c int) { s.capacity = c }

// RecomputeDemand recomputes demand from currently hosted services and
// registries, matching original_source's EdgeServer.compute_demand.
func (s *EdgeServer) RecomputeDemand() {
	total := 0
	for _, svc := range s.Services {
		total += svc.Demand
	}
	for _, reg := range s.ContainerRegistries {
		total += reg.Demand()
	}
	s.demand = total
}

// FreeCapacity returns capacity - demand (may be negative if overloaded).
func (s *EdgeServer) FreeCapacity() int { return s.capacity - s.demand }

// CanHost reports whether the server has enough free capacity for demand
// additional units.
func (s *EdgeServer) CanHost(demand int) bool {
	return s.capacity >= s.demand+demand
}

// PowerConsumption returns the server's instantaneous power draw, or 0 if
// it has no bound PowerModel.
func (s *EdgeServer) PowerConsumption(topology *Topology) float64 {
	if s.PowerModel == nil {
		return 0
	}
	return s.PowerModel.PowerConsumption(s, topology)
}

// removeService removes svc from s.Services, if present.
func (s *EdgeServer) removeService(svc *Service) {
	for i, cand := range s.Services {
		if cand == svc {
			s.Services = append(s.Services[:i], s.Services[i+1:]...)
			return
		}
	}
}

// removeRegistry removes reg from s.ContainerRegistries, if present.
func (s *EdgeServer) removeRegistry(reg *ContainerRegistry) {
	for i, cand := range s.ContainerRegistries {
		if cand == reg {
			s.ContainerRegistries = append(s.ContainerRegistries[:i], s.ContainerRegistries[i+1:]...)
			return
		}
	}
}
