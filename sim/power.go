package sim

// PowerModel computes the instantaneous power consumption of a device
// (EdgeServer or BaseStation). Bound by name at dataset load time, matching
// spec §9's "polymorphism over power models" design note and
// original_source's edge_sim_py/components/power/ variants.
type PowerModel interface {
	// Name identifies the model for dataset-driven binding.
	Name() string
	// PowerConsumption returns the current power draw of device, given the
	// topology (needed by per-link models like SwitchPower). Concrete
	// models type-assert device to the entity type they were designed for
	// (EdgeServer for LinearServerPower, BaseStation for SwitchPower).
	PowerConsumption(device any, topology *Topology) float64
}

// LinearServerPower models power as a static baseline plus a linear term in
// utilization, grounded on
// original_source/edge_sim_py/components/power/servers/linear_power_model.py.
type LinearServerPower struct {
	MaxPower              float64
	StaticPowerPercentage float64
}

func (m *LinearServerPower) Name() string { return "LinearServerPower" }

// PowerConsumption returns staticPower + (1-staticPercentage)*maxPower*utilization,
// where utilization = demand/capacity (0 if capacity is 0 or device isn't an EdgeServer).
func (m *LinearServerPower) PowerConsumption(device any, _ *Topology) float64 {
	staticPower := m.StaticPowerPercentage * m.MaxPower
	utilization := 0.0
	if es, ok := device.(*EdgeServer); ok && es.Capacity() > 0 {
		utilization = float64(es.Demand()) / float64(es.Capacity())
	}
	return staticPower + (1-m.StaticPowerPercentage)*m.MaxPower*utilization
}

// SwitchPower models a base station's chassis power plus the per-port power
// of every incident link, grounded on
// original_source/edge_sim_py/components/power/switches/switch_power_model.py.
// Port power is low_power*(1-load) + active_power*load, where
// load = bandwidth_demand/bandwidth.
type SwitchPower struct {
	ActivePower        float64
	LowPowerPercentage float64
}

func (m *SwitchPower) Name() string { return "SwitchPower" }

func (m *SwitchPower) portPower(link *Link) float64 {
	if link.Bandwidth == 0 {
		return m.LowPowerPercentage * m.ActivePower
	}
	low := m.LowPowerPercentage * m.ActivePower
	load := float64(link.BandwidthDemand) / float64(link.Bandwidth)
	return low*(1-load) + m.ActivePower*load
}

// PowerConsumption returns bs.ChassisPower plus the per-port power of every
// link incident to bs.
func (m *SwitchPower) PowerConsumption(device any, topology *Topology) float64 {
	bs, ok := device.(*BaseStation)
	if !ok || topology == nil {
		return 0
	}
	total := bs.ChassisPower
	for _, link := range topology.adjacency[bs] {
		total += m.portPower(link)
	}
	return total
}
