package sim

// buildLineWorld builds a 3-base-station line topology (bs0 - bs1 - bs2),
// each with one edge server, used as a fixture across the package's tests.
func buildLineWorld() (*World, []*BaseStation, []*EdgeServer) {
	w := NewWorld()

	bs0 := &BaseStation{ID: 0, Coordinates: Coordinates{X: 0, Y: 0}}
	bs1 := &BaseStation{ID: 1, Coordinates: Coordinates{X: 1, Y: 0}}
	bs2 := &BaseStation{ID: 2, Coordinates: Coordinates{X: 2, Y: 0}}
	for _, bs := range []*BaseStation{bs0, bs1, bs2} {
		w.BaseStations.Add(bs)
		w.Topology.AddNode(bs)
	}
	w.Topology.AddLink(0, bs0, bs1, 10, 100)
	w.Topology.AddLink(1, bs1, bs2, 10, 100)

	srv0 := &EdgeServer{ID: 0, BaseStation: bs0}
	srv0.SetCapacity(100)
	srv1 := &EdgeServer{ID: 1, BaseStation: bs1}
	srv1.SetCapacity(100)
	srv2 := &EdgeServer{ID: 2, BaseStation: bs2}
	srv2.SetCapacity(100)
	bs0.EdgeServers = append(bs0.EdgeServers, srv0)
	bs1.EdgeServers = append(bs1.EdgeServers, srv1)
	bs2.EdgeServers = append(bs2.EdgeServers, srv2)
	for _, srv := range []*EdgeServer{srv0, srv1, srv2} {
		w.EdgeServers.Add(srv)
	}

	return w, []*BaseStation{bs0, bs1, bs2}, []*EdgeServer{srv0, srv1, srv2}
}
