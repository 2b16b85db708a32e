package sim

import (
	"container/heap"
	"fmt"
	"math"
)

// Link is an undirected weighted topology edge between two base stations.
// Mutable ledger fields (BandwidthDemand, Applications, ServicesBeingMigrated)
// are owned exclusively by the routing/migration/registry engines (spec §5).
type Link struct {
	ID              int
	A, B            *BaseStation
	Delay           int
	Bandwidth       int
	BandwidthDemand int
	// Applications tracks which applications currently traverse this link,
	// used as a shared-resource ledger (spec §3 invariant 2). A set is
	// rendered as a map for O(1) membership and removal.
	Applications map[*Application]bool
	// ServicesBeingMigrated is part of the link ledger shape (spec §3); no
	// engine or policy in this package writes or reads it.
	ServicesBeingMigrated []*Service

	// Optional power fields. Neither the dataset loader nor the power models
	// set or read them; SwitchPower takes its settings from the base station.
	ActivePower         float64
	LowPowerPercentage  float64
	HasPowerFields      bool
}

func newLink(id int, a, b *BaseStation, delay, bandwidth int) *Link {
	return &Link{
		ID:           id,
		A:            a,
		B:            b,
		Delay:        delay,
		Bandwidth:    bandwidth,
		Applications: make(map[*Application]bool),
	}
}

// Other returns the endpoint of the link that is not n.
func (l *Link) Other(n *BaseStation) *BaseStation {
	if l.A == n {
		return l.B
	}
	return l.A
}

// Topology is the undirected weighted graph of base stations. The node set
// is fixed for the lifetime of a run (spec §3 invariant 5); only per-link
// ledgers and the adjacency they imply remain mutable at the value level.
type Topology struct {
	nodes     []*BaseStation
	links     []*Link
	adjacency map[*BaseStation][]*Link
	nextLinkID int
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{adjacency: make(map[*BaseStation][]*Link)}
}

// AddNode registers a base station as a topology node.
func (t *Topology) AddNode(bs *BaseStation) {
	t.nodes = append(t.nodes, bs)
	if _, ok := t.adjacency[bs]; !ok {
		t.adjacency[bs] = nil
	}
}

// Nodes returns every node in insertion order.
func (t *Topology) Nodes() []*BaseStation { return t.nodes }

// Links returns every link in insertion order.
func (t *Topology) Links() []*Link { return t.links }

// AddLink creates and registers a link between a and b with the given id.
func (t *Topology) AddLink(id int, a, b *BaseStation, delay, bandwidth int) *Link {
	link := newLink(id, a, b, delay, bandwidth)
	t.links = append(t.links, link)
	t.adjacency[a] = append(t.adjacency[a], link)
	t.adjacency[b] = append(t.adjacency[b], link)
	if id >= t.nextLinkID {
		t.nextLinkID = id + 1
	}
	return link
}

// FindLink returns the link directly connecting a and b, if any.
func (t *Topology) FindLink(a, b *BaseStation) (*Link, bool) {
	for _, link := range t.adjacency[a] {
		if link.Other(a) == b {
			return link, true
		}
	}
	return nil, false
}

// WeightFunc computes the Dijkstra edge weight for traversing link from u to v.
// Weights must be strictly positive (spec §4.1).
type WeightFunc func(u, v *BaseStation, link *Link) float64

// WeightByDelay uses the link's Delay field as weight.
func WeightByDelay(u, v *BaseStation, link *Link) float64 { return float64(link.Delay) }

// WeightByBandwidth uses the raw Bandwidth value as weight directly.
//
// This retains a quirk of the original source: passing "bandwidth" as the
// weight does NOT prefer high-bandwidth paths — Dijkstra minimizes weight,
// so a high-bandwidth edge is a "heavier", less-preferred edge under this
// mode. See spec §4.1, §9 and DESIGN.md for why this is kept rather than
// "fixed".
func WeightByBandwidth(u, v *BaseStation, link *Link) float64 { return float64(link.Bandwidth) }

// WeightByInverseBandwidth uses 1/bandwidth as weight, so higher-bandwidth
// edges are preferred by Dijkstra. This is the mode used by registry
// placement and culling (spec §4.5, §4.6.3).
func WeightByInverseBandwidth(u, v *BaseStation, link *Link) float64 { return 1.0 / float64(link.Bandwidth) }

// WeightHopCount assigns every edge a weight of 1, yielding a minimum-hop path.
func WeightHopCount(u, v *BaseStation, link *Link) float64 { return 1.0 }

// pqItem is one entry in the Dijkstra priority queue.
type pqItem struct {
	node *BaseStation
	dist float64
}

// nodeHeap is a binary min-heap over pqItem, in the same container/heap
// idiom the teacher's EventQueue (sim/simulator.go) uses for its event
// queue — see DESIGN.md for why this repo keeps a hand-rolled Dijkstra
// instead of reaching for a graph library.
type nodeHeap []pqItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)         { *h = append(*h, x.(pqItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PathNotFoundError is returned when no path connects source and target.
type PathNotFoundError struct {
	Source, Target *BaseStation
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("no path found from BaseStation_%d to BaseStation_%d", e.Source.ID, e.Target.ID)
}

// ShortestPath runs Dijkstra from source to target using weight to score
// each traversed edge. Weights must be strictly positive.
func (t *Topology) ShortestPath(source, target *BaseStation, weight WeightFunc) ([]*BaseStation, error) {
	if source == target {
		return []*BaseStation{source}, nil
	}

	dist := make(map[*BaseStation]float64, len(t.nodes))
	prev := make(map[*BaseStation]*BaseStation, len(t.nodes))
	visited := make(map[*BaseStation]bool, len(t.nodes))

	dist[source] = 0
	pq := &nodeHeap{{node: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == target {
			break
		}

		for _, link := range t.adjacency[cur.node] {
			next := link.Other(cur.node)
			if visited[next] {
				continue
			}
			w := weight(cur.node, next, link)
			alt := cur.dist + w
			if existing, ok := dist[next]; !ok || alt < existing {
				dist[next] = alt
				prev[next] = cur.node
				heap.Push(pq, pqItem{node: next, dist: alt})
			}
		}
	}

	if !visited[target] {
		return nil, &PathNotFoundError{Source: source, Target: target}
	}

	path := []*BaseStation{target}
	for n := target; n != source; {
		p, ok := prev[n]
		if !ok {
			return nil, &PathNotFoundError{Source: source, Target: target}
		}
		path = append(path, p)
		n = p
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Deduplicate collapses runs of equal consecutive nodes, matching
// original_source's remove_path_duplicates (needed when concatenating
// per-hop shortest paths in SetCommunicationPath).
func Deduplicate(path []*BaseStation) []*BaseStation {
	out := make([]*BaseStation, 0, len(path))
	for _, n := range path {
		if len(out) == 0 || out[len(out)-1] != n {
			out = append(out, n)
		}
	}
	return out
}

// PathDelay returns the sum of Delay across a deduplicated path's links.
func (t *Topology) PathDelay(path []*BaseStation) int {
	path = Deduplicate(path)
	delay := 0
	for i := 0; i < len(path)-1; i++ {
		link, ok := t.FindLink(path[i], path[i+1])
		if !ok {
			continue
		}
		delay += link.Delay
	}
	return delay
}

// PathMinBandwidth returns the minimum Bandwidth across a deduplicated
// path's links, or +Inf for a one-node (or empty) path.
func (t *Topology) PathMinBandwidth(path []*BaseStation) float64 {
	path = Deduplicate(path)
	if len(path) < 2 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for i := 0; i < len(path)-1; i++ {
		link, ok := t.FindLink(path[i], path[i+1])
		if !ok {
			continue
		}
		if float64(link.Bandwidth) < min {
			min = float64(link.Bandwidth)
		}
	}
	return min
}
