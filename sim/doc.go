// Package sim provides the discrete-time simulation kernel for an edge
// computing placement and container-registry experiment: mobility-aware
// service migration and dynamic registry management evaluated against a
// pre-computed user mobility trace.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - world.go: the entity registry (World) that owns every typed collection
//   - graph.go: the weighted topology and Dijkstra-based path service
//   - kernel.go: the step loop and metric collection
//   - snapshot.go: snapshot/restore of the World's mutable state
//   - policy.go, policy_followuser.go, policy_heuristic.go: the pluggable policies
//
// # Architecture
//
// Entities (BaseStation, EdgeServer, ContainerImage, ContainerRegistry,
// Application, Service, User) are plain structs holding pointers to each
// other; a World owns one Collection[T] per entity type plus the Topology.
// The routing, migration, and registry engines are free functions that
// operate on a *World — there is no hidden package-level state, so
// multiple simulation runs in the same process (e.g. in tests) never
// interfere with each other.
//
// # Key Extension Points
//
//   - Policy: decides placement/provisioning at each step
//   - StoppingCriterion: decides when the run ends
//   - WeightFunc: pluggable edge-weight semantics for path queries
package sim
