package sim

import "fmt"

// Policy decides service placement and registry provisioning for one
// simulation step. It is invoked after user mobility and routing have been
// updated for the step, and may mutate the World freely (spec §4.6).
type Policy func(w *World, step int, bundle *PolicyBundle, cfg MigrationConfig) error

// StoppingCriterion reports whether the simulation should stop after step.
type StoppingCriterion func(w *World, step int) bool

// PolicyByName resolves an algorithm name to its Policy implementation
// (spec §2, §4.6). Returns an error for an unrecognized name rather than
// silently falling back to a default.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "never_follow":
		return NeverFollowPolicy, nil
	case "follow_user":
		return FollowUserPolicy, nil
	case "proposed_heuristic":
		return ProposedHeuristicPolicy, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q; valid options: %v", name, ValidAlgorithmNames())
	}
}

// NeverFollowPolicy never migrates services or provisions registries. It is
// the baseline against which the other two policies are measured
// (spec §4.6.1), grounded on
// original_source/simulator/algorithms/never_follow.py.
func NeverFollowPolicy(w *World, step int, bundle *PolicyBundle, cfg MigrationConfig) error {
	return nil
}
