package sim

import "fmt"

// UnplacedServiceError is returned when routing is attempted through a
// service that has not yet been assigned to an EdgeServer.
type UnplacedServiceError struct {
	Service *Service
}

func (e *UnplacedServiceError) Error() string {
	return fmt.Sprintf("service %d has no server assigned", e.Service.ID)
}

// DatasetInvalidError reports a malformed or internally inconsistent
// scenario: a missing reference id, an unknown type tag, or a structurally
// broken link (spec §7).
type DatasetInvalidError struct {
	Reason string
}

func (e *DatasetInvalidError) Error() string {
	return fmt.Sprintf("invalid dataset: %s", e.Reason)
}

// SnapshotMissingError indicates Kernel.RestoreOriginalState was called
// before Kernel.StoreOriginalState — a programming error, not a dataset or
// runtime issue (spec §7).
type SnapshotMissingError struct{}

func (e *SnapshotMissingError) Error() string {
	return "snapshot missing: StoreOriginalState was never called"
}

// CapacityExhaustedError describes a migration attempt that found no
// candidate host with enough free capacity. Non-fatal: callers log its
// message at Debug level and the run continues; no step metric counts it
// (spec §7).
type CapacityExhaustedError struct {
	Service *Service
}

func (e *CapacityExhaustedError) Error() string {
	return fmt.Sprintf("no candidate edge server has capacity for service %d", e.Service.ID)
}

// NoCandidateRegistryHostError indicates registry expansion halted because
// no candidate server remained, or no candidate supported any slow user.
// Non-fatal (spec §7).
type NoCandidateRegistryHostError struct{}

func (e *NoCandidateRegistryHostError) Error() string {
	return "no candidate edge server available to host a new registry"
}
