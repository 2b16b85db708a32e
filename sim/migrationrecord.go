package sim

// MigrationRecord captures one migration or registry-provisioning event for
// post-run analysis (spec §3).
type MigrationRecord struct {
	Step        int
	Duration    float64
	Origin      *EdgeServer // nil when there was no prior placement
	Destination *EdgeServer
}
