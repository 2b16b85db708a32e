// Package metrics provides optional decision-trace recording for a
// simulation run. It has no dependency on sim/ — it stores pure data types
// the kernel feeds it, matching the teacher's sim/trace package shape.
package metrics

// Level controls the verbosity of recording.
type Level string

const (
	// LevelNone disables recording (zero overhead).
	LevelNone Level = "none"
	// LevelSteps records one StepRecord per simulation step.
	LevelSteps Level = "steps"
)

var validLevels = map[Level]bool{
	LevelNone:  true,
	LevelSteps: true,
	"":         true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is recognized.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// MigrationRecord captures one service migration decision made during a step.
type MigrationRecord struct {
	Step        int
	ServiceID   int
	OriginID    int // 0 when there was no prior placement
	DestID      int
	Duration    float64
}

// RegistryEvent captures one registry provisioning decision. Deprovisioned
// registries produce no event.
type RegistryEvent struct {
	Step       int
	RegistryID int
	ServerID   int
	Kind       string // "replicate" for a newly provisioned registry
}

// StepRecord captures the aggregate state of one simulation step.
type StepRecord struct {
	Step               int
	SLAViolations       int
	TotalDelay          int
	TotalPowerWatts     float64
	Migrations          []MigrationRecord
	RegistryEvents      []RegistryEvent
}

// Config controls recording behavior.
type Config struct {
	Level Level
}

// Recorder collects per-step records during a simulation run.
type Recorder struct {
	Config Config
	Steps  []StepRecord
}

// NewRecorder creates a Recorder ready for recording.
func NewRecorder(config Config) *Recorder {
	return &Recorder{
		Config: config,
		Steps:  make([]StepRecord, 0),
	}
}

// RecordStep appends a step record. A no-op when the recorder is configured
// at LevelNone, so callers can build the record unconditionally and let the
// recorder decide whether to keep it.
func (r *Recorder) RecordStep(record StepRecord) {
	if r.Config.Level != LevelSteps {
		return
	}
	r.Steps = append(r.Steps, record)
}
