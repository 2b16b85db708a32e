package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/edgesim/migrationsim/metrics"
)

// KernelConfig bundles the knobs that affect the step loop's behavior
// beyond the policy itself.
type KernelConfig struct {
	Migration   MigrationConfig
	Policy      *PolicyBundle
	MaxSteps    int
	Recorder    metrics.Config
}

// Kernel owns a World and drives it through the discrete-time step loop,
// grounded on original_source/edge_sim_py/simulator.py's run/update_state
// cycle (spec §4.7).
type Kernel struct {
	World    *World
	Config   KernelConfig
	Policy   Policy
	Stop     StoppingCriterion
	Recorder *metrics.Recorder

	step     int
	snapshot *worldSnapshot
}

// NewKernel creates a Kernel for world driven by the named algorithm.
func NewKernel(world *World, config KernelConfig, algorithm string, stop StoppingCriterion) (*Kernel, error) {
	policy, err := PolicyByName(algorithm)
	if err != nil {
		return nil, err
	}
	return &Kernel{
		World:    world,
		Config:   config,
		Policy:   policy,
		Stop:     stop,
		Recorder: metrics.NewRecorder(config.Recorder),
	}, nil
}

// Run drives the simulation to completion, calling StoreOriginalState first
// and returning the final step count. When MaxSteps is 0 and no
// StoppingCriterion is set, it runs one step per entry of the longest user
// trace. It never calls RestoreOriginalState itself — callers that need to
// re-run the same scenario call it explicitly between runs.
func (k *Kernel) Run() (int, error) {
	k.StoreOriginalState()
	maxSteps := k.Config.MaxSteps
	if maxSteps <= 0 && k.Stop == nil {
		for _, user := range k.World.Users.All() {
			if len(user.CoordinatesTrace) > maxSteps {
				maxSteps = len(user.CoordinatesTrace)
			}
		}
	}
	for {
		if k.Stop != nil && k.Stop(k.World, k.step) {
			return k.step, nil
		}
		if (maxSteps > 0 || k.Stop == nil) && k.step >= maxSteps {
			return k.step, nil
		}
		if err := k.advance(); err != nil {
			return k.step, err
		}
	}
}

// advance runs exactly one simulation step: user mobility, routing
// recomputation, metric collection, then the active policy. Metrics are
// collected before the policy runs so a step's recorded state reflects the
// world as the policy saw it; the policy's mutations become visible in the
// following step's metrics instead (spec §4.7, §5).
func (k *Kernel) advance() error {
	k.updateMobility()
	k.recomputeRouting()
	k.collectMetrics()

	if err := k.Policy(k.World, k.step, k.Config.Policy, k.Config.Migration); err != nil {
		return err
	}

	k.step++
	return nil
}

// updateMobility advances every user to its position at the current step
// and rebinds it to the closest base station, grounded on
// original_source/simulator/components/user.py::_mobility_model_wrapper.
func (k *Kernel) updateMobility() {
	for _, user := range k.World.Users.All() {
		if k.step >= len(user.CoordinatesTrace) {
			continue
		}
		user.Coordinates = user.CoordinatesTrace[k.step]
		newStation := ClosestBaseStation(k.World, user)
		if newStation == user.BaseStation {
			continue
		}
		if user.BaseStation != nil {
			user.BaseStation.removeUser(user)
		}
		user.BaseStation = newStation
		if newStation != nil {
			newStation.Users = append(newStation.Users, user)
		}
	}
}

// recomputeRouting recomputes every user's communication path and delay for
// every application it consumes. Unplaced-service errors are expected
// during warm-up (services not yet scheduled) and are logged, not fatal.
func (k *Kernel) recomputeRouting() {
	for _, user := range k.World.Users.All() {
		if user.BaseStation == nil {
			continue
		}
		for _, app := range user.Applications {
			if err := SetCommunicationPath(k.World, user, app, nil); err != nil {
				logrus.WithFields(logrus.Fields{
					"step": k.step,
					"user": user.ID,
					"app":  app.ID,
				}).WithError(err).Debug("routing: could not recompute communication path")
			}
		}
	}
}

// collectMetrics folds the current step's state into the Recorder, grounded
// on original_source/edge_sim_py/simulator.py::collect_metrics.
//
// It runs before the policy, so migrations and registry events it reports
// are the ones the PREVIOUS step's policy call produced (mig.Step ==
// k.step-1): that is what "visible on the next step's metrics" means here.
// Delay/SLA/power readings, by contrast, reflect the world as it stands
// right now, before this step's policy has had a chance to act on it.
func (k *Kernel) collectMetrics() {
	record := metrics.StepRecord{Step: k.step}
	previousStep := k.step - 1

	for _, user := range k.World.Users.All() {
		for _, app := range user.Applications {
			sla, hasSLA := user.DelaySlas[app]
			delay := user.Delays[app]
			record.TotalDelay += delay
			if hasSLA && delay > sla {
				record.SLAViolations++
			}
		}
	}

	for _, bs := range k.World.BaseStations.All() {
		record.TotalPowerWatts += bs.PowerConsumption(k.World.Topology)
	}
	for _, srv := range k.World.EdgeServers.All() {
		record.TotalPowerWatts += srv.PowerConsumption(k.World.Topology)
	}

	for _, svc := range k.World.Services.All() {
		for _, mig := range svc.Migrations {
			if mig.Step != previousStep {
				continue
			}
			originID := 0
			if mig.Origin != nil {
				originID = mig.Origin.ID
			}
			record.Migrations = append(record.Migrations, metrics.MigrationRecord{
				Step:      mig.Step,
				ServiceID: svc.ID,
				OriginID:  originID,
				DestID:    mig.Destination.ID,
				Duration:  mig.Duration,
			})
		}
	}

	for _, reg := range k.World.ContainerRegistries.All() {
		for _, mig := range reg.Migrations {
			if mig.Step != previousStep {
				continue
			}
			record.RegistryEvents = append(record.RegistryEvents, metrics.RegistryEvent{
				Step:       mig.Step,
				RegistryID: reg.ID,
				ServerID:   mig.Destination.ID,
				Kind:       "replicate",
			})
		}
	}

	k.Recorder.RecordStep(record)
}
