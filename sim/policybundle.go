package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds the tunable thresholds shared by every policy plus the
// chosen algorithm name, loadable from a YAML file. Zero-value float fields
// mean "not set in YAML" and fall back to the package defaults below.
type PolicyBundle struct {
	Algorithm             string   `yaml:"algorithm"`
	DelayThreshold        *float64 `yaml:"delay_threshold"`
	ProvisioningTimeThreshold *float64 `yaml:"prov_time_threshold"`
	DatasetDir            string   `yaml:"dataset_dir"`
}

// Default threshold values used when a bundle leaves a field unset,
// grounded on original_source/simulator/algorithms/proposed_heuristic.py's
// module-level DELAY_THRESHOLD and PROVISIONING_TIME_THRESHOLD constants.
const (
	DefaultDelayThreshold             = 50.0
	DefaultProvisioningTimeThreshold  = 10.0
	DefaultDatasetDir                 = "datasets"
)

// LoadPolicyBundle reads and parses a YAML policy configuration file. Uses
// strict parsing: unrecognized keys (typos) are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// validAlgorithms lists the recognized placement algorithm names (spec §2, §4.6).
var validAlgorithms = map[string]bool{
	"never_follow":       true,
	"follow_user":        true,
	"proposed_heuristic": true,
}

// IsValidAlgorithm returns true if name is a recognized algorithm.
func IsValidAlgorithm(name string) bool { return validAlgorithms[name] }

// ValidAlgorithmNames returns the sorted list of recognized algorithm names.
func ValidAlgorithmNames() []string {
	names := make([]string, 0, len(validAlgorithms))
	for k := range validAlgorithms {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the bundle names a recognized algorithm and that any
// set thresholds are finite and non-negative.
func (b *PolicyBundle) Validate() error {
	if !validAlgorithms[b.Algorithm] {
		return fmt.Errorf("unknown algorithm %q; valid options: %s", b.Algorithm, strings.Join(ValidAlgorithmNames(), ", "))
	}
	if err := validateFloat("delay_threshold", b.DelayThreshold); err != nil {
		return err
	}
	if err := validateFloat("prov_time_threshold", b.ProvisioningTimeThreshold); err != nil {
		return err
	}
	return nil
}

// DelayThresholdOrDefault returns the configured delay threshold, or the
// package default if unset.
func (b *PolicyBundle) DelayThresholdOrDefault() float64 {
	if b.DelayThreshold == nil {
		return DefaultDelayThreshold
	}
	return *b.DelayThreshold
}

// ProvisioningTimeThresholdOrDefault returns the configured provisioning
// time threshold, or the package default if unset.
func (b *PolicyBundle) ProvisioningTimeThresholdOrDefault() float64 {
	if b.ProvisioningTimeThreshold == nil {
		return DefaultProvisioningTimeThreshold
	}
	return *b.ProvisioningTimeThreshold
}

// validateFloat checks that a float parameter is non-negative and finite.
func validateFloat(name string, val *float64) error {
	if val == nil {
		return nil
	}
	if math.IsNaN(*val) || math.IsInf(*val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, *val)
	}
	if *val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, *val)
	}
	return nil
}
