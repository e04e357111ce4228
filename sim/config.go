package sim

import "time"

// SimulationConfig groups every externally tunable constant. It is built
// once by the CLI layer and passed immutably into each actor at
// construction; no actor reads shared mutable configuration.
type SimulationConfig struct {
	Duration               time.Duration // simulation window for new patient generation
	DischargeSweepInterval time.Duration // hospital resource-recovery interval
	GenerationInterval     time.Duration // pause between ambulance generation ticks

	QueryTimeout     time.Duration // resource query exchange bound
	AdmissionTimeout time.Duration // admission/transfer exchange bound

	TravelTimeMin time.Duration // simulated travel delay range
	TravelTimeMax time.Duration

	MaxRetryAttempts int
	RetryDelay       time.Duration // linear backoff unit
	RetryGracePeriod time.Duration // retry drain allowance past the window

	Generator GeneratorConfig
	Profiles  ProfileTable
}

// DefaultSimulationConfig returns the built-in tuning.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Duration:               30 * time.Second,
		DischargeSweepInterval: 2 * time.Second,
		GenerationInterval:     500 * time.Millisecond,
		QueryTimeout:           5 * time.Second,
		AdmissionTimeout:       6 * time.Second,
		TravelTimeMin:          200 * time.Millisecond,
		TravelTimeMax:          800 * time.Millisecond,
		MaxRetryAttempts:       3,
		RetryDelay:             time.Second,
		RetryGracePeriod:       2 * time.Second,
		Generator: GeneratorConfig{
			EmergencyProbability: 0.35,
			MassEventProbability: 0.08,
			MassEventSizeMin:     3,
			MassEventSizeMax:     6,
		},
		Profiles: DefaultProfileTable(),
	}
}
