package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/hospital-sim/hospital-sim/sim"
)

// ScenarioConfig is the YAML shape of a scenario file.
type ScenarioConfig struct {
	Hospitals  []HospitalConfig `yaml:"hospitals"`
	Ambulances int              `yaml:"ambulances"`
}

type HospitalConfig struct {
	Name     string `yaml:"name"`
	Beds     int    `yaml:"beds"`
	Staff    int    `yaml:"staff"`
	Supplies int    `yaml:"supplies"`
}

// LoadScenario reads a YAML scenario file and validates it.
func LoadScenario(path string) (sim.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Scenario{}, err
	}

	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return sim.Scenario{}, err
	}
	return cfg.toScenario()
}

func (cfg ScenarioConfig) toScenario() (sim.Scenario, error) {
	if len(cfg.Hospitals) == 0 {
		return sim.Scenario{}, fmt.Errorf("scenario has no hospitals")
	}
	if cfg.Ambulances < 1 {
		return sim.Scenario{}, fmt.Errorf("scenario needs at least one ambulance, got %d", cfg.Ambulances)
	}

	scenario := sim.Scenario{Ambulances: cfg.Ambulances}
	seen := make(map[string]bool)
	for i, h := range cfg.Hospitals {
		if h.Name == "" {
			return sim.Scenario{}, fmt.Errorf("hospital %d has no name", i)
		}
		if seen[h.Name] {
			return sim.Scenario{}, fmt.Errorf("duplicate hospital name %q", h.Name)
		}
		seen[h.Name] = true
		if h.Beds < 1 || h.Staff < 0 || h.Supplies < 0 {
			return sim.Scenario{}, fmt.Errorf("hospital %q has invalid capacities", h.Name)
		}
		scenario.Hospitals = append(scenario.Hospitals, sim.ScenarioHospital{
			Name: h.Name, Beds: h.Beds, Staff: h.Staff, Supplies: h.Supplies,
		})
	}
	return scenario, nil
}

// DefaultScenario is the built-in network: one large, one medium and one
// small hospital served by two ambulances.
func DefaultScenario() sim.Scenario {
	return sim.Scenario{
		Hospitals: []sim.ScenarioHospital{
			{Name: "hospital1", Beds: 5, Staff: 8, Supplies: 15},
			{Name: "hospital2", Beds: 3, Staff: 5, Supplies: 10},
			{Name: "hospital3", Beds: 2, Staff: 3, Supplies: 8},
		},
		Ambulances: 2,
	}
}
