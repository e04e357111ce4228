package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ScenarioHospital describes one hospital's capacities.
type ScenarioHospital struct {
	Name     string
	Beds     int
	Staff    int
	Supplies int
}

// Scenario describes the network under simulation: the hospital fleet in
// fixed order (the order ambulances query and fall back in) and the number
// of ambulances.
type Scenario struct {
	Hospitals  []ScenarioHospital
	Ambulances int
}

// Simulation wires hospital and ambulance actors together and runs the
// simulation window.
type Simulation struct {
	cfg        SimulationConfig
	hospitals  []*Hospital
	ambulances []*Ambulance
}

// NewSimulation builds all actors for the scenario. The seed makes every
// ambulance's patient stream reproducible.
func NewSimulation(scenario Scenario, cfg SimulationConfig, seed int64) *Simulation {
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	hospitals := make([]*Hospital, 0, len(scenario.Hospitals))
	handles := make([]HospitalHandle, 0, len(scenario.Hospitals))
	for _, sh := range scenario.Hospitals {
		h := NewHospital(sh.Name, sh.Beds, sh.Staff, sh.Supplies, cfg.Profiles, cfg.DischargeSweepInterval)
		hospitals = append(hospitals, h)
		handles = append(handles, HospitalHandle{Name: h.Name, Inbox: h.Inbox})
	}

	ambulances := make([]*Ambulance, 0, scenario.Ambulances)
	for i := 0; i < scenario.Ambulances; i++ {
		name := fmt.Sprintf("ambulance%d", i+1)
		ambulances = append(ambulances, NewAmbulance(name, handles, cfg, rng))
	}

	return &Simulation{cfg: cfg, hospitals: hospitals, ambulances: ambulances}
}

// Run starts one goroutine per actor, waits for every ambulance to drain,
// stops the hospitals, and returns the aggregate report.
func (s *Simulation) Run(ctx context.Context) Report {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var hwg sync.WaitGroup
	for _, h := range s.hospitals {
		hwg.Add(1)
		go func(h *Hospital) {
			defer hwg.Done()
			h.Run(ctx)
		}(h)
	}

	var wg sync.WaitGroup
	for _, a := range s.ambulances {
		wg.Add(1)
		go func(a *Ambulance) {
			defer wg.Done()
			a.Run(ctx)
		}(a)
	}
	wg.Wait()

	// Hospitals halt via context cancellation once no ambulance remains.
	// The report reads ledger state, so every actor must be stopped first.
	cancel()
	hwg.Wait()

	logrus.Info("simulation complete")
	return s.Report()
}

// Report aggregates ledger and ambulance counters. Call after Run returns.
func (s *Simulation) Report() Report {
	r := Report{}
	for _, h := range s.hospitals {
		r.Hospitals = append(r.Hospitals, h.Ledger())
	}
	for _, a := range s.ambulances {
		r.Ambulances = append(r.Ambulances, a.Stats())
	}
	return r
}
