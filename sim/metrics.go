// Aggregates terminal dispatch outcomes and hospital counters for the
// final human-readable report.

package sim

import (
	"fmt"
	"sort"
	"time"
)

// AmbulanceStats accumulates one ambulance's terminal outcomes.
// Written only by the owning ambulance goroutine; read after it halts.
type AmbulanceStats struct {
	Name string

	Generated      int
	Succeeded      int
	Failed         int
	Retries        int
	FailedByReason map[RejectReason]int

	TotalTransport time.Duration
}

// NewAmbulanceStats creates zeroed stats for one ambulance.
func NewAmbulanceStats(name string) *AmbulanceStats {
	return &AmbulanceStats{
		Name:           name,
		FailedByReason: make(map[RejectReason]int),
	}
}

// RecordSuccess tallies an accepted admission with its transport time.
func (s *AmbulanceStats) RecordSuccess(transport time.Duration) {
	s.Succeeded++
	s.TotalTransport += transport
}

// RecordFailure tallies a terminal failure under its reason.
func (s *AmbulanceStats) RecordFailure(reason RejectReason) {
	s.Failed++
	s.FailedByReason[reason]++
}

// AverageTransport returns the mean transport time of successful dispatches.
func (s *AmbulanceStats) AverageTransport() time.Duration {
	if s.Succeeded == 0 {
		return 0
	}
	return s.TotalTransport / time.Duration(s.Succeeded)
}

// SuccessRate returns the fraction of terminal patients admitted, in [0,1].
func (s *AmbulanceStats) SuccessRate() float64 {
	total := s.Succeeded + s.Failed
	if total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(total)
}

// Report is the end-of-run aggregate over all actors. Built after every
// actor has halted, so it reads ledger state without synchronization.
type Report struct {
	Hospitals  []*AdmissionLedger
	Ambulances []*AmbulanceStats
}

// Print displays the final report: per-hospital resource levels and
// counters, per-ambulance outcomes, and fleet-wide totals.
func (r Report) Print() {
	fmt.Println("=== Simulation Report ===")

	totalTreated, totalRejected := 0, 0
	totalBeds, totalBedsAvailable := 0, 0
	for _, l := range r.Hospitals {
		snap := l.Snapshot()
		fmt.Printf("\nHospital %s:\n", l.Name())
		fmt.Printf("  Admitted    : %d\n", l.Treated())
		fmt.Printf("  Rejected    : %d\n", l.RejectedTotal())
		fmt.Printf("  Discharged  : %d (avg stay %s)\n", l.Discharged(), l.AverageStay().Round(time.Millisecond))
		fmt.Printf("  Beds        : %d/%d available\n", snap.BedsAvailable, snap.BedsTotal)
		fmt.Printf("  Staff       : %d/%d available\n", snap.StaffAvailable, snap.StaffTotal)
		fmt.Printf("  Supplies    : %d/%d available\n", snap.SuppliesAvailable, snap.SuppliesTotal)

		active := l.ActivePatients()
		sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
		for _, p := range active {
			fmt.Printf("  In care     : %s (severity %d - %s)\n", p.ID, p.Severity, SeverityLabel(p.Severity))
		}

		totalTreated += l.Treated()
		totalRejected += l.RejectedTotal()
		totalBeds += snap.BedsTotal
		totalBedsAvailable += snap.BedsAvailable
	}

	succeeded, failed := 0, 0
	for _, s := range r.Ambulances {
		fmt.Printf("\nAmbulance %s:\n", s.Name)
		fmt.Printf("  Generated   : %d\n", s.Generated)
		fmt.Printf("  Admitted    : %d\n", s.Succeeded)
		fmt.Printf("  Failed      : %d\n", s.Failed)
		fmt.Printf("  Retries     : %d\n", s.Retries)
		for _, reason := range []RejectReason{ReasonNoBeds, ReasonNoStaff, ReasonNoSupplies, ReasonTimeout, ReasonNoHospital} {
			if n := s.FailedByReason[reason]; n > 0 {
				fmt.Printf("    %-12s: %d\n", reason, n)
			}
		}
		if s.Succeeded > 0 {
			fmt.Printf("  Avg transport: %s\n", s.AverageTransport().Round(time.Millisecond))
		}
		succeeded += s.Succeeded
		failed += s.Failed
	}

	fmt.Println("\nFleet totals:")
	fmt.Printf("  Treated     : %d\n", totalTreated)
	fmt.Printf("  Rejected    : %d\n", totalRejected)
	if succeeded+failed > 0 {
		fmt.Printf("  Success rate: %.1f%%\n", 100*float64(succeeded)/float64(succeeded+failed))
	}
	if totalBeds > 0 {
		utilization := float64(totalBeds-totalBedsAvailable) / float64(totalBeds)
		fmt.Printf("  Bed usage   : %.1f%%\n", 100*utilization)
	}
}
