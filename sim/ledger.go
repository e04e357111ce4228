package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hospital-sim/hospital-sim/sim/history"
)

// PatientRecord is an admitted patient as tracked by the owning hospital.
// Created on successful admission, removed by the discharge sweep once
// now - AdmissionTime >= LengthOfStay.
type PatientRecord struct {
	ID       string
	Severity int
	Location string
	Type     PatientType

	Profile       CareProfile
	AdmissionTime time.Time
	LengthOfStay  time.Duration
}

// AdmissionRequest is a decoded admission or transfer request.
// Type may be empty, in which case it is inferred from severity.
type AdmissionRequest struct {
	PatientID string
	Severity  int
	Location  string
	Type      PatientType
}

// AdmissionResult is the ledger's accept/reject decision.
type AdmissionResult struct {
	Accepted      bool
	Reason        RejectReason // set when Accepted is false
	BedsRemaining int          // set when Accepted is true
	PatientType   PatientType  // effective type after inference
}

// AdmissionLedger is the per-hospital admission state machine: it owns the
// hospital's resource pool and active patient set, decides accept/reject,
// recovers resources on the discharge schedule and exports snapshots.
// Not safe for concurrent use; the owning hospital actor serializes access.
type AdmissionLedger struct {
	name     string
	pool     ResourcePool
	profiles ProfileTable
	active   map[string]*PatientRecord
	log      *history.Log

	treated    int
	rejected   map[RejectReason]int
	discharged int
	totalStay  time.Duration
}

// NewAdmissionLedger creates a ledger with a fully-available pool.
func NewAdmissionLedger(name string, beds, staff, supplies int, profiles ProfileTable) *AdmissionLedger {
	return &AdmissionLedger{
		name:     name,
		pool:     NewResourcePool(beds, staff, supplies),
		profiles: profiles,
		active:   make(map[string]*PatientRecord),
		log:      history.NewLog(),
		rejected: make(map[RejectReason]int),
	}
}

// Name returns the hospital identifier this ledger belongs to.
func (l *AdmissionLedger) Name() string { return l.name }

// Admit resolves the request's care profile and attempts to reserve it.
// On success a PatientRecord is created with AdmissionTime = now and the
// profile's length of stay. On failure the per-reason counter is
// incremented and no state changes.
func (l *AdmissionLedger) Admit(req AdmissionRequest, now time.Time) AdmissionResult {
	return l.admit(req, now, history.KindAdmission)
}

// HandleTransfer is the admission path for inter-hospital transfers:
// identical contract, with the location defaulted to "transferred" when
// absent.
func (l *AdmissionLedger) HandleTransfer(req AdmissionRequest, now time.Time) AdmissionResult {
	if req.Location == "" {
		req.Location = "transferred"
	}
	return l.admit(req, now, history.KindTransfer)
}

func (l *AdmissionLedger) admit(req AdmissionRequest, now time.Time, kind history.EventKind) AdmissionResult {
	ptype, prof := l.profiles.Resolve(req.Type, req.Severity)

	ok, reason := l.pool.TryReserve(prof)
	if !ok {
		l.rejected[reason]++
		logrus.Infof("[%s] rejected %s (severity %d): %s", l.name, req.PatientID, req.Severity, reason)
		return AdmissionResult{Accepted: false, Reason: reason, PatientType: ptype}
	}

	l.active[req.PatientID] = &PatientRecord{
		ID:            req.PatientID,
		Severity:      req.Severity,
		Location:      req.Location,
		Type:          ptype,
		Profile:       prof,
		AdmissionTime: now,
		LengthOfStay:  prof.LengthOfStay,
	}
	l.treated++
	l.append(kind, req.PatientID, now)

	logrus.Infof("[%s] admitted %s (severity %d, %s), beds %d/%d",
		l.name, req.PatientID, req.Severity, ptype, l.pool.BedsAvailable, l.pool.BedsTotal)
	return AdmissionResult{Accepted: true, BedsRemaining: l.pool.BedsAvailable, PatientType: ptype}
}

// Snapshot exports the current resource state. Read-only, no side effects.
func (l *AdmissionLedger) Snapshot() ResourceSnapshot {
	return l.pool.Snapshot()
}

// RunDischargeSweep releases every active patient whose length of stay has
// elapsed and returns how many were discharged. The due set is collected
// before any removal so that mutation cannot skip or double-visit records.
func (l *AdmissionLedger) RunDischargeSweep(now time.Time) int {
	due := make([]*PatientRecord, 0)
	for _, rec := range l.active {
		if now.Sub(rec.AdmissionTime) >= rec.LengthOfStay {
			due = append(due, rec)
		}
	}

	for _, rec := range due {
		l.pool.Release(rec.Profile)
		delete(l.active, rec.ID)
		l.discharged++
		l.totalStay += now.Sub(rec.AdmissionTime)
		l.append(history.KindDischarge, rec.ID, now)
		logrus.Debugf("[%s] discharged %s after %s", l.name, rec.ID, now.Sub(rec.AdmissionTime))
	}
	return len(due)
}

func (l *AdmissionLedger) append(kind history.EventKind, patientID string, now time.Time) {
	l.log.Append(history.ResourceRecord{
		Hospital:          l.name,
		PatientID:         patientID,
		Kind:              kind,
		Time:              now,
		BedsAvailable:     l.pool.BedsAvailable,
		StaffAvailable:    l.pool.StaffAvailable,
		SuppliesAvailable: l.pool.SuppliesAvailable,
	})
}

// History returns the append-only resource event log.
func (l *AdmissionLedger) History() *history.Log { return l.log }

// Treated returns the number of patients admitted (including transfers).
func (l *AdmissionLedger) Treated() int { return l.treated }

// Discharged returns the number of completed stays.
func (l *AdmissionLedger) Discharged() int { return l.discharged }

// RejectedTotal returns the number of rejections across all reasons.
func (l *AdmissionLedger) RejectedTotal() int {
	total := 0
	for _, n := range l.rejected {
		total += n
	}
	return total
}

// RejectedByReason returns a copy of the per-reason rejection counters.
func (l *AdmissionLedger) RejectedByReason() map[RejectReason]int {
	out := make(map[RejectReason]int, len(l.rejected))
	for r, n := range l.rejected {
		out[r] = n
	}
	return out
}

// ActivePatients returns the currently admitted patients. Map iteration
// order is unspecified; callers needing determinism sort by ID.
func (l *AdmissionLedger) ActivePatients() []*PatientRecord {
	out := make([]*PatientRecord, 0, len(l.active))
	for _, rec := range l.active {
		out = append(out, rec)
	}
	return out
}

// AverageStay returns the mean actual stay duration of discharged patients.
func (l *AdmissionLedger) AverageStay() time.Duration {
	if l.discharged == 0 {
		return 0
	}
	return l.totalStay / time.Duration(l.discharged)
}
