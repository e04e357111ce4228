package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-sim/hospital-sim/sim/history"
)

func testProfiles() ProfileTable {
	return ProfileTable{
		TypeEmergency: {Staff: 2, Supplies: 3, LengthOfStay: 3 * time.Second},
		TypeRoutine:   {Staff: 1, Supplies: 1, LengthOfStay: 5 * time.Second},
	}
}

func TestAdmissionLedger_AdmitThenRejectThenRecover(t *testing.T) {
	// Single-bed hospital: admit A, reject B with NO_BEDS, discharge A,
	// and the bed comes back.
	l := NewAdmissionLedger("h", 1, 1, 1, testProfiles())
	now := time.Now()

	resA := l.Admit(AdmissionRequest{PatientID: "A", Severity: 4, Type: TypeRoutine}, now)
	require.True(t, resA.Accepted)
	assert.Equal(t, 0, resA.BedsRemaining)

	resB := l.Admit(AdmissionRequest{PatientID: "B", Severity: 4, Type: TypeRoutine}, now)
	require.False(t, resB.Accepted)
	assert.Equal(t, ReasonNoBeds, resB.Reason)

	// Before the stay elapses the sweep discharges nothing.
	assert.Equal(t, 0, l.RunDischargeSweep(now.Add(time.Second)))
	assert.Equal(t, 0, l.Snapshot().BedsAvailable)

	// After the routine length of stay the bed returns.
	assert.Equal(t, 1, l.RunDischargeSweep(now.Add(5*time.Second)))
	assert.Equal(t, 1, l.Snapshot().BedsAvailable)
	assert.Equal(t, 1, l.Snapshot().StaffAvailable)
	assert.Equal(t, 1, l.Snapshot().SuppliesAvailable)
	assert.Equal(t, 1, l.Discharged())
}

func TestAdmissionLedger_TypeInference(t *testing.T) {
	tests := []struct {
		name     string
		severity int
		want     PatientType
	}{
		{"severity 1 infers emergency", 1, TypeEmergency},
		{"severity 2 infers emergency", 2, TypeEmergency},
		{"severity 3 infers routine", 3, TypeRoutine},
		{"severity 5 infers routine", 5, TypeRoutine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewAdmissionLedger("h", 5, 10, 10, testProfiles())
			res := l.Admit(AdmissionRequest{PatientID: "p", Severity: tt.severity}, time.Now())
			require.True(t, res.Accepted)
			assert.Equal(t, tt.want, res.PatientType)
		})
	}
}

func TestAdmissionLedger_TransferDefaultsLocation(t *testing.T) {
	l := NewAdmissionLedger("h", 2, 4, 6, testProfiles())

	res := l.HandleTransfer(AdmissionRequest{PatientID: "t1", Severity: 2}, time.Now())
	require.True(t, res.Accepted)

	patients := l.ActivePatients()
	require.Len(t, patients, 1)
	assert.Equal(t, "transferred", patients[0].Location)

	// An explicit location is preserved.
	res = l.HandleTransfer(AdmissionRequest{PatientID: "t2", Severity: 2, Location: "north"}, time.Now())
	require.True(t, res.Accepted)
	for _, p := range l.ActivePatients() {
		if p.ID == "t2" {
			assert.Equal(t, "north", p.Location)
		}
	}
}

// TestAdmissionLedger_SweepVisitsStableSnapshot admits several patients due
// at the same instant and checks a single sweep discharges all of them,
// with no record skipped or double-counted.
func TestAdmissionLedger_SweepVisitsStableSnapshot(t *testing.T) {
	l := NewAdmissionLedger("h", 10, 20, 30, testProfiles())
	now := time.Now()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		res := l.Admit(AdmissionRequest{PatientID: id, Severity: 1, Type: TypeEmergency}, now)
		require.True(t, res.Accepted)
	}

	discharged := l.RunDischargeSweep(now.Add(3 * time.Second))
	assert.Equal(t, 5, discharged)
	assert.Equal(t, 5, l.Discharged())
	assert.Empty(t, l.ActivePatients())

	// Pool fully recovered.
	snap := l.Snapshot()
	assert.Equal(t, 10, snap.BedsAvailable)
	assert.Equal(t, 20, snap.StaffAvailable)
	assert.Equal(t, 30, snap.SuppliesAvailable)

	// Running the sweep again finds nothing.
	assert.Equal(t, 0, l.RunDischargeSweep(now.Add(4*time.Second)))
	assert.Equal(t, 5, l.Discharged())
}

func TestAdmissionLedger_RejectionCounters(t *testing.T) {
	l := NewAdmissionLedger("h", 1, 10, 10, testProfiles())
	now := time.Now()

	require.True(t, l.Admit(AdmissionRequest{PatientID: "a", Severity: 3}, now).Accepted)
	for i := 0; i < 3; i++ {
		res := l.Admit(AdmissionRequest{PatientID: "b", Severity: 3}, now)
		require.False(t, res.Accepted)
	}

	assert.Equal(t, 1, l.Treated())
	assert.Equal(t, 3, l.RejectedTotal())
	assert.Equal(t, 3, l.RejectedByReason()[ReasonNoBeds])
}

// TestAdmissionLedger_HistoryAppendOnly verifies every admission and
// discharge appends a record with post-event pool levels, in order.
func TestAdmissionLedger_HistoryAppendOnly(t *testing.T) {
	l := NewAdmissionLedger("h", 2, 4, 6, testProfiles())
	now := time.Now()

	require.True(t, l.Admit(AdmissionRequest{PatientID: "a", Severity: 1, Type: TypeEmergency}, now).Accepted)
	require.True(t, l.HandleTransfer(AdmissionRequest{PatientID: "b", Severity: 1, Type: TypeEmergency}, now).Accepted)
	l.RunDischargeSweep(now.Add(3 * time.Second))

	records := l.History().Records()
	require.Len(t, records, 4) // admission, transfer, 2 discharges

	assert.Equal(t, history.KindAdmission, records[0].Kind)
	assert.Equal(t, "a", records[0].PatientID)
	assert.Equal(t, 1, records[0].BedsAvailable)
	assert.Equal(t, 2, records[0].StaffAvailable)
	assert.Equal(t, 3, records[0].SuppliesAvailable)

	assert.Equal(t, history.KindTransfer, records[1].Kind)
	assert.Equal(t, 0, records[1].BedsAvailable)

	assert.Equal(t, history.KindDischarge, records[2].Kind)
	assert.Equal(t, history.KindDischarge, records[3].Kind)
	// Post-discharge levels are fully recovered in the final record.
	assert.Equal(t, 2, records[3].BedsAvailable)
	assert.Equal(t, 4, records[3].StaffAvailable)
	assert.Equal(t, 6, records[3].SuppliesAvailable)

	// Rejections do not append.
	before := l.History().Len()
	full := NewAdmissionLedger("full", 0, 0, 0, testProfiles())
	full.Admit(AdmissionRequest{PatientID: "x", Severity: 3}, now)
	assert.Equal(t, 0, full.History().Len())
	assert.Equal(t, before, l.History().Len())
}

func TestAdmissionLedger_AverageStay(t *testing.T) {
	l := NewAdmissionLedger("h", 4, 8, 12, testProfiles())
	now := time.Now()

	require.True(t, l.Admit(AdmissionRequest{PatientID: "a", Severity: 1, Type: TypeEmergency}, now).Accepted)
	require.True(t, l.Admit(AdmissionRequest{PatientID: "b", Severity: 1, Type: TypeEmergency}, now).Accepted)

	l.RunDischargeSweep(now.Add(4 * time.Second))
	assert.Equal(t, 4*time.Second, l.AverageStay())
}
