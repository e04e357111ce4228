package sim

import (
	"fmt"
	"time"
)

// CareProfile is the fixed per-patient-type resource cost and length of stay.
// Every admission consumes one bed plus Staff and Supplies from the pool;
// the same amounts are released when the stay ends.
type CareProfile struct {
	Staff        int
	Supplies     int
	LengthOfStay time.Duration
}

// ProfileTable maps patient types to their care profiles.
type ProfileTable map[PatientType]CareProfile

// DefaultProfileTable returns the built-in cost/stay table.
func DefaultProfileTable() ProfileTable {
	return ProfileTable{
		TypeEmergency: {Staff: 2, Supplies: 3, LengthOfStay: 3 * time.Second},
		TypeRoutine:   {Staff: 1, Supplies: 1, LengthOfStay: 5 * time.Second},
	}
}

// InferType derives a patient type from severity when the type is absent:
// severity 1-2 is treated as emergency, anything else as routine.
func InferType(severity int) PatientType {
	if severity <= 2 {
		return TypeEmergency
	}
	return TypeRoutine
}

// Resolve returns the effective patient type and its profile.
// An empty type is inferred from severity. Panics on a type with no
// table entry: the table is construction-time configuration, so a miss
// is a programming error, not an input error.
func (t ProfileTable) Resolve(ptype PatientType, severity int) (PatientType, CareProfile) {
	if ptype == "" {
		ptype = InferType(severity)
	}
	prof, ok := t[ptype]
	if !ok {
		panic(fmt.Sprintf("no care profile for patient type %q", ptype))
	}
	return ptype, prof
}
