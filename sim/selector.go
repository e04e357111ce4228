package sim

// SelectHospital scores the advertised resource state of known hospitals
// against a patient's profile and severity and returns the best candidate.
//
// Hospitals failing the read-only resource-sufficiency check for the
// patient's profile are filtered out. Survivors are scored as
//
//	score = (beds*3 + staff*2 + supplies - occupancy*10) * severityWeight
//
// where severityWeight is 2 for critical patients (severity <= 2 or type
// emergency) and 1 otherwise. Ties are broken by first-seen order in the
// snapshot slice (strict > comparison), so a fixed input yields a fixed
// choice. ok is false when no candidate survives filtering: NO_HOSPITAL is
// a first-class outcome, not an error.
func SelectHospital(snapshots []HospitalSnapshot, severity int, ptype PatientType, profiles ProfileTable) (HospitalSnapshot, bool) {
	_, prof := profiles.Resolve(ptype, severity)

	weight := 1.0
	if severity <= 2 || ptype == TypeEmergency {
		weight = 2.0
	}

	best := HospitalSnapshot{}
	bestScore := 0.0
	found := false
	for _, snap := range snapshots {
		if !snap.Resources.CanAccommodate(prof) {
			continue
		}
		score := scoreSnapshot(snap.Resources) * weight
		if !found || score > bestScore {
			best = snap
			bestScore = score
			found = true
		}
	}
	return best, found
}

func scoreSnapshot(s ResourceSnapshot) float64 {
	return float64(s.BedsAvailable)*3 +
		float64(s.StaffAvailable)*2 +
		float64(s.SuppliesAvailable) -
		s.Occupancy*10
}
